package platform

import (
	"testing"

	"bimigrate/cli/internal/config"
	"bimigrate/cli/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Platform
	}{
		{name: "tableau", in: "tableau", want: Tableau},
		{name: "tableau mixed case", in: "Tableau", want: Tableau},
		{name: "microstrategy", in: "microstrategy", want: MicroStrategy},
		{name: "mstr alias", in: "mstr", want: MicroStrategy},
		{name: "padded", in: "  tableau  ", want: Tableau},
		{name: "unknown", in: "powerbi", want: None},
		{name: "empty", in: "", want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveBaseAddress(t *testing.T) {
	cfg := config.Config{
		TableauURL:       "https://tab.example.com/",
		MicroStrategyURL: "https://mstr.example.com",
	}

	tests := []struct {
		name    string
		p       Platform
		want    string
		wantErr bool
	}{
		{name: "tableau trims trailing slash", p: Tableau, want: "https://tab.example.com"},
		{name: "microstrategy", p: MicroStrategy, want: "https://mstr.example.com"},
		{name: "none", p: None, wantErr: true},
		{name: "bogus", p: Platform("qlik"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBaseAddress(tt.p, cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveBaseAddress(%v) error = nil, want error", tt.p)
				}
				if !errors.HasKind(err, errors.NoActivePlatform) {
					t.Errorf("ResolveBaseAddress(%v) error kind mismatch: %v", tt.p, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveBaseAddress(%v) unexpected error: %v", tt.p, err)
			}
			if got != tt.want {
				t.Errorf("ResolveBaseAddress(%v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

package config

import (
	"testing"
)

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BIMIGRATE_TABLEAU_URL", "")
	t.Setenv("BIMIGRATE_MSTR_URL", "")

	want := Config{
		LogLevel:            "debug",
		TableauURL:          "https://tableau.example.com",
		MicroStrategyURL:    "https://mstr.example.com",
		PollIntervalSeconds: 5,
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BIMIGRATE_TABLEAU_URL", "")
	t.Setenv("BIMIGRATE_MSTR_URL", "")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.PollIntervalSeconds != defaultPollInterval {
		t.Errorf("PollIntervalSeconds = %d, want %d", got.PollIntervalSeconds, defaultPollInterval)
	}
	if got.TableauURL != defaultTableauURL {
		t.Errorf("TableauURL = %q, want %q", got.TableauURL, defaultTableauURL)
	}
}

func TestEnvOverridesSavedFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BIMIGRATE_MSTR_URL", "")

	if err := Save(Config{TableauURL: "https://from-file", PollIntervalSeconds: 2}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv("BIMIGRATE_TABLEAU_URL", "https://from-env")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TableauURL != "https://from-env" {
		t.Errorf("TableauURL = %q, want the env override", got.TableauURL)
	}
}

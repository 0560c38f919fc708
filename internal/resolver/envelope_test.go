package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnvelopeShapes(t *testing.T) {
	cases := []struct {
		label string
		body  string
	}{
		{"bare array", `[{"id":"v1","name":"Sales"}]`},
		{"data field", `{"data":[{"id":"v1","name":"Sales"}]}`},
		{"named field", `{"views":[{"id":"v1","name":"Sales"}]}`},
		{"doubly nested", `{"views":{"views":[{"id":"v1","name":"Sales"}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			got := normalizeEnvelope([]byte(tc.body), "views")
			require.Len(t, got, 1)
			assert.Equal(t, "v1", got[0].ID)
			assert.Equal(t, "Sales", got[0].Name)
		})
	}
}

func TestNormalizeEnvelopeUnknownShape(t *testing.T) {
	assert.Nil(t, normalizeEnvelope([]byte(`{"status":"ok"}`), "views"))
	assert.Nil(t, normalizeEnvelope([]byte(`"just a string"`), "views"))
	assert.Nil(t, normalizeEnvelope(nil, "views"))
}

func TestDecodeItemsFieldSpellings(t *testing.T) {
	body := `[
		{"luid":"a","label":"Alpha"},
		{"key":"b","caption":"Beta","formula":"SUM([X])"},
		{"name":"no id, dropped"},
		{"id":"c","title":"  Gamma  "}
	]`
	got := normalizeEnvelope([]byte(body), "views")
	require.Len(t, got, 3)
	assert.Equal(t, Resource{ID: "a", Name: "Alpha"}, got[0])
	assert.Equal(t, Resource{ID: "b", Name: "Beta", Expression: "SUM([X])"}, got[1])
	assert.Equal(t, Resource{ID: "c", Name: "Gamma"}, got[2])
}

package lang

import (
	"net/http/httptest"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{German, "recipe", "Rezept"},
		{English, "recipe", "Recipe"},
		{German, "pdfFileName", "Rezept.pdf"},
		{English, "pdfFileName", "prescription.pdf"},
		{German, "delete", "Löschen"},
	}

	for _, tt := range tests {
		if got := T(tt.locale, tt.key); got != tt.want {
			t.Errorf("T(%s, %s) = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}

func TestMissingKeyFallsBackToLiteral(t *testing.T) {
	if got := T(German, "noSuchKey"); got != "noSuchKey" {
		t.Errorf("missing key should return the key itself, got %q", got)
	}
	if got := T("fr", "recipe"); got != "Recipe" {
		t.Errorf("unknown locale should fall back to English, got %q", got)
	}
}

func TestLabelsResolveEveryKey(t *testing.T) {
	labels := Labels(German)
	for key := range english {
		if labels[key] == "" {
			t.Errorf("key %s unresolved in German table", key)
		}
	}
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{"query wins", "?lang=de", "en-US", German},
		{"bad query ignored", "?lang=fr", "de-DE", German},
		{"accept-language german", "", "de-CH,de;q=0.9", German},
		{"accept-language english", "", "en-GB", English},
		{"no hints", "", "", English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/labels"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set("Accept-Language", tt.header)
			}
			if got := FromRequest(r); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

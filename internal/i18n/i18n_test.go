package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "de"}, b.Locales())
	assert.True(t, b.HasLocale("en"))
	assert.True(t, b.HasLocale("de"))
	assert.False(t, b.HasLocale("fr"))
}

func TestBundleT(t *testing.T) {
	b := Default()

	assert.Equal(t, "Products", b.T("en", "nav.products"))
	assert.Equal(t, "Produkte", b.T("de", "nav.products"))

	// unknown locale falls back to base
	assert.Equal(t, "Products", b.T("fr", "nav.products"))

	// unknown key falls back to the key itself
	assert.Equal(t, "nope.missing", b.T("en", "nope.missing"))
}

func TestBundleMatch(t *testing.T) {
	b := Default()

	tests := []struct {
		accept string
		want   string
	}{
		{"de", "de"},
		{"de-AT,de;q=0.9", "de"},
		{"en-US,en;q=0.5", "en"},
		{"fr-FR,fr;q=0.9", "en"},
		{"", "en"},
		{"not a header", "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Match(tt.accept), "accept=%q", tt.accept)
	}
}

func TestBundleCanonical(t *testing.T) {
	b := Default()

	got, ok := b.Canonical("DE")
	assert.True(t, ok)
	assert.Equal(t, "de", got)

	got, ok = b.Canonical("de-AT")
	assert.True(t, ok)
	assert.Equal(t, "de", got)

	_, ok = b.Canonical("zz!!")
	assert.False(t, ok)
}

func TestLoadFromFSValidation(t *testing.T) {
	t.Run("missing base locale", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/de.json": {Data: []byte(`{"greeting": "Hallo"}`)},
		}
		_, err := LoadFromFS(fsys)
		assert.ErrorContains(t, err, "base locale")
	})

	t.Run("incomplete locale coverage", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/en.json": {Data: []byte(`{"greeting": "Hi", "farewell": "Bye"}`)},
			"locales/de.json": {Data: []byte(`{"greeting": "Hallo"}`)},
		}
		_, err := LoadFromFS(fsys)
		assert.ErrorContains(t, err, "missing key")
	})

	t.Run("invalid json", func(t *testing.T) {
		fsys := fstest.MapFS{
			"locales/en.json": {Data: []byte(`{`)},
		}
		_, err := LoadFromFS(fsys)
		assert.ErrorContains(t, err, "parse dictionary")
	})

	t.Run("no dictionaries", func(t *testing.T) {
		_, err := LoadFromFS(fstest.MapFS{})
		assert.Error(t, err)
	})
}

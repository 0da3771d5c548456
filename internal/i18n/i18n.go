package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the canonical source locale for dictionaries.
const BaseLocale = "en"

//go:embed locales/*.json
var embeddedLocaleFS embed.FS

// Bundle holds all locale dictionaries, one flat key/value map per locale.
type Bundle struct {
	locales map[string]map[string]string
	tags    []language.Tag
	matcher language.Matcher
}

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(fmt.Sprintf("i18n: load embedded locales: %v", err))
	}
	return b
}

// LoadEmbedded loads the dictionaries embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedLocaleFS)
}

// LoadFromFS loads locale dictionaries from the provided filesystem.
// Every file must be locales/<locale>.json with a flat string map, and every
// non-base locale must cover the full base key set.
func LoadFromFS(localeFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob locale dictionaries: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale dictionaries found")
	}
	sort.Strings(paths)

	locales := make(map[string]map[string]string, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(localeFS, path)
		if err != nil {
			return nil, fmt.Errorf("read dictionary %s: %w", path, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
		}
		locale := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("dictionary %s: invalid locale %q: %w", path, locale, err)
		}
		for key := range messages {
			if strings.TrimSpace(key) == "" {
				return nil, fmt.Errorf("dictionary %s: message key cannot be blank", path)
			}
		}
		locales[locale] = messages
	}

	base, ok := locales[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	for locale, messages := range locales {
		if locale == BaseLocale {
			continue
		}
		for key := range base {
			if _, ok := messages[key]; !ok {
				return nil, fmt.Errorf("locale %s: missing key %q present in base locale", locale, key)
			}
		}
	}

	// Base locale first so the matcher falls back to it.
	names := make([]string, 0, len(locales))
	names = append(names, BaseLocale)
	for locale := range locales {
		if locale != BaseLocale {
			names = append(names, locale)
		}
	}
	sort.Strings(names[1:])

	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, language.MustParse(name))
	}

	return &Bundle{
		locales: locales,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Locales returns the supported locale names, base locale first.
func (b *Bundle) Locales() []string {
	out := make([]string, len(b.tags))
	for i, tag := range b.tags {
		out[i] = tag.String()
	}
	return out
}

// HasLocale reports whether the given locale is supported.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// Dictionary returns the full key/value map for a locale, or false when the
// locale is unknown.
func (b *Bundle) Dictionary(locale string) (map[string]string, bool) {
	m, ok := b.locales[locale]
	return m, ok
}

// T returns the message for key in the given locale, falling back to the base
// locale and finally to the key itself.
func (b *Bundle) T(locale, key string) string {
	if messages, ok := b.locales[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := b.locales[BaseLocale][key]; ok {
		return msg
	}
	return key
}

// Match resolves an Accept-Language header value to a supported locale name.
// Unparseable or empty input resolves to the base locale.
func (b *Bundle) Match(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return BaseLocale
	}
	wanted, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return BaseLocale
	}
	_, index, _ := b.matcher.Match(wanted...)
	return b.tags[index].String()
}

// Canonical parses a raw locale value ("de", "de-AT", "DE") and returns the
// supported locale it maps to, or false when nothing matches.
func (b *Bundle) Canonical(raw string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	_, index, conf := b.matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return b.tags[index].String(), true
}

// Package i18n resolves response messages for the supported locales.
//
// Catalogs are embedded JSON files, one per locale, loaded once at process
// start into an immutable Bundle. Message keys are dotted paths into the
// catalog ("errors.user_exists"); a key that does not resolve comes back
// unchanged so a missing translation never turns into an error.
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

// DefaultLocale is the fallback for unrecognized language preferences.
const DefaultLocale = "en"

//go:embed locales/*.json
var embeddedLocaleFS embed.FS

// Bundle holds the message catalogs for all supported locales plus the
// language matcher used to negotiate Accept-Language headers. It is
// read-only after construction.
type Bundle struct {
	locales map[string]map[string]any
	tags    []language.Tag
	matcher language.Matcher
}

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedLocaleFS)
}

// LoadFromFS loads locale catalogs from the provided filesystem. File names
// define the locale: locales/en.json holds the "en" catalog. The default
// locale must be present.
func LoadFromFS(localeFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]any{}}

	for _, path := range paths {
		locale := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		data, err := fs.ReadFile(localeFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		messages := map[string]any{}
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}

		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: bad locale %q: %w", path, locale, err)
		}

		b.locales[locale] = messages
		b.tags = append(b.tags, tag)
	}

	if _, ok := b.locales[DefaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %s is not defined in catalogs", DefaultLocale)
	}

	// The matcher prefers earlier tags on no match, so the default goes first.
	sort.Slice(b.tags, func(i, j int) bool {
		if b.tags[i].String() == DefaultLocale {
			return true
		}
		if b.tags[j].String() == DefaultLocale {
			return false
		}
		return b.tags[i].String() < b.tags[j].String()
	})
	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}

// Match negotiates an Accept-Language header value against the supported
// locales and returns the chosen locale name. Absent or unparseable headers
// resolve to the default locale.
func (b *Bundle) Match(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return DefaultLocale
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return DefaultLocale
	}
	_, index, _ := b.matcher.Match(prefs...)
	return b.tags[index].String()
}

// Resolve returns the display string for a dotted message key in the given
// locale. Unknown locales fall back to the default locale; a key that does
// not resolve to a string is returned literally.
func (b *Bundle) Resolve(locale, key string) string {
	messages, ok := b.locales[locale]
	if !ok {
		messages = b.locales[DefaultLocale]
	}

	var value any = messages
	for _, part := range strings.Split(key, ".") {
		node, ok := value.(map[string]any)
		if !ok {
			return key
		}
		value, ok = node[part]
		if !ok {
			return key
		}
	}

	s, ok := value.(string)
	if !ok {
		return key
	}
	return s
}

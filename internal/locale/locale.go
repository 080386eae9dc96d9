// Package locale resolves message keys to display strings from embedded YAML
// catalogs. Lookups never fail: a missing key resolves to itself.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"ServerDesk/entity"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the catalog every other locale falls back to.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of the selected locale merged over the base locale.
type Bundle struct {
	tag      language.Tag
	base     map[string]string
	messages map[string]string
	printer  *message.Printer
}

// LoadEmbedded loads the catalogs shipped with the binary and selects the
// locale closest to the requested one.
func LoadEmbedded(locale string) (*Bundle, error) {
	return LoadFromFS(embeddedFS, locale)
}

// LoadFromFS loads every locales/*.yaml catalog from fsys.
func LoadFromFS(fsys fs.FS, locale string) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	catalogs := make(map[string]map[string]string, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		name := strings.TrimSpace(file.Locale)
		if name == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, exists := catalogs[name]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q already defined", path, name)
		}
		catalogs[name] = file.Messages
	}

	base, ok := catalogs[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	names := []string{BaseLocale}
	for name := range catalogs {
		if name != BaseLocale {
			names = append(names, name)
		}
	}
	sort.Strings(names[1:])

	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	requested := language.Make(strings.TrimSpace(locale))
	_, index, _ := language.NewMatcher(tags).Match(requested)
	selected := names[index]

	merged := make(map[string]string, len(base))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range catalogs[selected] {
		merged[key] = value
	}

	builder := catalog.NewBuilder(catalog.Fallback(tags[0]))
	for i, name := range names {
		for key, value := range catalogs[name] {
			if err := builder.SetString(tags[i], key, value); err != nil {
				return nil, fmt.Errorf("register %s/%s: %w", name, key, err)
			}
		}
	}

	return &Bundle{
		tag:      tags[index],
		base:     base,
		messages: merged,
		printer:  message.NewPrinter(tags[index], message.Catalog(builder)),
	}, nil
}

// Tag returns the selected locale.
func (b *Bundle) Tag() language.Tag {
	return b.tag
}

// Lookup reports whether key has a localized value.
func (b *Bundle) Lookup(key string) (string, bool) {
	value, ok := b.messages[strings.TrimSpace(key)]
	return value, ok
}

// Resolve returns the localized value for key, or key itself when none exists.
func (b *Bundle) Resolve(key string) string {
	if value, ok := b.Lookup(key); ok && value != "" {
		return value
	}
	return key
}

// Translate is Resolve for values coming from chat connectors: a blank key
// yields an empty string.
func (b *Bundle) Translate(key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	return b.Resolve(key)
}

// Format resolves key and substitutes {0}, {1}, ... with args. Numeric args
// use the digit grouping of the selected locale.
func (b *Bundle) Format(key string, args ...any) string {
	template := b.Resolve(key)
	if len(args) == 0 {
		return template
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", b.printer.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Validate checks that the base catalog defines every key the dispatcher
// renders, including one entry per availability value.
func (b *Bundle) Validate() error {
	var errs []error
	for _, key := range requiredKeys {
		if _, ok := b.base[key]; !ok {
			errs = append(errs, fmt.Errorf("missing message %q", key))
		}
	}
	for _, a := range entity.Availabilities {
		key, ok := availabilityKeys[a]
		if !ok {
			errs = append(errs, fmt.Errorf("availability %s has no message key", a))
			continue
		}
		if _, ok := b.base[key]; !ok {
			errs = append(errs, fmt.Errorf("missing message %q", key))
		}
	}
	return errors.Join(errs...)
}

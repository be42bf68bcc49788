// Package phrases loads the localized texts used to describe group updates
// and hands out printers for them.
package phrases

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string                  `yaml:"locale"`
	Messages map[string]catalogEntry `yaml:"messages"`
}

// catalogEntry is either a plain string or a plural selection:
//
//	key:
//	  arg: 2
//	  one: "..."
//	  other: "..."
type catalogEntry struct {
	Text   string
	Plural *pluralEntry
}

type pluralEntry struct {
	Arg   int    `yaml:"arg"`
	Zero  string `yaml:"zero"`
	One   string `yaml:"one"`
	Other string `yaml:"other"`
}

func (e *catalogEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&e.Text)
	case yaml.MappingNode:
		p := new(pluralEntry)
		if err := value.Decode(p); err != nil {
			return err
		}
		if p.Arg < 1 {
			return fmt.Errorf("line %d: plural arg must be at least 1", value.Line)
		}
		if p.Other == "" {
			return fmt.Errorf("line %d: plural entry needs an \"other\" case", value.Line)
		}
		e.Plural = p
		return nil
	default:
		return fmt.Errorf("line %d: unexpected message node", value.Line)
	}
}

func (p pluralEntry) message() catalog.Message {
	var cases []interface{}
	if p.Zero != "" {
		cases = append(cases, "=0", p.Zero)
	}
	if p.One != "" {
		cases = append(cases, "one", p.One)
	}
	cases = append(cases, "other", p.Other)
	return plural.Selectf(p.Arg, "%d", cases...)
}

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
	keys    map[language.Tag][]string
}

var defaultCatalog = mustLoadEmbedded()

// Default returns the catalog embedded in this package.
func Default() *Catalog {
	return defaultCatalog
}

// Printer is shorthand for Default().Printer(locale).
func Printer(locale string) *message.Printer {
	return defaultCatalog.Printer(locale)
}

// LoadEmbedded loads the catalogs shipped with this package.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/<locale>/*.yaml from fsys. Keys a locale does
// not define are filled in from BaseLocale.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("phrases: glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("phrases: no catalog files found")
	}
	sort.Strings(paths)

	entries := map[language.Tag]map[string]catalogEntry{}
	var tags []language.Tag
	for _, name := range paths {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("phrases: read %s: %w", name, err)
		}

		tag, messages, err := parseFile(name, data)
		if err != nil {
			return nil, err
		}

		if _, ok := entries[tag]; !ok {
			entries[tag] = map[string]catalogEntry{}
			tags = append(tags, tag)
		}
		for key, entry := range messages {
			entries[tag][key] = entry
		}
	}

	base := language.MustParse(BaseLocale)
	if _, ok := entries[base]; !ok {
		return nil, fmt.Errorf("phrases: base locale %s is not defined", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i] == base && tags[j] != base
	})

	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(base)),
		tags:    tags,
		matcher: language.NewMatcher(tags),
		keys:    map[language.Tag][]string{},
	}

	for _, tag := range tags {
		if err := c.set(tag, entries[tag], entries[base]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseFile(name string, data []byte) (language.Tag, map[string]catalogEntry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return language.Tag{}, nil, fmt.Errorf("phrases: parse %s: %w", name, err)
	}

	locale := strings.TrimSpace(file.Locale)
	if locale != path.Base(path.Dir(name)) {
		return language.Tag{}, nil, fmt.Errorf("phrases: %s: locale %q does not match its directory", name, locale)
	}
	if len(file.Messages) == 0 {
		return language.Tag{}, nil, fmt.Errorf("phrases: %s: no messages", name)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return language.Tag{}, nil, fmt.Errorf("phrases: %s: %w", name, err)
	}
	return tag, file.Messages, nil
}

// set registers the messages of one locale, falling back to base for keys
// the locale lacks.
func (c *Catalog) set(tag language.Tag, messages, base map[string]catalogEntry) error {
	own := make([]string, 0, len(messages))
	for key := range messages {
		own = append(own, key)
	}
	sort.Strings(own)
	c.keys[tag] = own

	merged := make(map[string]catalogEntry, len(base))
	for key, entry := range base {
		merged[key] = entry
	}
	for key, entry := range messages {
		merged[key] = entry
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var err error
		entry := merged[key]
		if entry.Plural != nil {
			err = c.builder.Set(tag, key, entry.Plural.message())
		} else {
			err = c.builder.SetString(tag, key, entry.Text)
		}
		if err != nil {
			return fmt.Errorf("phrases: %s: key %q: %w", tag, key, err)
		}
	}
	return nil
}

// Printer returns a printer for the closest supported locale. Unknown or
// malformed locales get the base locale.
func (c *Catalog) Printer(locale string) *message.Printer {
	return message.NewPrinter(c.resolve(locale), message.Catalog(c.builder))
}

func (c *Catalog) resolve(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return c.tags[0]
	}

	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return c.tags[0]
	}
	return c.tags[index]
}

// Locales returns the supported locales.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, tag := range c.tags {
		out[i] = tag.String()
	}
	sort.Strings(out)
	return out
}

// Keys returns the message keys defined for locale.
func (c *Catalog) Keys(locale string) []string {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil
	}
	out := append([]string(nil), c.keys[tag]...)
	sort.Strings(out)
	return out
}

func mustLoadEmbedded() *Catalog {
	c, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return c
}

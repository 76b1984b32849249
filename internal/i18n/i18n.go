// Package i18n loads the message catalog used for validation messages and
// page copy. English defaults are compiled in; additional locales are read
// from active.<lang>.toml files.
package i18n

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// ErrUnsupportedLanguage is returned by SetLanguage for unknown tags.
var ErrUnsupportedLanguage = errors.New("i18n: language not supported")

// Catalog resolves message ids against a go-i18n bundle. It satisfies
// validation.Translator.
type Catalog struct {
	bundle *i18n.Bundle

	mu        sync.RWMutex
	lang      string
	localizer *i18n.Localizer
	english   *i18n.Localizer
}

// Option configures a Catalog.
type Option func(*catalogConfig)

type catalogConfig struct {
	dir   string
	files map[string][]byte
}

// WithDir loads every active.*.toml file found in dir.
func WithDir(dir string) Option {
	return func(c *catalogConfig) {
		c.dir = dir
	}
}

// WithMessageFile registers an in-memory message file. The name must follow
// go-i18n's convention (for example "active.es.toml").
func WithMessageFile(name string, data []byte) Option {
	return func(c *catalogConfig) {
		if c.files == nil {
			c.files = make(map[string][]byte)
		}
		c.files[name] = data
	}
}

// New builds a Catalog for lang ("en" when empty).
func New(lang string, opts ...Option) (*Catalog, error) {
	cfg := catalogConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if _, err := bundle.ParseMessageFileBytes([]byte(defaultMessages), "default.en.toml"); err != nil {
		return nil, fmt.Errorf("i18n: parse default messages: %w", err)
	}

	if cfg.dir != "" {
		files, err := filepath.Glob(filepath.Join(cfg.dir, "active.*.toml"))
		if err != nil {
			return nil, fmt.Errorf("i18n: read locales: %w", err)
		}
		for _, file := range files {
			if _, err := bundle.LoadMessageFile(file); err != nil {
				return nil, fmt.Errorf("i18n: load locale file %s: %w", file, err)
			}
		}
	}
	for name, data := range cfg.files {
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
	}

	c := &Catalog{bundle: bundle, english: i18n.NewLocalizer(bundle, language.English.String())}
	if lang == "" {
		lang = language.English.String()
	}
	if err := c.SetLanguage(lang); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns an English catalog backed by the compiled-in messages.
func Default() *Catalog {
	c, err := New("en")
	if err != nil {
		panic(err)
	}
	return c
}

// SetLanguage switches the active localizer.
func (c *Catalog) SetLanguage(lang string) error {
	for _, tag := range c.bundle.LanguageTags() {
		if tag.String() == lang {
			c.mu.Lock()
			c.lang = lang
			c.localizer = i18n.NewLocalizer(c.bundle, lang, language.English.String())
			c.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
}

// Language reports the active language tag.
func (c *Catalog) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// Translate resolves id with template data. count selects the plural form;
// pass a negative count for messages without plural variants. Ids missing
// from the active locale resolve against the English defaults.
func (c *Catalog) Translate(id string, count int, data map[string]any) (string, error) {
	c.mu.RLock()
	localizer := c.localizer
	c.mu.RUnlock()

	cfg := &i18n.LocalizeConfig{MessageID: id, TemplateData: data}
	if count >= 0 {
		cfg.PluralCount = count
	}
	out, err := localizer.Localize(cfg)
	var missing *i18n.MessageNotFoundErr
	if errors.As(err, &missing) && localizer != c.english {
		return c.english.Localize(cfg)
	}
	return out, err
}

// Message is Translate without plural selection, falling back to the id.
func (c *Catalog) Message(id string, data map[string]any) string {
	out, err := c.Translate(id, -1, data)
	if err != nil {
		return id
	}
	return out
}

// Package config loads the formwizard TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full process configuration.
type Config struct {
	Server     Server     `toml:"server"`
	API        API        `toml:"api"`
	Storage    Storage    `toml:"storage"`
	Schema     Schema     `toml:"schema"`
	Wizard     Wizard     `toml:"wizard"`
	I18n       I18n       `toml:"i18n"`
	Log        Log        `toml:"log"`
	Appearance Appearance `toml:"appearance"`
}

type Server struct {
	Addr         string   `toml:"addr"`
	CookieName   string   `toml:"cookie_name"`
	SecureCookie bool     `toml:"secure_cookie"`
	ReadTimeout  Duration `toml:"read_timeout"`
}

// API points at the remote form service. An empty BaseURL means schemas are
// read from Schema.Source and registration is skipped.
type API struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// Storage selects the session store. An empty Path keeps sessions in memory;
// otherwise it is a SQLite database file (or ":memory:").
type Storage struct {
	Path string `toml:"path"`
}

// Schema names a local schema source ("path", "fs:name" or an http(s) URL).
type Schema struct {
	Source      string `toml:"source"`
	OpenAPI     bool   `toml:"openapi"`
	OperationID string `toml:"operation_id"`
}

type Wizard struct {
	ReturnDelay Duration `toml:"return_delay"`
	PhonePrefix string   `toml:"phone_prefix"`
	SubmitLog   string   `toml:"submit_log"`
}

type I18n struct {
	Locale string `toml:"locale"`
	Dir    string `toml:"dir"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Appearance struct {
	Default string `toml:"default"`
	Theme   string `toml:"theme"`
}

// Duration decodes "3s"-style TOML strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

const (
	defaultAddr        = ":8080"
	defaultCookieName  = "formwizard_client"
	defaultAPITimeout  = 15 * time.Second
	defaultReadTimeout = 10 * time.Second
	defaultReturnDelay = 3 * time.Second
	defaultPhonePrefix = "+91"
	defaultLocale      = "en"
	defaultLogLevel    = "info"
	defaultAppearance  = "light"
)

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("config: invalid configuration")

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        defaultAddr,
			CookieName:  defaultCookieName,
			ReadTimeout: Duration{defaultReadTimeout},
		},
		API:        API{Timeout: Duration{defaultAPITimeout}},
		Wizard:     Wizard{ReturnDelay: Duration{defaultReturnDelay}, PhonePrefix: defaultPhonePrefix},
		I18n:       I18n{Locale: defaultLocale},
		Log:        Log{Level: defaultLogLevel},
		Appearance: Appearance{Default: defaultAppearance},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML over base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HasSchemaSource reports whether either the remote service or a local
// schema is configured.
func (c Config) HasSchemaSource() bool {
	return strings.TrimSpace(c.API.BaseURL) != "" || strings.TrimSpace(c.Schema.Source) != ""
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var problems []string
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if c.Server.CookieName == "" {
		problems = append(problems, "server.cookie_name is required")
	}
	if c.API.Timeout.Duration < 0 {
		problems = append(problems, "api.timeout must not be negative")
	}
	if c.Wizard.ReturnDelay.Duration < 0 {
		problems = append(problems, "wizard.return_delay must not be negative")
	}
	switch strings.ToLower(c.Appearance.Default) {
	case "", "light", "dark":
	default:
		problems = append(problems, fmt.Sprintf("appearance.default %q must be light or dark", c.Appearance.Default))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/i18n"
	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// app holds the collaborators shared by serve and fill.
type app struct {
	cfg       config.Config
	catalog   *i18n.Catalog
	fields    *fields.Registry
	store     session.Store
	fetcher   wizard.Fetcher
	registrar session.Registrar
	sink      wizard.Sink
	closers   []io.Closer
}

var errNoSchemaSource = errors.New("no schema source: set api.base_url or schema.source")

func newApp(cfg config.Config) (*app, error) {
	if !cfg.HasSchemaSource() {
		return nil, errNoSchemaSource
	}
	a := &app{cfg: cfg}

	catalog, err := i18n.New(cfg.I18n.Locale, i18n.WithDir(cfg.I18n.Dir))
	if err != nil {
		return nil, err
	}
	a.catalog = catalog
	a.fields = fields.NewRegistry(fields.WithTranslator(catalog), fields.WithPhonePrefix(cfg.Wizard.PhonePrefix))

	if err := a.openStore(); err != nil {
		return nil, err
	}
	if err := a.openSchema(); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openSink(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore() error {
	path := strings.TrimSpace(a.cfg.Storage.Path)
	if path == "" {
		a.store = session.NewMemoryStore()
		return nil
	}
	store, err := session.OpenSQLite(path)
	if err != nil {
		return err
	}
	a.store = store
	a.closers = append(a.closers, store)
	return nil
}

// openSchema prefers the remote form service; a local source is used when
// no base URL is configured.
func (a *app) openSchema() error {
	if base := strings.TrimSpace(a.cfg.API.BaseURL); base != "" {
		c, err := client.New(base,
			client.WithTimeout(a.cfg.API.Timeout.Duration),
			client.WithLogger(slog.Default()),
		)
		if err != nil {
			return err
		}
		a.fetcher = c
		a.registrar = c
		return nil
	}

	src, err := schema.ParseSource(a.cfg.Schema.Source)
	if err != nil {
		return err
	}
	loader := formwizard.NewLoader(schema.WithHTTPFallback(a.cfg.API.Timeout.Duration))
	var opts []formwizard.FetcherOption
	if a.cfg.Schema.OpenAPI {
		opts = append(opts, formwizard.WithOpenAPIOperation(a.cfg.Schema.OperationID))
	}
	fetcher, err := formwizard.NewSourceFetcher(loader, src, opts...)
	if err != nil {
		return err
	}
	a.fetcher = fetcher
	return nil
}

func (a *app) openSink() error {
	sinks := wizard.MultiSink{wizard.LogSink{Logger: slog.Default()}}
	if path := strings.TrimSpace(a.cfg.Wizard.SubmitLog); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open submit log: %w", err)
		}
		a.closers = append(a.closers, f)
		sinks = append(sinks, wizard.NewWriterSink(f))
	}
	a.sink = sinks
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			slog.Warn("close", "error", err)
		}
	}
	a.closers = nil
}

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/appearance"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form wizard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := a.newServer()
			if err != nil {
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Duration)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func (a *app) newServer() (*server.Server, error) {
	themes, err := appearance.NewThemes()
	if err != nil {
		return nil, err
	}
	// an unknown theme name fails here instead of on the first request
	if _, err := themes.Select(a.cfg.Appearance.Theme, ""); err != nil {
		return nil, err
	}
	mode := appearance.ModeLight
	if m, err := appearance.ParseMode(a.cfg.Appearance.Default); err == nil {
		mode = m
	}

	opts := []server.Option{
		server.WithSink(a.sink),
		server.WithThemes(themes, a.cfg.Appearance.Theme),
		server.WithDefaultMode(mode),
		server.WithFields(a.fields),
		server.WithTranslator(a.catalog),
		server.WithLocale(a.catalog.Language()),
		server.WithCookie(a.cfg.Server.CookieName, a.cfg.Server.SecureCookie),
		server.WithReturnDelay(a.cfg.Wizard.ReturnDelay.Duration),
		server.WithLogger(slog.Default()),
	}
	if a.registrar != nil {
		opts = append(opts, server.WithRegistrar(a.registrar))
	}
	return server.New(a.store, a.fetcher, opts...)
}


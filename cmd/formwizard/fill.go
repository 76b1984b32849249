package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/view"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// cliNamespace scopes terminal sessions in the store.
const cliNamespace = "cli"

type fillFlags struct {
	rollNumber string
	name       string
	plain      bool
}

func fillCmd(flags *rootFlags) *cobra.Command {
	ff := &fillFlags{}

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			plain := ff.plain || termenv.NewOutput(cmd.OutOrStdout()).EnvColorProfile() == termenv.Ascii
			driver := tui.NewSurveyDriver(cmd.OutOrStdout())
			return a.fill(ctx, driver, ff.rollNumber, ff.name, plain)
		},
	}
	cmd.Flags().StringVar(&ff.rollNumber, "roll-number", "", "Identity to sign in with (prompted when empty)")
	cmd.Flags().StringVar(&ff.name, "name", "", "Display name (prompted when empty)")
	cmd.Flags().BoolVar(&ff.plain, "plain", false, "Disable colours")
	return cmd
}

// fill signs in, then drives a controller through the terminal renderer
// until the form is submitted or the user aborts.
func (a *app) fill(ctx context.Context, driver tui.PromptDriver, rollNumber, name string, plain bool) error {
	sess, err := a.login(ctx, driver, rollNumber, name)
	if err != nil {
		return err
	}

	c, err := wizard.New(sess,
		wizard.WithFetcher(a.fetcher),
		wizard.WithEngine(validation.New(validation.WithTranslator(a.catalog))),
		wizard.WithFields(a.fields),
		wizard.WithSink(a.sink),
		wizard.WithReturnDelay(a.cfg.Wizard.ReturnDelay.Duration),
		wizard.OnReturn(func() {
			if err := session.NewManager(a.store).Clear(context.WithoutCancel(ctx), cliNamespace); err != nil {
				slog.Warn("clear session", "error", err)
			}
		}),
		wizard.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	themes, err := appearance.NewThemes()
	if err != nil {
		return err
	}
	mode := appearance.ModeLight
	if m, err := appearance.ParseMode(a.cfg.Appearance.Default); err == nil {
		mode = m
	}
	themeCfg, err := themes.Config(a.cfg.Appearance.Theme, mode)
	if err != nil {
		return err
	}

	r := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithBuilder(view.NewBuilder(view.WithFields(a.fields), view.WithTranslator(a.catalog))),
		tui.WithTheme(themeCfg),
		tui.WithPlain(plain),
	)
	err = r.Run(ctx, c)
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}

// login reuses a stored terminal session unless flags name a different
// identity; missing inputs are prompted for.
func (a *app) login(ctx context.Context, driver tui.PromptDriver, rollNumber, name string) (session.Session, error) {
	manager := session.NewManager(a.store)
	rollNumber, name = strings.TrimSpace(rollNumber), strings.TrimSpace(name)

	if stored, err := manager.Load(ctx, cliNamespace); err == nil {
		if rollNumber == "" || rollNumber == stored.Identity {
			return stored, nil
		}
	} else if !errors.Is(err, session.ErrIdentityMissing) {
		return session.Session{}, err
	}

	var err error
	if rollNumber == "" {
		rollNumber, err = driver.Input(ctx, tui.InputConfig{
			Message:   a.catalog.Message("login.identity", nil),
			Validator: requireText,
		})
		if err != nil {
			return session.Session{}, err
		}
	}
	if name == "" {
		name, err = driver.Input(ctx, tui.InputConfig{
			Message:   a.catalog.Message("login.display_name", nil),
			Validator: requireText,
		})
		if err != nil {
			return session.Session{}, err
		}
	}
	return manager.Login(ctx, cliNamespace, rollNumber, name, a.registrar)
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return session.ErrIncompleteLogin
	}
	return nil
}

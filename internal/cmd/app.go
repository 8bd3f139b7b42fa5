package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-dashboard/api"
	"github.com/jrsteele09/go-dashboard/internal/config"
	"github.com/jrsteele09/go-dashboard/sessions"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/jrsteele09/go-dashboard/token/filestore"
	"github.com/jrsteele09/go-dashboard/token/redisstore"
	tokenrepofake "github.com/jrsteele09/go-dashboard/token/repofake"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is everything a command needs to talk to the API: config, the HTTP
// client and the session that signs its protected calls.
type app struct {
	config  config.Config
	client  *api.Client
	session *sessions.Manager
	closers []func() error
}

// newApp loads config, sets up logging and resumes any persisted session.
// interactive routes logs away from the terminal so they don't corrupt the
// terminal UI.
func newApp(ctx context.Context, interactive bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg}
	if err := a.setupLogging(interactive); err != nil {
		return nil, err
	}

	store, err := a.tokenStore()
	if err != nil {
		a.close()
		return nil, err
	}

	a.client = api.New(cfg.GetAPIURL())
	a.session = sessions.New(a.client, store,
		sessions.WithRefreshLeadTime(cfg.GetRefreshLeadTime()),
		sessions.WithStateListener(func(from, to sessions.State) {
			log.Debug().Stringer("from", from).Stringer("to", to).Msg("session state changed")
		}),
	)
	a.client.SetSession(a.session)
	a.closers = append(a.closers, func() error {
		a.session.Close()
		return nil
	})

	if err := a.session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}
	return a, nil
}

func (a *app) setupLogging(interactive bool) error {
	level, err := zerolog.ParseLevel(a.config.GetLogLevel())
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.config.GetLogLevel(), err)
	}
	zerolog.SetGlobalLevel(level)

	if !interactive {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
		return nil
	}

	path := a.config.GetLogFile()
	if path == "" {
		log.Logger = zerolog.New(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	a.closers = append(a.closers, f.Close)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

// tokenStore picks where the access token survives between runs.
func (a *app) tokenStore() (token.Repo, error) {
	switch kind := a.config.GetTokenStore(); kind {
	case config.TokenStoreFile:
		return filestore.New(a.config.GetTokenFile()), nil
	case config.TokenStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.config.GetRedisAddr(),
			Password: a.config.GetRedisPassword(),
		})
		a.closers = append(a.closers, client.Close)
		return redisstore.New(client, a.config.GetRedisKey()), nil
	case config.TokenStoreMemory:
		return tokenrepofake.NewFakeTokenRepo(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", kind)
	}
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("cleanup failed")
		}
	}
	a.closers = nil
}

// withApp builds the app for one command run and releases it afterwards.
func withApp(interactive bool, run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), interactive)
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd, args, a)
	}
}

// requireSession fails fast for commands that need a logged in user.
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in, run 'dashboard login' first")
	}
	return nil
}

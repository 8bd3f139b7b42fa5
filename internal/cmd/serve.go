package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-dashboard/internal/config"
	"github.com/jrsteele09/go-dashboard/server"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the in-memory development API server",
	Long: `Run the in-memory development API server.

It implements the REST API the client expects, seeded with a demo account
(demo@example.com / Password123) and sample projects, tasks and inventory.
Data lives in memory and is lost on exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		a := &app{config: c}
		if err := a.setupLogging(false); err != nil {
			return err
		}
		defer a.close()

		issuer := token.NewIssuer(
			token.NewHMACSigner(c.GetJWTSecret()),
			token.WithTokenExpiry(c.GetAccessTokenTTL()),
			token.WithIssuer(c.GetAppName()),
		)
		handler, err := server.New(c, server.NewInMemoryRepos(nil), issuer)
		if err != nil {
			return err
		}

		displayAppname(cmd, c.GetAppName())
		srv := &http.Server{Addr: c.GetPort(), Handler: handler}
		errCh := make(chan error, 1)
		go func() {
			errCh <- listenAndServe(srv)
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}
		return shutdown(srv)
	},
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func displayAppname(cmd *cobra.Command, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(cmd.OutOrStdout(), myFigure.String())
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

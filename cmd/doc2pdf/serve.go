// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/doc2pdf/internal/convert"
	"github.com/pdiddy/doc2pdf/internal/logging"
	"github.com/pdiddy/doc2pdf/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	Long: `Serve listens for POST /convert requests and converts each submitted
document to PDF. Every request is staged in its own workspace under the work
directory, so concurrent requests never share files. SIGINT or SIGTERM drains
in-flight requests before exiting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().String("backend", "", "conversion backend: soffice or gotenberg")
	serveCmd.Flags().String("soffice", "", "path to the soffice binary (default: autodetect)")
	serveCmd.Flags().String("gotenberg-url", "", "base URL of the Gotenberg service")
	serveCmd.Flags().Int("max-concurrent", 0, "maximum simultaneous conversions (default: number of CPUs)")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("conversion.backend", serveCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("conversion.soffice_path", serveCmd.Flags().Lookup("soffice"))
	_ = viper.BindPFlag("conversion.gotenberg_url", serveCmd.Flags().Lookup("gotenberg-url"))
	_ = viper.BindPFlag("conversion.max_concurrent", serveCmd.Flags().Lookup("max-concurrent"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Logging, os.Stdout)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer log.Sync() //nolint:errcheck

	conv, err := convert.New(cmd.Context(), cfg.Conversion)
	if err != nil {
		log.Error("Could not start the conversion backend", zap.Error(err))
		return err
	}
	log.Debug("Conversion backend ready",
		zap.String("backend", string(cfg.Conversion.Backend)),
		zap.Int("max_concurrent", cfg.Conversion.MaxConcurrent),
		zap.Duration("timeout", cfg.Conversion.Timeout),
	)

	handler := server.NewHandler(conv, log, cfg)
	srv := server.NewHTTPServer(server.NewRouter(handler, log), log, server.WithAddress(cfg.Server.Addr))
	if err := srv.Listen(); err != nil {
		log.Error("Could not bind the listen address", zap.String("address", cfg.Server.Addr), zap.Error(err))
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	return g.Wait()
}

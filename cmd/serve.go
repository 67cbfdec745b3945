package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/vibevault/internal/repositories"
	"github.com/desertthunder/vibevault/internal/server"
	"github.com/desertthunder/vibevault/internal/services"
	"github.com/desertthunder/vibevault/internal/shared"
	"github.com/urfave/cli/v3"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Serve runs the gateway until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("db") {
		cfg.Database.Path = cmd.String("db")
	}

	srv, closer, err := r.buildServer(&cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting gateway", "addr", srv.Addr(), "cache", cfg.Database.Path != "")
	return srv.ListenAndServe(ctx)
}

// buildServer wires the gateway server from cfg. The returned closer releases the track cache, if one was opened.
func (r *Runner) buildServer(cfg *shared.Config) (*server.Server, io.Closer, error) {
	if cfg.Credentials.Spotify.ClientID == "" || cfg.Credentials.Spotify.ClientSecret == "" {
		r.logger.Warn("spotify credentials not configured; upstream calls will fail",
			"hint", "set CLIENT_ID and CLIENT_SECRET or credentials.spotify in config.toml")
	}

	var (
		cache  services.TrackCacher
		closer io.Closer = nopCloser{}
	)
	db, err := shared.OpenCache(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open track cache: %w", err)
	}
	if db != nil {
		cache = repositories.NewTrackCacheAdapter(repositories.NewTrackRepository(db))
		closer = db
		r.logger.Info("track cache enabled", "path", cfg.Database.Path)
	}

	gateway := services.NewGatewayFromConfig(cfg, cache, shared.WithLogger(r.logger, "component", "gateway"))
	return server.New(cfg.Server, gateway, shared.WithLogger(r.logger, "component", "server")), closer, nil
}

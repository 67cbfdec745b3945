// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func serverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Gateway base URL (default: client.server_url)",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// serveCommand runs the catalog gateway HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the catalog gateway HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: server.port)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite track cache path (default: database.path, empty disables the cache)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive search and selection.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for search, playback and selection",
		Flags: []cli.Flag{
			serverFlag(),
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory selection exports are written to",
				Value: ".",
			},
		},
		Action: r.TUI,
	}
}

// searchCommand searches the catalog through the gateway
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog through the gateway",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags:  append([]cli.Flag{serverFlag()}, outputFlags()...),
		Action: r.Search,
	}
}

// playlistCommand expands a playlist through the gateway
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Expand a playlist URL or ID into its first tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: append([]cli.Flag{
			serverFlag(),
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Import into a selection and export it (csv, markdown, text, json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export file path (default: selection_{epoch}.{ext})",
			},
		}, outputFlags()...),
		Action: r.Playlist,
	}
}

// playCommand starts playback through the gateway
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Start playback of a track on the active device",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags:  []cli.Flag{serverFlag()},
		Action: r.Play,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the track cache database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// cacheCommand inspects and clears the server's track detail cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the track detail cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to list",
						Value: 50,
					},
				}, outputFlags()...),
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached track",
				Action: r.CacheClear,
			},
		},
	}
}

// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/ncmx/internal/formatter"
	"github.com/desertthunder/ncmx/internal/repositories"
	"github.com/urfave/cli/v3"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

func pagesFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "pages",
		Usage: "Number of pages to load",
		Value: 1,
	}
}

func idArg() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name: "id",
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database, configuration and session",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the configuration file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "cookie",
				Usage: "Import a browser session from a cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from the browser",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "File containing the cURL command",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Name to record the session under",
						Value: "browser",
					},
				},
				Action: r.SetupCookie,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the NetEase session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with a phone number or email",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name:      "username",
						UsageText: "Phone number or email",
					},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
						Sources: cli.EnvVars("NCMX_PASSWORD"),
					},
				}, outputFlags()...),
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the saved session",
				Flags:  outputFlags(),
				Action: r.AuthStatus,
			},
			{
				Name:  "history",
				Usage: "List recent logins",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of logins to list",
						Value: repositories.DefaultHistoryLimit,
					},
				}, outputFlags()...),
				Action: r.AuthHistory,
			},
			{
				Name:   "logout",
				Usage:  "Forget the saved session",
				Action: r.AuthLogout,
			},
		},
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse, subscribe to and export playlists",
		Commands: []*cli.Command{
			{
				Name:   "top",
				Usage:  "List top playlists",
				Flags:  append([]cli.Flag{pagesFlag()}, outputFlags()...),
				Action: r.PlaylistsTop,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist and its tracks",
				Arguments: idArg(),
				Flags:     outputFlags(),
				Action:    r.PlaylistsShow,
			},
			{
				Name:      "subscribe",
				Usage:     "Toggle the subscription to a playlist",
				Arguments: idArg(),
				Flags:     outputFlags(),
				Action:    r.PlaylistsSubscribe,
			},
			{
				Name:      "comments",
				Usage:     "List comments on a playlist",
				Arguments: idArg(),
				Flags:     append([]cli.Flag{pagesFlag()}, outputFlags()...),
				Action:    r.PlaylistsComments,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files",
				ArgsUsage: "<id> [id...]",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown or txt",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent writers",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Maximum detail requests per second",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "covers",
						Usage: "Download cover art for markdown exports",
					},
				}, outputFlags()...),
				Action: r.PlaylistsExport,
			},
			{
				Name:      "open",
				Usage:     "Open a playlist in the browser",
				Arguments: idArg(),
				Action:    r.PlaylistsOpen,
			},
		},
	}
}

func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "albums",
		Usage: "Browse new albums",
		Commands: []*cli.Command{
			{
				Name:   "new",
				Usage:  "List the newest albums",
				Flags:  append([]cli.Flag{pagesFlag()}, outputFlags()...),
				Action: r.AlbumsNew,
			},
			{
				Name:      "show",
				Usage:     "Show an album and its songs",
				Arguments: idArg(),
				Flags:     outputFlags(),
				Action:    r.AlbumsShow,
			},
			{
				Name:      "open",
				Usage:     "Open an album in the browser",
				Arguments: idArg(),
				Action:    r.AlbumsOpen,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search songs, playlists, artists or albums",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "tab",
				Aliases: []string{"t"},
				Usage:   "What to search: song, playlist, artist or album",
				Value:   "song",
			},
			pagesFlag(),
		}, outputFlags()...),
		Action: r.Search,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the state inspector over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
		},
		Action: r.Serve,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}

// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/texttube/internal/formatter"
	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/ui"
	"github.com/urfave/cli/v3"
)

// app builds the root command. The global --config flag is read before any subcommand runs.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "texttube",
		Usage:   "Publish and read text summaries of videos",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("TEXTTUBE_CONFIG"),
			},
		},
		Before:   r.loadConfig,
		After:    r.close,
		Commands: r.register(),
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file (defaults to --config)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "status",
				Usage:  "List migrations and when they were applied",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand runs the web application.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the TextTube web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides [server].host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides [server].port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the site in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// ownerCommand manages the studio owner account.
func ownerCommand(r *Runner) *cli.Command {
	credentials := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "Owner email address",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Password (read from stdin when omitted)",
				Sources: cli.EnvVars("TEXTTUBE_OWNER_PASSWORD"),
			},
		}
	}

	return &cli.Command{
		Name:  "owner",
		Usage: "Manage the studio owner account",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an owner who can sign in to the studio",
				Flags: append(credentials(), &cli.StringFlag{
					Name:  "name",
					Usage: "Display name",
				}),
				Action: r.OwnerCreate,
			},
			{
				Name:   "passwd",
				Usage:  "Change an owner's password",
				Flags:  credentials(),
				Action: r.OwnerPasswd,
			},
			{
				Name:   "list",
				Usage:  "List owner accounts",
				Action: r.OwnerList,
			},
			{
				Name:  "delete",
				Usage: "Delete an owner and end their sessions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Owner email address",
						Required: true,
					},
				},
				Action: r.OwnerDelete,
			},
		},
	}
}

// videosCommand handles catalogue maintenance from the terminal.
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"v"},
		Usage:   "List, export and import videos",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List published videos",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Match title or channel name",
					},
					&cli.StringFlag{
						Name:  "channel",
						Usage: "Only videos from this channel",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "created_at-desc, view_count-desc or created_at-asc",
						Value: string(models.SortNewest),
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of videos to list (0 for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.VideosList,
			},
			{
				Name:  "export",
				Usage: "Export videos as JSON, CSV or Markdown",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "json, csv or markdown",
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (a directory for markdown); stdout when omitted",
					},
					&cli.BoolFlag{
						Name:  "thumbnails",
						Usage: "Download thumbnails next to Markdown documents",
					},
					&cli.StringFlag{
						Name:  "channel",
						Usage: "Only videos from this channel",
					},
				},
				Action: r.VideosExport,
			},
			{
				Name:  "import",
				Usage: "Create videos from a JSON file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "enrich",
						Usage: "Fill empty title, channel and thumbnail from the video URL",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate without writing",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (max 10)",
						Value: 4,
					},
				},
				Action: r.VideosImport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the catalogue.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse and read videos in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "style",
				Usage: "Glamour style for the reader (dark, light, notty, ...)",
				Value: ui.DefaultStyle,
			},
		},
		Action: r.TUI,
	}
}

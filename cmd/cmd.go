// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/ytcat/internal/server"
	"github.com/desertthunder/ytcat/internal/services"
	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, json, csv or markdown",
		Value:   "text",
	}
}

// setupCommand writes a config file and prepares the job database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the job database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Google OAuth for playlist writes.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize playlist writes with a Google account",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Open the Google consent page and store the token",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: server.DefaultLoginTimeout,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the API key and stored token state",
				Action: r.AuthStatus,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search playable songs",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (1-50)",
				Value: services.DefaultSearchResults,
			},
			&cli.StringFlag{
				Name:  "page",
				Usage: "Page token from a previous search",
			},
			formatFlag(),
		},
		Action: r.Search,
	}
}

func relatedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "related",
		Usage: "List playable songs related to a song",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum songs to return",
				Value: services.DefaultRelatedResults,
			},
			formatFlag(),
		},
		Action: r.Related,
	}
}

func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Look up one song by id, or by title with --title",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "Return the first playable match for this title",
			},
			formatFlag(),
		},
		Action: r.Song,
	}
}

func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "songs",
		Usage:     "Hydrate several song ids, dropping unplayable ones",
		ArgsUsage: "<id>...",
		Flags:     []cli.Flag{formatFlag()},
		Action:    r.Songs,
	}
}

// playlistCommand groups playlist reads and writes.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "songs",
				Usage: "List playable songs in a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "page",
						Usage: "Page token from a previous call",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Follow page tokens to the end",
					},
					formatFlag(),
				},
				Action: r.PlaylistSongs,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist and add songs to it",
				ArgsUsage: "<title> [id...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Read song ids from a file, one per line",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:      "add",
				Usage:     "Append songs to an existing playlist",
				ArgsUsage: "<playlist-id> [id...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Read song ids from a file, one per line",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files concurrently",
				ArgsUsage: "<playlist-id>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "File format: json, csv, markdown or text",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: ytcat_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent playlists",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Playlists started per second",
						Value: 2,
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "channel",
		Usage: "Channel lookups",
		Commands: []*cli.Command{
			{
				Name:  "uploads",
				Usage: "Print a channel's uploads playlist id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "username",
						Usage: "Look the channel up by legacy username instead of id",
					},
				},
				Action: r.ChannelUploads,
			},
			{
				Name:  "title",
				Usage: "Print the title of a channel, playlist or video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "channels, playlists or videos",
						Value: string(services.ResourceChannels),
					},
					&cli.StringFlag{
						Name:  "username",
						Usage: "Channel legacy username (channels only)",
					},
				},
				Action: r.ChannelTitle,
			},
		},
	}
}

func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "List recorded playlist imports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only jobs with this status (pending, running, completed, failed)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum jobs to list",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Jobs,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse search results interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log", Value: defaultTUILog, Usage: "file that receives logs while the TUI owns the terminal"},
		},
		Action: r.TUI,
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the web app
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the movie web app",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override [server] host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override [server] port",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand prepares the database and config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent migration",
				Action: r.SetupRollback,
			},
			{
				Name:   "config",
				Usage:  "Write a config.toml from the bundled template",
				Action: r.SetupConfig,
			},
		},
	}
}

// usersCommand handles user operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all users",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.UsersList,
			},
			{
				Name:      "add",
				Usage:     "Add a user",
				ArgsUsage: "NAME",
				Action:    r.UsersAdd,
			},
		},
	}
}

// moviesCommand handles movie operations
func moviesCommand(r *Runner) *cli.Command {
	userFlag := func() cli.Flag {
		return &cli.Int64Flag{
			Name:     "user",
			Aliases:  []string{"u"},
			Usage:    "User ID",
			Required: true,
		}
	}
	idFlag := func() cli.Flag {
		return &cli.Int64Flag{
			Name:     "id",
			Usage:    "Movie ID",
			Required: true,
		}
	}

	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"mv"},
		Usage:   "Movie operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a user's movies",
				Flags: []cli.Flag{
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "add",
				Usage:     "Look up a title and add it to a user's list",
				Flags:     []cli.Flag{userFlag()},
				ArgsUsage: "TITLE",
				Action:    r.MoviesAdd,
			},
			{
				Name:      "lookup",
				Usage:     "Look up a title without storing it",
				ArgsUsage: "TITLE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesLookup,
			},
			{
				Name:  "update",
				Usage: "Edit a stored movie",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "New name",
					},
					&cli.StringFlag{
						Name:  "director",
						Usage: "New director",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "New release year",
					},
					&cli.FloatFlag{
						Name:  "rating",
						Usage: "New rating",
					},
				},
				Action: r.MoviesUpdate,
			},
			{
				Name:   "delete",
				Usage:  "Delete a stored movie",
				Flags:  []cli.Flag{idFlag()},
				Action: r.MoviesDelete,
			},
			{
				Name:  "import",
				Usage: "Look up and add every title in a file (one per line)",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Titles file, '-' for stdin",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent lookups",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Lookups per second",
						Value: 5,
					},
				},
				Action: r.MoviesImport,
			},
			{
				Name:  "export",
				Usage: "Export a user's movies",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "csv, markdown, txt or json",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.MoviesExport,
			},
		},
	}
}

// tuiCommand launches the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse users and movies in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the interface runs",
				Value: "./tmp/moviweb-tui.log",
			},
		},
		Action: r.TUI,
	}
}

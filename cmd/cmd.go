// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// usersCommand handles user operations against the REST API
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"u"},
		Usage:   "Manage users",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all users",
				Flags:  outputFlags(),
				Action: r.UsersList,
			},
			{
				Name:      "get",
				Usage:     "Show a single user",
				Arguments: idArg(),
				Flags:     outputFlags(),
				Action:    r.UsersGet,
			},
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				}, outputFlags()...),
				Action: r.UsersCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a user's username, email or password",
				Arguments: idArg(),
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "username"},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "password"},
				}, outputFlags()...),
				Action: r.UsersUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a user (their tasks are kept)",
				Arguments: idArg(),
				Action:    r.UsersDelete,
			},
		},
	}
}

// tasksCommand handles task operations against the REST API
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"t"},
		Usage:   "Manage tasks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all tasks",
				Flags:  outputFlags(),
				Action: r.TasksList,
			},
			{
				Name:      "get",
				Usage:     "Show a single task",
				Arguments: idArg(),
				Flags:     outputFlags(),
				Action:    r.TasksGet,
			},
			{
				Name:  "create",
				Usage: "Create a task",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.IntFlag{Name: "user", Usage: "Owner user ID", Required: true},
				}, outputFlags()...),
				Action: r.TasksCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a task's title, description or completion",
				Arguments: idArg(),
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "description"},
					&cli.BoolFlag{Name: "completed"},
				}, outputFlags()...),
				Action: r.TasksUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a task",
				Arguments: idArg(),
				Action:    r.TasksDelete,
			},
		},
	}
}

// serveCommand runs the development backend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the development REST backend on SQLite",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (defaults to server.port)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (defaults to database.path)",
			},
		},
		Action: r.Serve,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive console (default)",
		Action: r.TUI,
	}
}

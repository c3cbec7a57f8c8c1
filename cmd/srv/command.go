package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "thefund"
	app.Usage = "THE FUND Gallery backend"
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Used to start the api service, it serves all public and admin apis.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Category:    "Database",
			Description: `Used to create or update all database tables.`,
		},
	}

	s.app = app
}

package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Waitlist"
	s.app.Usage = "Gamified waitlist service"
	s.app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Used to start the http api serving signups, tasks, profiles and the admin console.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Used to create the tables, seed the task and reward catalog and re-apply the level thresholds to existing entries.`,
		},
		{
			Action: server.startExport,
			Name:   "export",
			Usage:  "Export waitlist entries as csv",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file, standard output if empty",
				},
			},
			Category:    "Admin",
			Description: `Used to dump every waitlist entry in csv format.`,
		},
		{
			Action: server.startBroadcast,
			Name:   "broadcast",
			Usage:  "Send an email to every waitlist entry",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Usage:    "Email kind, promotional or launch",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "message",
					Usage: "Message of the promotional email",
				},
			},
			Category:    "Admin",
			Description: `Used to send a promotional or launch announcement email to all subscribers.`,
		},
	}
}

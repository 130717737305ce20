package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwilltry42/addrmatch/pkg/api"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve the parse and match API over HTTP",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "Listen address `ADDR` (default: config server.listen_address)",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	cfg := *Cfg
	if c.IsSet("listen") {
		cfg.Server.ListenAddress = c.String("listen")
	}
	if cfg.Auth.Secret == "" {
		log.Warnln("No auth secret configured, the API is open to everyone who can reach it")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewServer(Registry, cfg).ListenAndServe(ctx)
}

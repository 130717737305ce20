package main

import (
	"fmt"

	"github.com/iwilltry42/addrmatch/pkg/api"
	"github.com/urfave/cli/v2"
)

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "print a bearer token for the API, signed with the configured auth secret",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "subject",
			Aliases:  []string{"s"},
			Usage:    "Token subject `NAME`",
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "Token lifetime `DURATION` (default: config auth.token_ttl)",
		},
	},
	Action: tokenCmd,
}

func tokenCmd(c *cli.Context) error {
	ttl := Cfg.Auth.TokenTTL
	if c.IsSet("ttl") {
		ttl = c.Duration("ttl")
	}

	token, err := api.GenerateToken(Cfg.Auth.Secret, Cfg.Auth.Issuer, c.String("subject"), ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

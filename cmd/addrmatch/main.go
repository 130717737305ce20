package main

import (
	"os"

	"github.com/iwilltry42/addrmatch/pkg/config"
	"github.com/iwilltry42/addrmatch/pkg/grammar"
	"github.com/iwilltry42/addrmatch/pkg/types"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version is set at build time
var Version = "dev"

// Cfg and Registry are populated before any command runs
var (
	Cfg      *types.Config
	Registry *grammar.Registry
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "addrmatch",
		Usage:   "parse street addresses with named-capture patterns",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file `PATH` (default: ./addrmatch.yaml, $HOME/.addrmatch, /etc/addrmatch)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level `LEVEL` (trace, debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "engine",
				Aliases: []string{"e"},
				Usage:   "Pattern engine `ENGINE` (re2 or backtrack)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Match timeout `DURATION` of the backtracking engine, 0 disables it",
			},
			&cli.StringFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "YAML rules file `PATH` replacing the built-in rules",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			parseCommand,
			matchCommand,
			rulesCommand,
			serveCommand,
			tokenCommand,
			benchCommand,
		},
	}
}

// setup loads the configuration, applies global flag overrides, configures
// logging and builds the rule registry
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("engine") {
		cfg.Engine = c.String("engine")
	}
	if c.IsSet("timeout") {
		cfg.MatchTimeout = c.Duration("timeout")
	}
	if c.IsSet("rules") {
		cfg.Grammar.RulesFile = c.String("rules")
	}

	if err := config.SetupLogging(cfg); err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	Cfg = cfg
	Registry = registry
	return nil
}

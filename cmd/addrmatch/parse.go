package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/iwilltry42/addrmatch/pkg/api"
	"github.com/iwilltry42/addrmatch/pkg/grammar"
	"github.com/urfave/cli/v2"
)

var parseCommand = &cli.Command{
	Name:      "parse",
	Usage:     "parse addresses with the loaded rules",
	UsageText: "addrmatch parse [command options] [address...]",
	Description: `Parses each address argument, or each line of stdin when no address is given.
The first rule (by priority) that matches wins. Exits non-zero if any address did not match.`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of parallel workers `NUMBER` (default: config workers)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print one JSON object per address",
		},
		&cli.StringFlag{
			Name:  "rule",
			Usage: "Only try the rule `NAME`",
		},
		&cli.StringFlag{
			Name:  "remote",
			Usage: "Parse on the addrmatch server at `URL` instead of locally",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer `TOKEN` for --remote",
			EnvVars: []string{"ADDRMATCH_TOKEN"},
		},
	},
	Action: parseCmd,
}

func parseCmd(c *cli.Context) error {
	addresses := c.Args().Slice()
	if len(addresses) == 0 {
		lines, err := readLines(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read addresses from stdin: %w", err)
		}
		addresses = lines
	}
	if len(addresses) == 0 {
		return errors.New("no addresses given")
	}

	var (
		results []api.ParseResponse
		err     error
	)
	if c.IsSet("remote") {
		results, err = parseRemote(c, addresses)
	} else {
		results, err = parseLocal(c, addresses)
	}
	if err != nil {
		return err
	}

	unmatched := 0
	for _, res := range results {
		if !res.Matched {
			unmatched++
		}
		if err := printParsed(c.App.Writer, res, c.Bool("json")); err != nil {
			return err
		}
	}
	if unmatched > 0 {
		return fmt.Errorf("%d of %d addresses did not match", unmatched, len(results))
	}
	return nil
}

func parseLocal(c *cli.Context, addresses []string) ([]api.ParseResponse, error) {
	results := make([]api.ParseResponse, len(addresses))

	if rule := c.String("rule"); rule != "" {
		for i, address := range addresses {
			results[i] = api.ParseResponse{Input: address}
			parsed, err := Registry.ParseWith(rule, address)
			if errors.Is(err, grammar.ErrNoMatch) {
				continue
			}
			if err != nil {
				return nil, err
			}
			results[i] = toResponse(parsed)
		}
		return results, nil
	}

	workers := Cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	parsed, err := Registry.ParseAll(c.Context, addresses, workers)
	if err != nil {
		return nil, err
	}
	for i, p := range parsed {
		if p == nil {
			results[i] = api.ParseResponse{Input: addresses[i]}
			continue
		}
		results[i] = toResponse(p)
	}
	return results, nil
}

func parseRemote(c *cli.Context, addresses []string) ([]api.ParseResponse, error) {
	if c.IsSet("rule") {
		return nil, errors.New("--rule cannot be combined with --remote")
	}
	client := api.NewClient(c.String("remote"), c.String("token"))
	resp, err := client.ParseBatch(c.Context, addresses)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func toResponse(p *grammar.Parsed) api.ParseResponse {
	return api.ParseResponse{Input: p.Input, Matched: true, Rule: p.Rule, Captures: p.Captures}
}

func printParsed(w io.Writer, res api.ParseResponse, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(res)
	}
	if !res.Matched {
		printNoMatch(w, res.Input)
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", res.Input, ruleStyle.Sprintf("-> %s", res.Rule))
	printCaptures(w, res.Captures)
	return nil
}

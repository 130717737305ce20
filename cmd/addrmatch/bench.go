package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwilltry42/addrmatch/pkg/grammar"
	"github.com/iwilltry42/addrmatch/pkg/pattern"
	"github.com/urfave/cli/v2"
)

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "parse the sample address corpus repeatedly with every engine",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "iterations",
			Aliases: []string{"n"},
			Usage:   "Passes over the corpus `NUMBER` per engine",
			Value:   1000,
		},
	},
	Action: benchCmd,
}

type benchResult struct {
	engine  pattern.Engine
	parses  int
	matched int
	elapsed time.Duration
}

func benchCmd(c *cli.Context) error {
	iterations := c.Int("iterations")
	if iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	for _, engine := range pattern.Engines {
		cfg := *Cfg
		cfg.Engine = string(engine)
		registry, err := buildRegistry(&cfg)
		if err != nil {
			return err
		}

		res, err := runBench(registry, engine, iterations)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%-10s %d parses (%d matched) in %s, %.0f parses/s\n",
			ruleStyle.Sprint(res.engine), res.parses, res.matched, res.elapsed.Round(time.Microsecond),
			float64(res.parses)/res.elapsed.Seconds())
	}
	return nil
}

func runBench(registry *grammar.Registry, engine pattern.Engine, iterations int) (benchResult, error) {
	res := benchResult{engine: engine}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		for _, address := range grammar.SampleAddresses {
			_, err := registry.Parse(address)
			res.parses++
			switch {
			case err == nil:
				res.matched++
			case !errors.Is(err, grammar.ErrNoMatch):
				return res, err
			}
		}
	}
	res.elapsed = time.Since(start)
	return res, nil
}

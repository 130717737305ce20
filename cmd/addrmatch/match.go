package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var matchCommand = &cli.Command{
	Name:      "match",
	Usage:     "match subjects against an ad-hoc pattern",
	UsageText: "addrmatch match --pattern PATTERN [subject...]",
	Description: `Matches each subject argument, or each line of stdin, against PATTERN and prints
the named groups that participated. Subjects are matched as given, without normalization.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "pattern",
			Aliases:  []string{"p"},
			Usage:    "Pattern `PATTERN` with named groups, e.g. '(?<house>\\d+)\\s+(?<street>.+)'",
			Required: true,
		},
	},
	Action: matchCmd,
}

func matchCmd(c *cli.Context) error {
	subjects := c.Args().Slice()
	if len(subjects) == 0 {
		lines, err := readLines(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read subjects from stdin: %w", err)
		}
		subjects = lines
	}
	if len(subjects) == 0 {
		return errors.New("no subjects given")
	}

	src := c.String("pattern")
	unmatched := 0
	for _, subject := range subjects {
		captures, err := Registry.MatchPattern(src, subject)
		if err != nil {
			return err
		}
		if captures == nil {
			unmatched++
			printNoMatch(c.App.Writer, subject)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s %s\n", subject, matchStyle.Sprint("-> match"))
		printCaptures(c.App.Writer, captures)
	}
	if unmatched > 0 {
		return fmt.Errorf("%d of %d subjects did not match", unmatched, len(subjects))
	}
	return nil
}

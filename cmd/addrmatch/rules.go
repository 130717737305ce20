package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var rulesCommand = &cli.Command{
	Name:   "rules",
	Usage:  "list the loaded rules in the order they are tried",
	Action: rulesCmd,
}

func rulesCmd(c *cli.Context) error {
	for _, rule := range Registry.Rules() {
		_, p, ok := Registry.Get(rule.Name)
		if !ok {
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s (priority %d, %s)\n", ruleStyle.Sprint(rule.Name), rule.Priority, p.Engine())
		if rule.Description != "" {
			fmt.Fprintf(c.App.Writer, "  %s\n", rule.Description)
		}
		fmt.Fprintf(c.App.Writer, "  %s %s\n", keyStyle.Sprint("groups:"), strings.Join(p.Names(), ", "))
		fmt.Fprintf(c.App.Writer, "  %s %s\n", keyStyle.Sprint("pattern:"), rule.Pattern)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webcrawl/traph/traph"
)

func newRuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage webentity-creation rules",
	}

	cmd.AddCommand(newRuleAddCommand())

	return cmd
}

func newRuleAddCommand() *cobra.Command {
	var prefix, pattern string
	var writeInTrie bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Install a webentity-creation rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagFolder == "" {
				return fmt.Errorf("rule add requires --folder (rules installed against a memory-backed store vanish immediately)")
			}

			t, err := traph.New(
				traph.WithFolder(flagFolder),
				traph.WithOverwrite(flagOverride),
				traph.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("opening traph: %w", err)
			}
			defer t.Close()

			report, err := t.AddWebEntityCreationRule([]byte(prefix), pattern, writeInTrie)
			if err != nil {
				return fmt.Errorf("adding rule: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "LRU prefix the rule is attached to")
	cmd.Flags().StringVar(&pattern, "pattern", "", "regular expression selecting the webentity-candidate prefix")
	cmd.Flags().BoolVar(&writeInTrie, "write-in-trie", true, "insert the prefix into the trie if absent and replay creation against existing pages")
	cmd.MarkFlagRequired("prefix")
	cmd.MarkFlagRequired("pattern")

	return cmd
}

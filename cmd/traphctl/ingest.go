package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/webcrawl/traph/internal/config"
	"github.com/webcrawl/traph/traph"
)

type ingestLine struct {
	Page   string `json:"page"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func newIngestCommand() *cobra.Command {
	var rulesPath, inputPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest pages and links from an NDJSON file",
		Long: `Each line of the input file is a JSON object, either
{"page": "<lru>"} to index a single page, or
{"source": "<lru>", "target": "<lru>"} to index a hyperlink (implicitly
indexing both endpoints as pages).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(rulesPath, inputPath)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to a YAML file of webentity-creation rules")
	cmd.Flags().StringVar(&inputPath, "input", "", "path to an NDJSON file of pages and links")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runIngest(rulesPath, inputPath string) error {
	cfg, err := config.Load(rulesPath)
	if err != nil {
		return err
	}

	opts := []traph.Option{traph.WithLogger(logger)}
	if flagFolder != "" {
		opts = append(opts, traph.WithFolder(flagFolder), traph.WithOverwrite(flagOverride))
	}
	if cfg.DefaultRule != "" {
		opts = append(opts, traph.WithDefaultCreationRule(cfg.DefaultRule))
	}
	if len(cfg.Rules) > 0 {
		opts = append(opts, traph.WithCreationRules(cfg.Rules))
	}

	t, err := traph.New(opts...)
	if err != nil {
		return fmt.Errorf("opening traph: %w", err)
	}
	defer t.Close()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	report := traph.WriteReport{}

	var pairs []traph.LinkPair
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry ingestLine
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("parsing input line: %w", err)
		}

		switch {
		case entry.Page != "":
			r, err := t.AddPage([]byte(entry.Page))
			if err != nil {
				return fmt.Errorf("adding page %q: %w", entry.Page, err)
			}
			report.Merge(r)
		case entry.Source != "" && entry.Target != "":
			pairs = append(pairs, traph.LinkPair{Source: []byte(entry.Source), Target: []byte(entry.Target)})
		default:
			return fmt.Errorf("input line is neither a page nor a link: %s", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	if len(pairs) > 0 {
		r, err := t.AddLinks(pairs)
		if err != nil {
			return fmt.Errorf("adding links: %w", err)
		}
		report.Merge(r)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

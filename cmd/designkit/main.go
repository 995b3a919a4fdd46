// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/designkit"
	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/search"
)

func main() {
	app := &cli.App{
		Name:  "designkit",
		Usage: "Design guideline search and design system generation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the built-in knowledge base directory",
				Value:   "data",
			},
			&cli.StringFlag{
				Name:  "config-path",
				Usage: "External configuration directory (default: ./.designkit)",
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Snapshot cache directory (disabled when empty)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search design guidelines",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "domain",
						Usage: "Search a specific domain instead of auto-detecting",
					},
					&cli.StringFlag{
						Name:  "stack",
						Usage: "Search a platform stack table (react, swiftui, ...)",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of results",
						Value: core.DefaultLimit,
					},
					&cli.BoolFlag{
						Name:  "apply-brand",
						Usage: "Apply the configured brand profile to results",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit results as JSON",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Report on the external configuration directory",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the report as JSON",
					},
				},
			},
			{
				Name:      "design-system",
				Usage:     "Generate a full design system for a project description",
				ArgsUsage: "<description>",
				Action:    designSystemCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "project",
						Usage: "Project name used in the output",
						Value: "project",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the design system as JSON",
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Validate the external configuration, failing on any error",
				Action: validateCommand,
			},
			{
				Name:   "warm",
				Usage:  "Pre-build every domain and stack index",
				Action: warmCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context, applyBrand bool) (*designkit.Engine, error) {
	opts := []designkit.EngineOption{
		designkit.WithConfigPath(c.String("config-path")),
	}
	if cache := c.String("cache"); cache != "" {
		opts = append(opts, designkit.WithSnapshotCache(cache))
	}
	if applyBrand {
		opts = append(opts, designkit.WithBrandProcessing())
	}
	return designkit.NewEngine(c.String("data"), opts...)
}

func searchCommand(c *cli.Context) error {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("query text is required")
	}

	engine, err := openEngine(c, c.Bool("apply-brand"))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	resp, err := engine.Search(context.Background(), core.Query{
		Text:   queryText,
		Domain: c.String("domain"),
		Stack:  c.String("stack"),
		Limit:  c.Int("max-results"),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return printJSON(resp)
	}
	printResponse(resp)
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := openEngine(c, false)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	status, err := engine.Status(context.Background())
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(status)
	}

	fmt.Printf("Configuration: %s\n", status.Path)
	if !status.Enabled {
		fmt.Println("  not present, built-in knowledge base only")
		return nil
	}
	if status.Version != "" {
		fmt.Printf("  version: %s\n", status.Version)
	}
	for _, name := range sortedKeys(status.Domains) {
		fmt.Printf("  domain %-16s %d entries\n", name, status.Domains[name])
	}
	for _, name := range sortedKeys(status.Stacks) {
		fmt.Printf("  stack  %-16s %d entries\n", name, status.Stacks[name])
	}
	fmt.Printf("  brand configured: %v\n", status.BrandConfigured)
	fmt.Printf("  reasoning rules:  %d\n", status.ReasoningRules)
	fmt.Printf("  entries: %d of %d\n", status.Performance.CurrentEntries, status.Performance.MaxEntries)
	for _, w := range status.Performance.Warnings {
		fmt.Printf("  warning: %s\n", w.Message)
	}
	for _, e := range status.Errors {
		fmt.Printf("  error: %s\n", e.Error())
	}
	return nil
}

func designSystemCommand(c *cli.Context) error {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("project description is required")
	}

	engine, err := openEngine(c, false)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	adv, err := engine.NewAdvisor()
	if err != nil {
		return err
	}
	ds, err := adv.Generate(context.Background(), c.String("project"), queryText)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(ds)
	}

	fmt.Printf("Design system for %s\n\n", ds.Project)
	printSection("Product", ds.Product)
	printSection("Styles", ds.Styles)
	printSection("Colors", ds.Colors)
	printSection("Landing", ds.Landing)
	printSection("Typography", ds.Typography)
	if len(ds.Palette) > 0 {
		fmt.Println("Palette:")
		for _, role := range sortedPalette(ds.Palette) {
			fmt.Printf("  %-18s %s\n", role, ds.Palette[role])
		}
		fmt.Println()
	}
	for _, rule := range ds.Reasoning {
		fmt.Printf("Reasoning [%s]: %s\n", rule.Category, rule.Guidance)
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	engine, err := openEngine(c, false)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	status, err := engine.Status(context.Background())
	if err != nil {
		return err
	}
	if !status.Enabled {
		fmt.Printf("%s: not present, nothing to validate\n", status.Path)
		return nil
	}
	for _, e := range status.Errors {
		fmt.Println(e.Error())
	}
	if len(status.Errors) > 0 {
		return fmt.Errorf("%d validation errors in %s", len(status.Errors), status.Path)
	}
	fmt.Printf("%s: %d entries, no errors\n", status.Path, status.Performance.CurrentEntries)
	return nil
}

func warmCommand(c *cli.Context) error {
	engine, err := openEngine(c, false)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()
	return engine.Warm(context.Background())
}

func printResponse(resp *search.Response) {
	fmt.Printf("Domain: %s\n\n", resp.Domain)
	for i, r := range resp.Results {
		marker := ""
		if r.ExactMatch {
			marker = " (exact)"
		}
		fmt.Printf("%d. %s  score=%.3f%s\n", i+1, r.Record.ID, r.Score, marker)
		for _, field := range sortedStringKeys(r.Record.OutputFields) {
			fmt.Printf("   %s: %s\n", field, r.Record.OutputFields[field])
		}
		for _, note := range r.Notes {
			fmt.Printf("   note: %s\n", note)
		}
		for _, w := range r.Warnings {
			fmt.Printf("   warning (%s): %s\n", w.Kind, w.Message)
		}
		fmt.Println()
	}
	for _, conflict := range resp.Conflicts {
		fmt.Printf("conflict: %s/%s field %q resolved as %s\n",
			conflict.Domain, conflict.RecordID, conflict.Field, conflict.Resolution)
	}
}

func printSection(title string, results []core.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, r := range results {
		fmt.Printf("  - %s\n", r.Record.ID)
	}
	fmt.Println()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPalette(m map[string]string) []string {
	return sortedStringKeys(m)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// cmd/doccheck/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/julianshen/doccheck/internal/discovery"
	"github.com/julianshen/doccheck/internal/docs"
	"github.com/julianshen/doccheck/internal/integrations"
	"github.com/julianshen/doccheck/internal/linkcheck"
	"github.com/julianshen/doccheck/internal/metrics"
	"github.com/julianshen/doccheck/internal/output"
	"github.com/julianshen/doccheck/internal/resources"
	"github.com/julianshen/doccheck/internal/validate"
	"github.com/julianshen/doccheck/internal/validate/rules"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	rootFlag       string
	configFlag     string
	glossaryFlag   string
	exemptionsFlag string

	incrementalFlag bool
	baseFlag        string
	checkLinksFlag  bool
	outputFlag      string
	topFlag         int
	noHistoryFlag   bool
	historyDBFlag   string
	timeoutFlag     time.Duration
)

func versionString() string {
	return fmt.Sprintf("doccheck %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "doccheck",
		Short: "Validate documentation quality",
		Long:  "doccheck — validates markdown documentation: broken links, missing required sections, deprecated terminology, and vague language.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidation(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "documentation root directory (overrides config docs_root)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", ".doccheck/config.yaml", "path to rule configuration")
	rootCmd.PersistentFlags().StringVar(&glossaryFlag, "glossary", ".doccheck/glossary.yaml", "path to terminology glossary")
	rootCmd.PersistentFlags().StringVar(&exemptionsFlag, "exemptions", ".doccheck/exemptions.yaml", "path to link exemption list")
	rootCmd.PersistentFlags().BoolVar(&incrementalFlag, "incremental", false, "validate only files changed in git")
	rootCmd.PersistentFlags().StringVar(&baseFlag, "base", "", "git base for incremental mode (default HEAD)")
	rootCmd.PersistentFlags().BoolVar(&checkLinksFlag, "check-links", false, "probe external links over the network")
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "", "write the JSON report artifact to this path")
	rootCmd.PersistentFlags().IntVar(&topFlag, "top", 10, "number of issues to list in the terminal summary")
	rootCmd.PersistentFlags().BoolVar(&noHistoryFlag, "no-history", false, "skip the report history (no trend, nothing archived)")
	rootCmd.PersistentFlags().StringVar(&historyDBFlag, "history-db", ".doccheck/history.db", "path to the report history database")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 2*time.Minute, "overall timeout for the validation run")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runValidation is the full pipeline: discover documents, run every rule,
// optionally probe external links, score the run, attach the trend, and
// render. A completed run exits zero no matter how many issues it found;
// a non-nil return is reserved for setup failures.
func runValidation(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeoutFlag)
	defer cancel()

	// First load resolves the docs root and exclusion globs for discovery;
	// BuildContext reloads the same file and reports any warnings once.
	cfg, _, err := resources.LoadConfig(configFlag)
	if err != nil {
		return err
	}

	root := rootFlag
	if root == "" {
		root = cfg.DocsRoot
	}

	files, err := discovery.Discover(root, cfg.ExcludedPaths)
	if err != nil {
		return fmt.Errorf("discovering documentation under %s: %w", root, err)
	}

	mode := "full"
	var changed []string
	if incrementalFlag || cfg.Incremental {
		mode = "incremental"
		changed, err = integrations.NewGitRunner(root).ChangedFiles(ctx, baseFlag)
		if err != nil {
			return err
		}
		files = intersect(files, changed)
	}

	documents, err := loadDocuments(root, files)
	if err != nil {
		return err
	}

	rctx, warnings, err := validate.BuildContext(root, changed, documents, validate.ResourcePaths{
		Config:     configFlag,
		Glossary:   glossaryFlag,
		Exemptions: exemptionsFlag,
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	engine := validate.NewEngine(rules.Default()...)
	run := engine.Run(rctx)

	if checkLinksFlag {
		checker := linkcheck.New(30*time.Second, rctx.Config.ExternalLinks.RateLimits)
		run.Results = append(run.Results, checker.Check(ctx, rctx.Links)...)
	}

	report := metrics.Compute(run, mode)

	if !noHistoryFlag {
		if err := archiveReport(report); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	artifact := &output.Artifact{
		Report:         report,
		Results:        run.Results,
		ValidatedFiles: files,
		ExemptedFiles:  exemptedFiles(documents),
		Stats:          run.Stats,
	}
	if checkLinksFlag {
		artifact.ExternalLinks = rctx.Links.Snapshot()
	}

	output.NewTerminalReporter(os.Stdout, topFlag).Render(artifact)

	if outputFlag != "" {
		if err := output.WriteJSON(outputFlag, artifact); err != nil {
			return err
		}
	}

	return nil
}

// loadDocuments reads and classifies every discovered file.
func loadDocuments(root string, files []string) ([]*docs.Document, error) {
	documents := make([]*docs.Document, 0, len(files))
	for _, rel := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		raw, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		documents = append(documents, docs.New(abs, rel, raw, info.ModTime()))
	}
	return documents, nil
}

// archiveReport attaches the trend against the previous run and saves the
// current report. History failures degrade to a warning; the run still
// completes.
func archiveReport(report *metrics.Report) error {
	if dir := filepath.Dir(historyDBFlag); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("history unavailable: %w", err)
		}
	}
	hist, err := metrics.OpenHistory(historyDBFlag)
	if err != nil {
		return fmt.Errorf("history unavailable: %w", err)
	}
	defer hist.Close()

	prev, err := hist.Latest()
	if err != nil {
		return fmt.Errorf("history unavailable: %w", err)
	}
	report.CompareTo(prev)

	if err := hist.Save(report); err != nil {
		return fmt.Errorf("archiving report: %w", err)
	}
	return nil
}

// intersect filters discovered files down to those git reported as changed.
func intersect(files, changed []string) []string {
	set := make(map[string]bool, len(changed))
	for _, c := range changed {
		set[c] = true
	}
	var out []string
	for _, f := range files {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

// exemptedFiles collects every document skipped by completeness rules,
// paired with its exemption reason.
func exemptedFiles(documents []*docs.Document) []output.ExemptedFile {
	var out []output.ExemptedFile
	for _, doc := range documents {
		if reason := doc.ExemptionReason(); reason != "" {
			out = append(out, output.ExemptedFile{Path: doc.Path, Reason: reason})
		}
	}
	return out
}

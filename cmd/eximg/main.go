// Package main provides the CLI entry point for eximg-go.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/eximg-go/pkg/eximg"
	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

var (
	outputDir  string
	scratchDir string
	lang       string
	noMerge    bool
	jsonOutput bool
	pretty     bool
	verbose    bool
	quiet      bool
	configPath string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eximg [input.xlsx]",
		Short: "Extract embedded images from Excel files",
		Long: `eximg-go extracts the pictures embedded in an Excel workbook into one
directory per sheet cell, renames byte-identical duplicates, and merges the
pictures sharing a cell into a single horizontally laid out PNG.`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Base directory for extraction and merge results")
	rootCmd.Flags().StringVar(&scratchDir, "scratch", "", "Parent directory for the per-run unpack directory (default: temp dir)")
	rootCmd.Flags().StringVar(&lang, "lang", "zh", "Output naming language: zh or en")
	rootCmd.Flags().BoolVar(&noMerge, "no-merge", false, "Skip merging images that share a cell")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress lines")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML file with extraction options")

	rootCmd.AddCommand(newListCommand())
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	opts.Logger = newLogger()
	if !quiet && !verbose {
		opts.Progress = printProgress(cmd.ErrOrStderr())
	}

	summary, err := eximg.Extract(inputPath, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if jsonOutput {
		data, err := toJSON(summary, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

// loadOptions reads the optional config file, then applies the flags that were set
// explicitly on the command line.
func loadOptions(cmd *cobra.Command) (eximg.Options, error) {
	opts := eximg.DefaultOptions()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return opts, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	flags := cmd.Flags()
	if configPath == "" || flags.Changed("output") {
		opts.OutputDir = outputDir
	}
	if configPath == "" || flags.Changed("scratch") {
		opts.ScratchDir = scratchDir
	}
	if configPath == "" || flags.Changed("lang") {
		opts.Language = lang
	}
	if flags.Changed("no-merge") {
		merge := !noMerge
		opts.Merge = &merge
	}

	return opts, nil
}

func printProgress(w io.Writer) func(string) {
	return func(msg string) {
		fmt.Fprintf(w, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
	}
}

func printSummary(w io.Writer, s *models.Summary) {
	fmt.Fprintf(w, "Workbook:          %s\n", s.BookName)
	fmt.Fprintf(w, "Images extracted:  %d\n", s.ExtractedCount)
	fmt.Fprintf(w, "Group cells:       %d\n", s.GroupCount)
	if s.MergeSkipped {
		fmt.Fprintln(w, "Merged images:     skipped")
	} else {
		fmt.Fprintf(w, "Merged images:     %d\n", s.MergedCount)
	}
	fmt.Fprintf(w, "Unique images:     %d\n", s.UniqueImageCount)
	fmt.Fprintf(w, "Duplicate images:  %d\n", s.DuplicateCount)
	if s.ExtractDir != "" {
		fmt.Fprintf(w, "Extraction dir:    %s\n", s.ExtractDir)
	}
	if s.MergeDir != "" {
		fmt.Fprintf(w, "Merge dir:         %s\n", s.MergeDir)
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:          %d\n", len(s.Warnings))
	}
}

func toJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

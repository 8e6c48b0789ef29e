package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/file-finder/backend/internal/search"
)

type searchOptions struct {
	location string
	stats    bool
	verbose  bool
}

// NewSearchCommand runs the search core against a local directory.
func NewSearchCommand() *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [GUESS]",
		Short: "Print canonical paths under a directory that contain GUESS",
		Long: `Walks --location (following symlinks) and prints every canonical path
containing GUESS as a literal, case-sensitive substring. An empty or missing
GUESS matches everything. Without --location nothing is searched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guess := ""
			if len(args) == 1 {
				guess = args[0]
			}
			var root *string
			if cmd.Flags().Changed("location") {
				root = &opts.location
			}
			return runSearch(cmd.OutOrStdout(), cmd.ErrOrStderr(), root, guess, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.location, "location", "l", "", "directory to search")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print walk statistics to stderr")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log entries that were skipped")

	return cmd
}

func runSearch(stdout, stderr io.Writer, root *string, guess string, opts *searchOptions) error {
	var logger *log.Logger
	if opts.verbose {
		logger = log.New(stderr, "", 0)
	}

	start := time.Now()
	rep := search.NewSearcher(logger).Run(search.Request{Root: root, Query: guess})
	elapsed := time.Since(start)

	highlight := useColor(stdout)
	for _, p := range rep.Paths {
		if highlight && guess != "" {
			p = strings.ReplaceAll(p, guess, color.New(color.FgYellow, color.Bold).Sprint(guess))
		}
		fmt.Fprintln(stdout, p)
	}

	if opts.stats {
		fmt.Fprintf(stderr, "%s matches, %s entries visited, %s skipped, %s cycles in %s\n",
			humanize.Comma(int64(len(rep.Paths))),
			humanize.Comma(int64(rep.Visited)),
			humanize.Comma(int64(rep.Skipped)),
			humanize.Comma(int64(rep.Cycles)),
			elapsed.Round(time.Millisecond))
	}
	return nil
}

// useColor reports whether w is a terminal that should get highlighted output.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

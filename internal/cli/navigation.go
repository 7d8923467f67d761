package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/markup"
)

// dayCommand shows the section offset days from --date.
type dayCommand struct {
	use    string
	short  string
	flag   string
	offset int
}

var dayCommands = []dayCommand{
	{use: "today", short: "Show today's journal entries.", flag: "Override the date in YYYY-MM-DD (default: today)"},
	{use: "prev", short: "Show the previous day's entries.", flag: "Reference date in YYYY-MM-DD (default: today)", offset: -1},
	{use: "next", short: "Show the next day's entries.", flag: "Reference date in YYYY-MM-DD (default: today)", offset: 1},
}

func newDayCommand(ctx context.Context, env *environment, day dayCommand) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   day.use,
		Short: day.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}
			return displaySection(ctx, cmd, journal.NewReader(env.manager), date.AddDate(0, 0, day.offset))
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", day.flag)

	return cmd
}

func newJumpCommand(ctx context.Context, env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jump <date>",
		Short: "Show entries for a given date.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("parse date: %w", err)
			}
			return displaySection(ctx, cmd, journal.NewReader(env.manager), target)
		},
	}

	return cmd
}

func newListCommand(ctx context.Context, env *environment) *cobra.Command {
	var (
		dateFlag string
		daysFlag int
		weekFlag bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries across a range of days.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			days := daysFlag
			if weekFlag {
				days = 7
			}
			if days <= 0 {
				days = 1
			}

			start := date.AddDate(0, 0, -(days - 1))
			sections, err := journal.NewReader(env.manager).SectionsBetween(ctx, start, date)
			if err != nil {
				return err
			}

			if len(sections) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries between %s and %s\n",
					start.Format("2006-01-02"), date.Format("2006-01-02"))
				return nil
			}

			return printSections(cmd, sections)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "End date in YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&daysFlag, "days", 0, "Number of days to include ending on target date")
	cmd.Flags().BoolVar(&weekFlag, "week", false, "Shortcut for --days=7")

	return cmd
}

func newSearchCommand(ctx context.Context, env *environment) *cobra.Command {
	var (
		dateFlag      string
		caseSensitive bool
		outputJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search entries by text or tag within the month.",
		Long:  "search matches the rendered entry text, so formatting markers and annotations are ignored. Prefix the term with # to match tags only.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(args[0])
			if term == "" {
				return fmt.Errorf("term is required")
			}
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			startOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
			endOfMonth := startOfMonth.AddDate(0, 1, -1)

			sections, err := journal.NewReader(env.manager).SectionsBetween(ctx, startOfMonth, endOfMonth)
			if err != nil {
				return err
			}

			results := filterSectionsByTerm(sections, term, caseSensitive)
			if outputJSON {
				return printSearchResultsJSON(cmd, results)
			}
			return printSearchResultsText(cmd, term, startOfMonth, results)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Reference date in YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match term with case sensitivity")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit results as JSON objects")

	return cmd
}

func displaySection(ctx context.Context, cmd *cobra.Command, reader *journal.Reader, date time.Time) error {
	section, err := reader.Section(ctx, date)
	if err != nil {
		if errors.Is(err, journal.ErrSectionNotFound) {
			printMissingSection(cmd, date)
			return nil
		}
		return err
	}
	return printSection(cmd, section)
}

type searchResult struct {
	section journal.DateSection
	entry   journal.Entry
	index   int
}

func filterSectionsByTerm(sections []journal.DateSection, term string, caseSensitive bool) []searchResult {
	var results []searchResult
	tagOnly := strings.HasPrefix(term, "#")
	needle := strings.TrimPrefix(term, "#")
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}

	for _, section := range sections {
		for idx, entry := range section.Entries {
			if matchesEntry(entry, needle, tagOnly, caseSensitive) {
				results = append(results, searchResult{
					section: section,
					entry:   entry,
					index:   idx,
				})
			}
		}
	}

	return results
}

func matchesEntry(entry journal.Entry, needle string, tagOnly bool, caseSensitive bool) bool {
	for _, tag := range entry.Tags {
		if !caseSensitive {
			tag = strings.ToLower(tag)
		}
		if tag == needle || (!tagOnly && strings.Contains(tag, needle)) {
			return true
		}
	}
	if tagOnly {
		return false
	}

	text := markup.PlainText(entry.Content)
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	return strings.Contains(text, needle)
}

func printSearchResultsText(cmd *cobra.Command, term string, start time.Time, results []searchResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Results for %q in %s\n", term, start.Format("2006-01"))
	if len(results) == 0 {
		fmt.Fprintln(out, "(no matches)")
		return nil
	}

	for _, res := range results {
		fmt.Fprintf(out, "%s #%d %s\n",
			res.section.Date.Format("2006-01-02"),
			res.index+1,
			formatEntry(res.entry),
		)
	}
	return nil
}

func printSearchResultsJSON(cmd *cobra.Command, results []searchResult) error {
	type dto struct {
		Date  string        `json:"date"`
		Index int           `json:"index"`
		Text  string        `json:"text"`
		Entry journal.Entry `json:"entry"`
	}

	list := make([]dto, 0, len(results))
	for _, res := range results {
		list = append(list, dto{
			Date:  res.section.Date.Format("2006-01-02"),
			Index: res.index + 1,
			Text:  markup.PlainText(res.entry.Content),
			Entry: res.entry,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

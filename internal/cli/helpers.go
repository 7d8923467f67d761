package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/markup"
)

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().In(time.Local)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateFlag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return parsed, nil
}

func resolveTime(date time.Time, timeFlag string) (time.Time, error) {
	if timeFlag == "" {
		now := time.Now().In(date.Location())
		return time.Date(date.Year(), date.Month(), date.Day(), now.Hour(), now.Minute(), 0, 0, date.Location()), nil
	}

	parsed, err := time.ParseInLocation("15:04", timeFlag, date.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

func resolveIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index <= 0 {
		return 0, fmt.Errorf("index must be a positive integer")
	}
	return index, nil
}

func parseTextAndTags(args []string) (string, []string) {
	var (
		textParts []string
		tags      []string
	)

	for _, arg := range args {
		if strings.HasPrefix(arg, "#") && len(arg) > 1 {
			tags = append(tags, strings.TrimPrefix(arg, "#"))
			continue
		}
		textParts = append(textParts, arg)
	}

	return strings.TrimSpace(strings.Join(textParts, " ")), tags
}

func readInput(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// caretAtEnd places a caret after the last rune of buffer.
func caretAtEnd(buffer string) markup.Selection {
	return markup.Caret(utf8.RuneCountInString(buffer))
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = "#" + tag
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// formatEntry renders the one-line summary used in listings: time, first
// visible line, and tags.
func formatEntry(entry journal.Entry) string {
	builder := strings.Builder{}
	builder.WriteString("[")
	builder.WriteString(entry.Time.Format("15:04"))
	builder.WriteString("]")

	if summary := markup.Summary(entry.Content); summary != "" {
		builder.WriteString(" ")
		builder.WriteString(summary)
	}

	if tags := formatTags(entry.Tags); tags != "" {
		builder.WriteString(" ")
		builder.WriteString(tags)
	}

	return builder.String()
}

func printMissingSection(cmd *cobra.Command, date time.Time) {
	fmt.Fprintf(cmd.OutOrStdout(), "No entries for %s\n", date.Format("2006-01-02"))
}

func printSection(cmd *cobra.Command, section journal.DateSection) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", section.Date.Format("2006-01-02"))
	if len(section.Entries) == 0 {
		fmt.Fprintln(out, "(no entries)")
		return nil
	}

	for i, entry := range section.Entries {
		fmt.Fprintf(out, "%d. %s\n", i+1, formatEntry(entry))
	}
	return nil
}

func printSections(cmd *cobra.Command, sections []journal.DateSection) error {
	if len(sections) == 0 {
		return nil
	}
	for i, section := range sections {
		if err := printSection(cmd, section); err != nil {
			return err
		}
		if i < len(sections)-1 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}

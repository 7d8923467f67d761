package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/markup"
)

func newShowCommand(ctx context.Context, env *environment) *cobra.Command {
	var (
		dateFlag string
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Render a single entry with its formatting.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := resolveIndex(args[0])
			if err != nil {
				return err
			}

			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			section, err := journal.NewReader(env.manager).Section(ctx, date)
			if err != nil {
				return err
			}
			entry, err := section.At(index)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s [%s]", date.Format("2006-01-02"), entry.Time.Format("15:04"))
			for _, tag := range entry.Tags {
				if plain || env.styles == nil {
					fmt.Fprintf(out, " #%s", tag)
				} else {
					fmt.Fprintf(out, " %s", env.styles.Tag(tag))
				}
			}
			fmt.Fprintln(out)

			lines := markup.Render(entry.Content)
			writeLines(out, env, lines, plain)
			printAnnotations(out, lines)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print text without styling")

	return cmd
}

func newRenderCommand(env *environment) *cobra.Command {
	var (
		plain    bool
		segments bool
	)

	cmd := &cobra.Command{
		Use:   "render [markup ...]",
		Short: "Render a markup buffer given as arguments or on standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			buffer := strings.Join(args, " ")
			if len(args) == 0 {
				input, err := readInput(cmd)
				if err != nil {
					return err
				}
				buffer = input
			}

			lines := markup.Render(buffer)
			out := cmd.OutOrStdout()
			if segments {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(lines)
			}
			writeLines(out, env, lines, plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print text without styling")
	cmd.Flags().BoolVar(&segments, "segments", false, "Emit the rendered lines and segments as JSON")

	return cmd
}

func newExportCommand(ctx context.Context, env *environment) *cobra.Command {
	var (
		fromFlag string
		toFlag   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as plain text with formatting removed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			end, err := resolveDate(toFlag)
			if err != nil {
				return err
			}
			start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
			if fromFlag != "" {
				start, err = resolveDate(fromFlag)
				if err != nil {
					return err
				}
			}
			if end.Before(start) {
				return fmt.Errorf("--from %s is after --to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
			}

			sections, err := journal.NewReader(env.manager).SectionsBetween(ctx, start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, section := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s\n", section.Date.Format("Monday, 2 January 2006"))
				for _, entry := range section.Entries {
					fmt.Fprintf(out, "\n%s", entry.Time.Format("15:04"))
					if tags := formatTags(entry.Tags); tags != "" {
						fmt.Fprintf(out, " %s", tags)
					}
					fmt.Fprintln(out)
					if text := markup.PlainText(entry.Content); text != "" {
						fmt.Fprintln(out, text)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "First date in YYYY-MM-DD (default: start of the --to month)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Last date in YYYY-MM-DD (default: today)")

	return cmd
}

func writeLines(out io.Writer, env *environment, lines []markup.Line, plain bool) {
	if len(lines) == 0 {
		return
	}
	if plain || env.styles == nil {
		for _, line := range lines {
			io.WriteString(out, line.Text())
		}
	} else {
		io.WriteString(out, env.styles.Paint(lines))
	}
	fmt.Fprintln(out)
}

func printAnnotations(out io.Writer, lines []markup.Line) {
	var found bool
	for _, line := range lines {
		if line.Annotation == nil {
			continue
		}
		if !found {
			fmt.Fprintln(out, "Annotations:")
			found = true
		}
		fmt.Fprintf(out, "  line %d: %s %s\n", line.Index+1, line.Annotation.Type, line.Annotation.Value)
	}
}

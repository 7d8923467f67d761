package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/faizmokh/diari/internal/journal"
	"github.com/faizmokh/diari/internal/markup"
)

// composeOptions describes the pieces a new entry body is assembled from.
type composeOptions struct {
	header  string
	text    string
	bullets []string
	bold    bool
	italic  bool
	stamp   bool
	now     time.Time
}

// composeContent builds a markup buffer with the same operations the editor
// exposes interactively.
func composeContent(opts composeOptions) (string, error) {
	var (
		buffer string
		err    error
	)

	if opts.header != "" {
		buffer, err = markup.InsertHeader(opts.header, markup.Caret(0))
		if err != nil {
			return "", err
		}
	}

	if opts.text != "" {
		body, err := emphasize(opts.text, opts.bold, opts.italic)
		if err != nil {
			return "", err
		}
		if buffer != "" {
			body = "\n" + body
		}
		buffer, err = markup.InsertAtCaret(buffer, caretAtEnd(buffer), body)
		if err != nil {
			return "", err
		}
	}

	for _, item := range opts.bullets {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if buffer == "" {
			buffer = markup.BulletPrefix + item
			continue
		}
		buffer, err = markup.InsertBullet(buffer, caretAtEnd(buffer))
		if err != nil {
			return "", err
		}
		buffer, err = markup.InsertAtCaret(buffer, caretAtEnd(buffer), item)
		if err != nil {
			return "", err
		}
	}

	if opts.stamp {
		stamp := markup.Timestamp(opts.now)
		if buffer != "" && !strings.HasSuffix(buffer, "\n") {
			stamp = " " + stamp
		}
		buffer, err = markup.InsertAtCaret(buffer, caretAtEnd(buffer), stamp)
		if err != nil {
			return "", err
		}
	}

	return buffer, nil
}

func emphasize(text string, bold, italic bool) (string, error) {
	sel := markup.Selection{Start: 0, End: utf8.RuneCountInString(text)}
	switch {
	case bold:
		out, _, err := markup.ToggleBold(text, sel, markup.Formats{})
		return out, err
	case italic:
		out, _, err := markup.ToggleItalic(text, sel, markup.Formats{})
		return out, err
	default:
		return text, nil
	}
}

func newWriteCommand(ctx context.Context, env *environment) *cobra.Command {
	var (
		dateFlag   string
		timeFlag   string
		headerFlag string
		tagFlags   []string
		bullets    []string
		bold       bool
		italic     bool
		stamp      bool
		fromStdin  bool
	)

	cmd := &cobra.Command{
		Use:   "write [text ... #tags]",
		Short: "Write a journal entry.",
		Long: "write appends an entry under the target date. Tags can be provided inline via #tag syntax or --tag. " +
			"Headers, bullets, emphasis, and a timestamp annotation can be added with flags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			entryTime, err := resolveTime(date, timeFlag)
			if err != nil {
				return err
			}

			text, tags := parseTextAndTags(args)
			if fromStdin {
				input, err := readInput(cmd)
				if err != nil {
					return err
				}
				text = strings.TrimSpace(strings.Join([]string{text, input}, "\n"))
			}
			tags = append(tags, tagFlags...)

			content, err := composeContent(composeOptions{
				header:  headerFlag,
				text:    text,
				bullets: bullets,
				bold:    bold,
				italic:  italic,
				stamp:   stamp,
				now:     entryTime,
			})
			if err != nil {
				return err
			}
			if strings.TrimSpace(content) == "" {
				return fmt.Errorf("content is required")
			}

			writer := journal.NewWriter(env.manager)
			saved, err := writer.Append(ctx, date, journal.Entry{
				Time:    entryTime,
				Tags:    tags,
				Content: content,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", formatEntry(saved))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Timestamp in HH:MM (default: current time)")
	cmd.Flags().StringVar(&headerFlag, "header", "", "Header line placed above the text")
	cmd.Flags().StringSliceVar(&tagFlags, "tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringArrayVar(&bullets, "bullet", nil, "Bullet item appended after the text (repeatable)")
	cmd.Flags().BoolVar(&bold, "bold", false, "Wrap the text in bold markers")
	cmd.Flags().BoolVar(&italic, "italic", false, "Wrap the text in italic markers")
	cmd.Flags().BoolVar(&stamp, "stamp", false, "Append a timestamp annotation for the entry time")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the entry text from standard input")
	cmd.MarkFlagsMutuallyExclusive("bold", "italic")

	return cmd
}

func newEditCommand(ctx context.Context, env *environment) *cobra.Command {
	var (
		dateFlag   string
		timeFlag   string
		appendText bool
		fromStdin  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <index> [text ... #tags]",
		Short: "Modify an entry by index.",
		Long:  "edit replaces the text and tags of an entry. With --append the text is added as a new line instead.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := resolveIndex(args[0])
			if err != nil {
				return err
			}

			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			reader := journal.NewReader(env.manager)
			section, err := reader.Section(ctx, date)
			if err != nil {
				return err
			}
			current, err := section.At(index)
			if err != nil {
				return err
			}
			updated := current

			text, tags := parseTextAndTags(args[1:])
			if fromStdin {
				input, err := readInput(cmd)
				if err != nil {
					return err
				}
				text = strings.TrimSpace(strings.Join([]string{text, input}, "\n"))
			}

			if text != "" {
				if appendText && updated.Content != "" {
					updated.Content, err = markup.InsertAtCaret(updated.Content, caretAtEnd(updated.Content), "\n"+text)
					if err != nil {
						return err
					}
				} else {
					updated.Content = text
				}
			}
			if len(tags) > 0 {
				if appendText {
					updated.Tags = append(append([]string(nil), updated.Tags...), tags...)
				} else {
					updated.Tags = tags
				}
			}

			if timeFlag != "" {
				entryTime, err := resolveTime(date, timeFlag)
				if err != nil {
					return err
				}
				updated.Time = entryTime
			}

			updated.Tags = journal.NormalizeTags(updated.Tags)
			writer := journal.NewWriter(env.manager)
			if err := writer.Edit(ctx, date, current.ID, updated); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d: %s\n", index, formatEntry(updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&timeFlag, "time", "", "Timestamp in HH:MM (default: unchanged)")
	cmd.Flags().BoolVar(&appendText, "append", false, "Append text and tags instead of replacing them")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the entry text from standard input")

	return cmd
}

func newDeleteCommand(ctx context.Context, env *environment) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Remove an entry by index.",
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

			reader := journal.NewReader(env.manager)
			section, err := reader.Section(ctx, date)
			if err != nil {
				return err
			}
			target, err := section.At(index)
			if err != nil {
				return err
			}

			writer := journal.NewWriter(env.manager)
			entry, err := writer.Delete(ctx, date, target.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d: %s\n", index, formatEntry(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}

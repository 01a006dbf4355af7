// internal/cli/chat.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const chatHelp = `Commands:
  /profile <company>   sponsorship profile for an employer
  /guidance <question> stage-specific immigration guidance
  /help                show this help
  /quit                leave the chat (also: /exit, exit, quit)
Anything else is answered as a question.`

func newChatCmd(opts *Options, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive question session",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, closeFn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Ask about H-1B and green card sponsorship. Type /help for commands.")

			prompt := promptui.Prompt{
				Label: "You",
				Templates: &promptui.PromptTemplates{
					Prompt:  "{{ . | cyan }}: ",
					Valid:   "{{ . | cyan }}: ",
					Success: "{{ . | faint }}: ",
				},
			}
			for {
				line, err := prompt.Run()
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				if quit := chatTurn(cmd.Context(), b, out, line); quit {
					return nil
				}
			}
		},
	}
}

// chatTurn handles one line of input and reports whether the session should end.
func chatTurn(ctx context.Context, b Backend, out io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "/quit", "/exit", "exit", "quit":
		if rest == "" {
			fmt.Fprintln(out, "Goodbye!")
			return true
		}
	case "/help":
		fmt.Fprintln(out, chatHelp)
		return false
	case "/profile":
		if rest == "" {
			fmt.Fprintln(out, "usage: /profile <company>")
			return false
		}
		profile, err := b.CompanyProfile(ctx, rest)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, profile)
		return false
	case "/guidance":
		if rest == "" {
			fmt.Fprintln(out, "usage: /guidance <question>")
			return false
		}
		fmt.Fprintln(out, b.Guidance(ctx, rest))
		return false
	}

	fmt.Fprintln(out, b.Answer(ctx, line))
	return false
}

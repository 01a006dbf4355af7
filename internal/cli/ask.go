// internal/cli/ask.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sponsor-insights/internal/models"
)

var errQueryOrFilter = errors.New("give either a question or exactly one of --city, --company, --title")

func newAskCmd(opts *Options, open Opener) *cobra.Command {
	var city, company, title string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a sponsorship question",
		Example: `  sponsorctl ask "high paying PERM jobs in New York"
  sponsorctl ask --city Austin
  sponsorctl ask --company "Acme Corp"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := structuredIntent(city, company, title)
			if err != nil {
				return err
			}
			query := joinArgs(args)
			if (in == nil) == (query == "") {
				return errQueryOrFilter
			}

			b, _, closeFn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			if in == nil {
				fmt.Fprintln(cmd.OutOrStdout(), b.Answer(cmd.Context(), query))
				return nil
			}
			out, err := b.Dispatch(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "list filings in a city")
	cmd.Flags().StringVar(&company, "company", "", "list filings by employers matching a name")
	cmd.Flags().StringVar(&title, "title", "", "list filings by job title")
	return cmd
}

// structuredIntent returns nil when no filter flag is set.
func structuredIntent(city, company, title string) (models.Intent, error) {
	var intents []models.Intent
	if city != "" {
		intents = append(intents, models.CityQuery{City: city})
	}
	if company != "" {
		intents = append(intents, models.CompanyQuery{Company: company})
	}
	if title != "" {
		intents = append(intents, models.TitleQuery{Title: title})
	}
	switch len(intents) {
	case 0:
		return nil, nil
	case 1:
		return intents[0], nil
	}
	return nil, errQueryOrFilter
}

func newProfileCmd(opts *Options, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:     "profile <company>",
		Short:   "Show an employer's H-1B and green card sponsorship profile",
		Example: `  sponsorctl profile Microsoft`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, closeFn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := b.CompanyProfile(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newGuidanceCmd(opts *Options, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:     "guidance <question>",
		Short:   "Stage-specific immigration guidance backed by filing data",
		Example: `  sponsorctl guidance "I'm on OPT in Seattle, what are my options?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, closeFn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			fmt.Fprintln(cmd.OutOrStdout(), b.Guidance(cmd.Context(), joinArgs(args)))
			return nil
		},
	}
}

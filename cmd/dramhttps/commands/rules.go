package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the rewrite rules in the order they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := opts.RuleSet(cmd.Context())
			if err != nil {
				return err
			}

			table, err := renderRules(set)
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}
			fmt.Fprintln(opts.Out, table)
			return nil
		},
	}

	return cmd
}

func renderRules(set *rules.Set) (string, error) {
	data := pterm.TableData{{"#", "CATEGORY", "PATTERN", "REPLACEMENT", "REFERENCE"}}
	for i, r := range set.All() {
		data = append(data, []string{strconv.Itoa(i + 1), r.Category.String(), r.Pattern, r.Replacement, r.Reference})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

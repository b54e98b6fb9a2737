package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit something",
		Example: `
itemboard edit item item-3 buy oat milk
itemboard edit category category-1 shopping
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addEditOf(cmd, false)
	addEditOf(cmd, true)

	topLevel.AddCommand(cmd)
}

func addEditOf(topLevel *cobra.Command, category bool) {
	use, short := "item <id> <text>", "Change the text of an item"
	if category {
		use, short = "category <id> <name>", "Rename a category"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires an id and the new text")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return idCompletions(toComplete, category), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := edit.Edit{
				Category:  category,
				ID:        args[0],
				Text:      strings.Join(args[1:], " "),
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

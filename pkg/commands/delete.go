package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete something",
		Example: `
itemboard delete item item-3
itemboard delete category category-1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addDeleteOf(cmd, false)
	addDeleteOf(cmd, true)

	topLevel.AddCommand(cmd)
}

func addDeleteOf(topLevel *cobra.Command, category bool) {
	use, short := "item <id>", "Delete an item"
	if category {
		use, short = "category <id>", "Delete a category, moving its items back to the item list"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one id")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return idCompletions(toComplete, category), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := remove.Remove{
				Category:  category,
				ID:        args[0],
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

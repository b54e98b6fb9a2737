package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/commands/options"
	"tableflip.dev/itemboard/pkg/runner/move"
)

func addMove(topLevel *cobra.Command) {
	co := &options.ContainerOptions{}

	cmd := &cobra.Command{
		Use:     "move <item id>",
		Aliases: []string{"mv"},
		Short:   "Move an item to the item list or a category",
		Example: `
itemboard move item-3 --to category-1
itemboard move item-3 --to itemContainer
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly one item id")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return idCompletions(toComplete, false), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := move.Move{
				ID:        args[0],
				To:        co.Container,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddContainerArgs(cmd, co, "")
	_ = cmd.RegisterFlagCompletionFunc("to", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return containerCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

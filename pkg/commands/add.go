package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/commands/options"
	"tableflip.dev/itemboard/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add something",
		Example: `
itemboard add item buy milk
itemboard add category groceries
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addItem(cmd)
	addCategory(cmd)

	topLevel.AddCommand(cmd)
}

func addItem(topLevel *cobra.Command) {
	co := &options.ContainerOptions{}
	var text string

	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items", "i"},
		Short:   "Add an item to the item list",
		Long: `Add an item to the item list. With --to the item is then moved
into a category; that move is its own undo step.`,
		Example: `
itemboard add item buy milk
itemboard add item buy eggs --to category-0
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires item text")
			}
			text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := add.Add{
				Text:      text,
				Into:      co.Container,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddContainerArgs(cmd, co, board.ItemContainerID)
	_ = cmd.RegisterFlagCompletionFunc("to", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return containerCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func addCategory(topLevel *cobra.Command) {
	var name string

	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "c"},
		Short:   "Add a category",
		Example: `
itemboard add category groceries
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a category name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := add.Add{
				Category:  true,
				Text:      name,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

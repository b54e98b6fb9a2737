package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/commands/options"
	"tableflip.dev/itemboard/pkg/runner/file"
)

func addNew(topLevel *cobra.Command) {
	fo := &options.ForceOptions{}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start an empty board",
		Example: `
itemboard new
itemboard new --force
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := file.New{
				Force:     fo.Force,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddForceArgs(cmd, fo)
	topLevel.AddCommand(cmd)
}

func addOpen(topLevel *cobra.Command) {
	fo := &options.ForceOptions{}

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Replace the board with a saved file",
		Example: `
itemboard open groceries.json
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := file.Open{
				Path:      args[0],
				Force:     fo.Force,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddForceArgs(cmd, fo)
	topLevel.AddCommand(cmd)
}

func addSave(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save the board to a file",
		Long:  "Save the board to the given file, or to the file it was opened from.",
		Example: `
itemboard save
itemboard save groceries.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := file.Save{Workspace: w}
			if len(args) == 1 {
				s.Path = args[0]
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

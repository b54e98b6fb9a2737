package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/runner/undo"
)

func addUndo(topLevel *cobra.Command) {
	addStep(topLevel, false)
}

func addRedo(topLevel *cobra.Command) {
	addStep(topLevel, true)
}

func addStep(topLevel *cobra.Command, redo bool) {
	steps := 1
	use, short := "undo", "Undo the last change"
	if redo {
		use, short = "redo", "Redo the last undone change"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Example: `
itemboard ` + use + `
itemboard ` + use + ` -n 3
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := undo.Undo{
				Redo:      redo,
				Steps:     steps,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of changes to "+use+".")
	topLevel.AddCommand(cmd)
}

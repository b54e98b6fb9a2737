package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/runner/history"
	"tableflip.dev/itemboard/pkg/timeutil"
)

func addHistory(topLevel *cobra.Command) {
	clearAll := false
	since := ""

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the changes that can be undone and redone",
		Example: `
itemboard history
itemboard history --since 10m
itemboard history --clear
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s := history.History{
				Clear: clearAll,
				JSON:  output.JSON,
			}
			if since != "" {
				window, err := timeutil.ParseWindow(since)
				if err != nil {
					return output.HandleError(err)
				}
				s.Since = window
			}
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s.Workspace = w
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget all undo and redo history.")
	cmd.Flags().StringVar(&since, "since", "", "Only list changes made within this window, e.g. 10m or 1d.")
	topLevel.AddCommand(cmd)
}

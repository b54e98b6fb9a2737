package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the board and where it is stored.",
		Example: `
itemboard info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			w, cfg, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config:    cfg,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/commands/options"
	"tableflip.dev/itemboard/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"ls", "list"},
		Short:   "Show the item list and every category",
		Example: `
itemboard show
itemboard show --show-id
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			w, _, err := openWorkspace()
			if err != nil {
				return output.HandleError(err)
			}
			s := show.Show{
				ShowID:    io.ShowID,
				JSON:      output.JSON,
				Workspace: w,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

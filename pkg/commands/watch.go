package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/commands/options"
	"tableflip.dev/itemboard/pkg/runner/watch"
	"tableflip.dev/itemboard/pkg/store"
)

func addWatch(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the board full screen and redraw it whenever it changes (q quits)",
		Example: `
itemboard watch
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			p, err := store.Load(nil)
			if err != nil {
				return output.HandleError(err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			s := watch.Watch{
				ShowID:      io.ShowID,
				Persistence: p,
				Logger:      logs.Logger(),
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}

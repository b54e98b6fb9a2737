package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(itemboard completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(itemboard completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func loadBoard() *board.Board {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	b, err := p.LoadBoard()
	if err != nil {
		return nil
	}
	return b
}

func containerCompletions(toComplete string) []string {
	b := loadBoard()
	if b == nil {
		return nil
	}
	ids := []string{board.ItemContainerID}
	for _, c := range b.Categories {
		ids = append(ids, c.ID)
	}
	return filterPrefix(ids, toComplete)
}

func idCompletions(toComplete string, categories bool) []string {
	b := loadBoard()
	if b == nil {
		return nil
	}
	var ids []string
	if categories {
		for _, c := range b.Categories {
			ids = append(ids, c.ID)
		}
	} else {
		for _, it := range b.Items {
			ids = append(ids, it.ID)
		}
		for _, c := range b.Categories {
			for _, it := range c.Items {
				ids = append(ids, it.ID)
			}
		}
	}
	return filterPrefix(ids, toComplete)
}

func filterPrefix(ids []string, prefix string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out
}

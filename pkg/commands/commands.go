package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/commands/options"
	"tableflip.dev/itemboard/pkg/store"
)

var (
	output = &options.OutputOptions{}
	logs   = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "itemboard",
		Short: base.Wrap80("Organize items into categories from the command line, with undo and redo."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, output)
	options.AddLogArgs(cmd, logs)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addShow(topLevel)
	addAdd(topLevel)
	addDelete(topLevel)
	addMove(topLevel)
	addEdit(topLevel)
	addUndo(topLevel)
	addRedo(topLevel)
	addHistory(topLevel)
	addNew(topLevel)
	addOpen(topLevel)
	addSave(topLevel)
	addImport(topLevel)
	addWatch(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// openWorkspace loads config, store and workspace for a single invocation.
func openWorkspace() (*app.Workspace, store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	w, err := app.Open(app.Options{
		Persistence: p,
		HistoryMax:  cfg.HistoryMax(),
		Logger:      logs.Logger(),
	})
	if err != nil {
		return nil, nil, err
	}
	return w, cfg, nil
}

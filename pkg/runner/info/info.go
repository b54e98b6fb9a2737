// Package info provides the runner that reports where the workspace lives.
package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/store"
)

type Info struct {
	Config    store.Config
	Workspace *app.Workspace
}

func (n *Info) Do(_ context.Context) error {

	if override := os.Getenv("ITEMBOARD_CONFIG_PATH"); override != "" {
		fmt.Println("ITEMBOARD_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("ITEMBOARD_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Println("Config.path: ", n.Config.BasePath())
	fmt.Println("Config.history.max: ", n.Config.HistoryMax())

	if n.Workspace == nil {
		return fmt.Errorf("Failed to open workspace.")
	}

	w := n.Workspace
	if w.Session != nil && w.Session.FilePath != "" {
		fmt.Println("File: ", w.Session.FilePath)
	} else {
		fmt.Println("File: ", "none")
	}
	fmt.Println("Modified: ", w.Modified())

	st := w.History.State()
	fmt.Printf("History: %d to undo, %d to redo\n", st.UndoCount, st.RedoCount)
	fmt.Printf("Board: %d items in the list, %d categories, %d items total\n",
		len(w.Board.Items), len(w.Board.Categories), w.Board.Len())

	return nil
}

// Package watch provides the runner that shows the board full screen and
// redraws it whenever another process changes it.
package watch

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"tableflip.dev/itemboard/pkg/store"
)

// Watch follows store change events until ctx is cancelled or the user quits.
type Watch struct {
	ShowID      bool
	Persistence store.Persistence
	Logger      *zap.Logger

	// Options are appended to the program options, e.g. to swap input and
	// output.
	Options []tea.ProgramOption
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not watch, no persistence")
	}
	// Match the printers: no colour under NO_COLOR or when stdout is not a tty.
	if color.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	m := newModel(ctx, n.Persistence, n.ShowID, n.Logger)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, n.Options...)
	final, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Cancelled from outside, e.g. by an interrupt.
		err = nil
	}
	if err != nil {
		return err
	}
	if fm, ok := final.(*model); ok {
		fm.stopWatch()
		return fm.err
	}
	return nil
}

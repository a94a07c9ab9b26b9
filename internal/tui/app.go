package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/agentstation/mapreview/pkg/review"
)

// Command is what a key press asks for.
type Command int

// Commands.
const (
	CommandNone Command = iota
	CommandAction
	CommandQuit
)

// keyCommand maps a key to a command. Only y, n and the horizontal arrows
// drive the review; q, Esc and Ctrl-C quit.
func keyCommand(key tcell.Key, r rune) (Command, review.Action) {
	switch key {
	case tcell.KeyLeft:
		return CommandAction, review.ActionPrev
	case tcell.KeyRight:
		return CommandAction, review.ActionNext
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit, 0
	case tcell.KeyRune:
		switch r {
		case 'y':
			return CommandAction, review.ActionAccept
		case 'n':
			return CommandAction, review.ActionReject
		case 'q':
			return CommandQuit, 0
		}
	}
	return CommandNone, 0
}

// Handler receives reviewer actions. review.Controller implements it.
type Handler interface {
	Handle(action review.Action)
}

// Run polls screen events and forwards reviewer actions to h until a quit
// key is pressed or ctx is done.
func Run(ctx context.Context, screen tcell.Screen, view *View, h Handler) {
	stop := context.AfterFunc(ctx, func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	view.Resume()
	for {
		if ctx.Err() != nil {
			return
		}
		switch ev := screen.PollEvent().(type) {
		case nil:
			// screen finalized
			return
		case *tcell.EventResize:
			screen.Sync()
			view.Draw()
		case *tcell.EventKey:
			cmd, action := keyCommand(ev.Key(), ev.Rune())
			switch cmd {
			case CommandQuit:
				return
			case CommandAction:
				h.Handle(action)
			}
		}
	}
}

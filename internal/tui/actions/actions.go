// Package actions holds the tea.Cmds the review list issues and the
// messages they resolve to.
package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reviews-cli/internal/dispatch"
)

// Queue is the main-context work queue a Model listens on.
type Queue interface {
	Next(ctx context.Context) (func(), bool)
	Drain() int
}

// DispatchedMsg carries one function posted to the main context. Update
// runs it, then drains anything queued behind it.
type DispatchedMsg struct {
	Fn func()
}

type StartMsg struct{}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ClearStatusMsg struct {
	ID int
}

var _ Queue = (*dispatch.Queue)(nil)

// ListenCmd waits for the next function posted to q.
func ListenCmd(q Queue) tea.Cmd {
	return func() tea.Msg {
		fn, ok := q.Next(context.Background())
		if !ok {
			return nil
		}
		return DispatchedMsg{Fn: fn}
	}
}

func StartCmd() tea.Cmd {
	return func() tea.Msg { return StartMsg{} }
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened image in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

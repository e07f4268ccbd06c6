package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pyrite/internal/ui"
)

// runWithUI runs work in the background and renders its events. The view
// may quit first (ctrl+c); the remaining events are drained so work never
// blocks on a full channel.
func runWithUI(title string, files []string, work func(emit func(ui.Event))) error {
	events := make(chan ui.Event, 256)
	done := make(chan struct{})

	go func() {
		defer close(done)
		work(func(ev ui.Event) { events <- ev })
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	for range events {
	}
	<-done
	return uiErr
}

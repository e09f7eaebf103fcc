package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"basil/internal/driver"
	"basil/internal/ui"
)

type diagnoseOutcome struct {
	result *driver.DiagnoseResult
	err    error
}

// runDiagnoseWithUI runs driver.Diagnose while a progress view renders its
// events. The view exits on its own once the event channel is closed.
func runDiagnoseWithUI(ctx context.Context, title, root string, targets []string, opts driver.DiagnoseOptions) (*driver.DiagnoseResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Diagnose(ctx, targets, optsCopy)
		outcomeCh <- diagnoseOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, root, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы горутина анализа не заблокировалась
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/hinfsyn/internal/automation"
	"github.com/san-kum/hinfsyn/internal/optim"
	"github.com/san-kum/hinfsyn/internal/viz"
)

// runLive shows a progress view while work runs and closes it when work
// returns. Stopping the view early calls cancel.
func runLive(title string, total int, cancel context.CancelFunc, work func(send func(tea.Msg))) error {
	p := tea.NewProgram(viz.NewProgress(title, total, cancel))
	done := make(chan struct{})
	go func() {
		defer close(done)
		work(p.Send)
		p.Send(viz.Finished{})
	}()
	_, err := p.Run()
	<-done
	return err
}

func sweepItem(idx int, o optim.Outcome) tea.Msg {
	detail := ""
	if o.Err != nil {
		detail = o.Err.Error()
	}
	return viz.ItemDone{Index: idx, Label: fmt.Sprintf("gamma %.4g", o.Gamma), OK: o.Feasible(), Detail: detail}
}

func stepItem(ev automation.StepEvent) tea.Msg {
	mode := ev.Step.Mode
	if mode == "" {
		mode = "synth"
	}
	label := fmt.Sprintf("%d %s (%s)", ev.Index+1, ev.Step.Problem, mode)
	if !ev.Done {
		return viz.ItemStarted{Index: ev.Index, Label: label}
	}
	if ev.Err != nil {
		return viz.ItemDone{Index: ev.Index, Label: label, Detail: ev.Err.Error()}
	}
	return viz.ItemDone{Index: ev.Index, Label: label, OK: true,
		Detail: fmt.Sprintf("gamma %.6g", ev.Result.Outcome.Gamma)}
}

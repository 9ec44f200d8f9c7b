package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go-pm/internal/alertdesk"
)

// printNavigator is the terminal stand-in for opening the project view. It
// prints where the user would land and signals done once it has.
type printNavigator struct {
	out  io.Writer
	done chan alertdesk.NavigationTarget
}

func newPrintNavigator(out io.Writer) *printNavigator {
	return &printNavigator{out: out, done: make(chan alertdesk.NavigationTarget, 1)}
}

func (n *printNavigator) NavigateToProject(_ context.Context, target alertdesk.NavigationTarget) error {
	_, err := fmt.Fprintln(n.out, projectLink(target))
	select {
	case n.done <- target:
	default:
	}
	return err
}

// projectLink renders the project workflow location with the step to highlight.
func projectLink(t alertdesk.NavigationTarget) string {
	var b strings.Builder
	fmt.Fprintf(&b, "open project %s workflow", t.ProjectID)
	if t.HighlightStep && t.StepID != "" {
		fmt.Fprintf(&b, " at step %s", t.StepID)
		if t.StepName != "" {
			fmt.Fprintf(&b, " (%s)", t.StepName)
		}
	}
	return b.String()
}

package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/forPelevin/timetag/internal/types"
)

// Summary renders one row per file: its terminal state, where the output
// went (or why it did not), and how long it took.
func Summary(outcomes []types.Outcome, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "State", "Output", "Elapsed"})

	for _, o := range outcomes {
		state := string(o.State)
		detail := filepath.Base(o.Destination)
		if o.Err != nil {
			if k := types.KindOf(o.Err); k != "" {
				state = string(k)
			}
			detail = o.Err.Error()
		}
		// files the run never finished, e.g. after an interrupt
		if !o.State.Terminal() {
			state = "skipped"
		}
		if colorize {
			state = stateColor(o).Sprint(state)
		}
		tw.AppendRow(table.Row{o.Path, state, detail, o.Elapsed.Round(time.Millisecond).String()})
	}

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	tw.AppendFooter(table.Row{"", "", summaryLine(len(outcomes), failed), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 80},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func summaryLine(total, failed int) string {
	return fmt.Sprintf("%d ok, %d failed", total-failed, failed)
}

func stateColor(o types.Outcome) text.Colors {
	switch {
	case o.Err != nil:
		return text.Colors{text.FgRed, text.Bold}
	case o.State == types.StatePlanned:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgGreen}
	}
}

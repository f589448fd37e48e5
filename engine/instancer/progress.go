package instancer

import "github.com/spaghettifunk/anima-hapi/engine/core"

const progressMessage = "Instancing Objects..."

// ProgressBar receives one report per point, before the point is processed.
type ProgressBar interface {
	Report(current, total int, message string)
}

// LogProgress writes progress to the debug log every Step percent.
type LogProgress struct {
	Step int

	last int
}

func (p *LogProgress) Report(current, total int, message string) {
	if total <= 0 {
		return
	}
	step := p.Step
	if step <= 0 {
		step = 10
	}
	percent := current * 100 / total
	if current == 0 {
		p.last = 0
	} else if percent < p.last+step {
		return
	}
	p.last = percent
	core.LogDebug("%s %d/%d (%d%%)", message, current, total, percent)
}

// EventProgress forwards every report to the event bus.
type EventProgress struct {
	Sender interface{}
}

func (p *EventProgress) Report(current, total int, message string) {
	core.EventFire(core.EVENT_CODE_INSTANCING_PROGRESS, p.Sender, core.EventContext{
		Data: &core.ProgressEvent{Current: current, Total: total, Message: message},
	})
}

type NopProgress struct{}

func (NopProgress) Report(int, int, string) {}

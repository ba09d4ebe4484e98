package feedback

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Phase is the stage a session is in.
type Phase string

const (
	PhaseCollecting Phase = "collecting" // one question per competency
	PhaseReviewing  Phase = "reviewing"  // summary shown, awaiting confirm or adjust
	PhaseAdjusting  Phase = "adjusting"  // awaiting the competency to revisit
	PhaseComplete   Phase = "complete"   // record produced; terminal
)

// Events accepted by the phase machine.
const (
	eventReview  = "review"
	eventAdjust  = "adjust"
	eventConfirm = "confirm"
	eventChoose  = "choose"
)

type phaseContext struct {
	SessionID string
}

// phaseMachine enforces the legal phase transitions. It is not safe for
// concurrent use; Session serializes access.
type phaseMachine struct {
	interpreter *statekit.Interpreter[phaseContext]
}

func newPhaseMachine(sessionID string) (*phaseMachine, error) {
	builder := statekit.NewMachine[phaseContext]("feedback-session").
		WithInitial(statekit.StateID(PhaseCollecting)).
		WithContext(phaseContext{SessionID: sessionID})

	builder.State(statekit.StateID(PhaseCollecting)).
		On(eventReview).Target(statekit.StateID(PhaseReviewing)).
		Done()

	builder.State(statekit.StateID(PhaseReviewing)).
		On(eventAdjust).Target(statekit.StateID(PhaseAdjusting)).
		On(eventConfirm).Target(statekit.StateID(PhaseComplete)).
		Done()

	builder.State(statekit.StateID(PhaseAdjusting)).
		On(eventChoose).Target(statekit.StateID(PhaseCollecting)).
		Done()

	builder.State(statekit.StateID(PhaseComplete)).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build phase machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &phaseMachine{interpreter: interpreter}, nil
}

// Current returns the active phase.
func (m *phaseMachine) Current() Phase {
	return Phase(m.interpreter.State().Value)
}

// Fire sends event and reports an error if no transition happened.
func (m *phaseMachine) Fire(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() == before {
		return fmt.Errorf("event %q not allowed in phase %s", event, before)
	}
	return nil
}

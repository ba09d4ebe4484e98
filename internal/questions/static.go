package questions

import (
	"context"
	"fmt"

	"github.com/abhisek/fido/internal/competency"
)

// defaultBank holds offline questions for the standard catalog. Each area
// has several so that revisiting an area asks something new.
var defaultBank = map[competency.Area][]string{
	competency.Leadership: {
		"How has %s guided or supported the team recently?",
		"Can you share a decision %s made that shaped how the team worked?",
		"How does %s delegate and follow up on work?",
	},
	competency.EmotionalIQ: {
		"How does %s handle pressure or disagreement with colleagues?",
		"Can you recall a moment where %s showed empathy or professionalism under stress?",
		"How does %s respond to critical feedback?",
	},
	competency.Communication: {
		"How clearly does %s communicate plans and progress?",
		"How well does %s listen and adapt when others raise concerns?",
		"Can you describe a recent conversation where %s's communication stood out?",
	},
	competency.CustomerFocus: {
		"How does %s keep the customer's needs in mind?",
		"Can you share an example of %s improving a customer's experience?",
		"How does %s handle customer complaints or escalations?",
	},
	competency.Execution: {
		"How reliably does %s deliver on commitments?",
		"What results has %s achieved recently, and how?",
		"How does %s prioritize when several deadlines compete?",
	},
	competency.Innovation: {
		"What new ideas or improvements has %s introduced?",
		"How does %s react when existing processes stop working well?",
		"Can you describe something %s changed that made the team better?",
	},
	competency.DigitalFluency: {
		"How comfortable is %s with the tools and technology the team uses?",
		"Has %s adopted or taught the team a new tool recently?",
		"How does %s use data or automation in daily work?",
	},
}

// StaticSource serves questions from a fixed bank. It never fails and is
// used when no LLM provider is configured.
type StaticSource struct {
	bank map[competency.Area][]string
}

// NewStaticSource returns a source over the default question bank.
func NewStaticSource() *StaticSource {
	return &StaticSource{bank: defaultBank}
}

// NextQuestion implements Source. Areas without bank entries get a generic
// question.
func (s *StaticSource) NextQuestion(_ context.Context, req Request) (string, error) {
	target := req.Target
	if target == "" {
		target = "your colleague"
	}

	templates := s.bank[req.Competency]
	if len(templates) == 0 {
		return fmt.Sprintf("How has %s demonstrated %s recently?", target, req.Competency), nil
	}

	asked := 0
	for _, l := range req.Transcript {
		if l.Speaker == SpeakerAssistant && l.Competency == req.Competency {
			asked++
		}
	}
	return fmt.Sprintf(templates[asked%len(templates)], target), nil
}

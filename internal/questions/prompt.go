package questions

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are FIDO, a competency assessment expert helping %s give performance feedback about %s.
You guide the conversation one competency area at a time. Generate relevant questions one by one based on the answers given so far.
Ask exactly one short, open question. Do not number it, do not greet, and do not summarize previous answers.`

func buildSystemPrompt(req Request) string {
	assessor := req.Assessor
	if assessor == "" {
		assessor = "an assessor"
	}
	target := req.Target
	if target == "" {
		target = "a colleague"
	}
	return fmt.Sprintf(systemPromptTemplate, assessor, target)
}

func buildUserMessage(req Request) string {
	var b strings.Builder

	b.WriteString("Conversation so far:\n")
	if len(req.Transcript) == 0 {
		b.WriteString("(none)\n")
	}
	for _, l := range req.Transcript {
		who := "FIDO"
		if l.Speaker == SpeakerAssessor {
			who = "Assessor"
		}
		text := strings.TrimSpace(l.Text)
		if text == "" {
			text = "(no answer)"
		}
		if l.Competency != "" {
			fmt.Fprintf(&b, "%s [%s]: %s\n", who, l.Competency, text)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", who, text)
		}
	}

	fmt.Fprintf(&b, "\nNext competency area: %s\n", req.Competency)
	b.WriteString(`
Instructions:
Write the next question for the assessor about this competency area.
If the area was discussed before, ask for what has changed or what was missed.
Reply with the question text only.`)

	return b.String()
}

// cleanQuestion strips wrapping the model sometimes adds around a single
// question.
func cleanQuestion(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"Question:", "FIDO:", "Q:"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
		}
	}
	s = strings.Trim(s, "\"")
	return strings.TrimSpace(s)
}

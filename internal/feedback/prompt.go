package feedback

import (
	"fmt"
	"strings"
)

// Review choices offered with the summary.
const (
	ChoiceAdjust  = "Yes, let's adjust"
	ChoiceConfirm = "No, this looks good"
)

const (
	adjustPrompt   = "Which competency would you like to adjust?"
	unmatchedReply = "I couldn't match that to a competency. Which competency would you like to adjust?"
)

func greeting(assessor, target string) string {
	return fmt.Sprintf("Hi %s! I'm FIDO, your AI assistant. I'll help you provide feedback for %s. How was work today?", assessor, target)
}

func reviewPrompt(target, summary string) string {
	return fmt.Sprintf("Based on our discussion, here's the feedback summary for %s:\n\n%s\n\nWould you like to make any adjustments to this feedback?", target, summary)
}

func closingMessage(target string) string {
	return fmt.Sprintf("Thank you! Your feedback for %s has been recorded.", target)
}

// isAffirmative reports whether input contains any token, ignoring case.
func isAffirmative(input string, tokens []string) bool {
	lower := strings.ToLower(input)
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

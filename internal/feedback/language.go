package feedback

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/abhisek/fido/internal/llm"
)

// Analyzer produces language feedback on the assessor's answers.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*LanguageFeedback, error)
}

var cefrLevels = []string{
	"A1 (Beginner)",
	"A2 (Elementary)",
	"B1 (Intermediate)",
	"B2 (Upper Intermediate)",
	"C1 (Advanced)",
	"C2 (Proficient)",
}

// HeuristicAnalyzer scores writing from surface statistics. It is
// deterministic and needs no network.
type HeuristicAnalyzer struct{}

type textStats struct {
	words      []string
	distinct   map[string]bool
	sentences  []string
	letters    int
	noCapital  int
	noTerminal int
	lowercaseI int
}

func analyzeText(text string) textStats {
	st := textStats{distinct: make(map[string]bool)}

	for _, raw := range splitSentences(text) {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		st.sentences = append(st.sentences, s)
		if r := []rune(s)[0]; unicode.IsLetter(r) && !unicode.IsUpper(r) {
			st.noCapital++
		}
		if !strings.ContainsAny(s[len(s)-1:], ".!?") {
			st.noTerminal++
		}
	}

	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	}) {
		w = strings.Trim(w, "'")
		if w == "" {
			continue
		}
		if w == "i" {
			st.lowercaseI++
		}
		lw := strings.ToLower(w)
		st.words = append(st.words, lw)
		st.distinct[lw] = true
		st.letters += len([]rune(lw))
	}
	return st
}

// splitSentences splits after terminal punctuation and at line breaks,
// keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range text {
		if r == '\n' {
			out = append(out, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	return append(out, cur.String())
}

// Analyze implements Analyzer.
func (HeuristicAnalyzer) Analyze(_ context.Context, text string) (*LanguageFeedback, error) {
	st := analyzeText(text)
	if len(st.words) == 0 {
		return &LanguageFeedback{
			Vocabulary:    []string{"No written answers to assess"},
			Grammar:       []string{},
			Pronunciation: []string{"Not assessable from written answers"},
			Fluency:       []string{},
			Suggestions:   []string{"Share a few sentences of detail next time"},
			Level:         "Not assessed",
		}, nil
	}

	diversity := float64(len(st.distinct)) / float64(len(st.words))
	avgWordLen := float64(st.letters) / float64(len(st.words))
	avgSentence := float64(len(st.words)) / float64(max(1, len(st.sentences)))

	fb := &LanguageFeedback{
		Pronunciation: []string{"Not assessable from written answers"},
	}

	fb.Vocabulary = append(fb.Vocabulary, fmt.Sprintf("%d distinct words across %d", len(st.distinct), len(st.words)))
	if long := longestWords(st.distinct, 3, 7); len(long) > 0 {
		fb.Vocabulary = append(fb.Vocabulary, "Precise word choice: "+strings.Join(long, ", "))
	} else {
		fb.Vocabulary = append(fb.Vocabulary, "Mostly short, everyday words")
	}

	grammarIssues := 0
	if st.noCapital > 0 {
		grammarIssues++
		fb.Grammar = append(fb.Grammar, fmt.Sprintf("%d sentence(s) start without a capital letter", st.noCapital))
		fb.Suggestions = append(fb.Suggestions, "Start each sentence with a capital letter")
	}
	if st.noTerminal > 0 {
		grammarIssues++
		fb.Grammar = append(fb.Grammar, fmt.Sprintf("%d sentence(s) end without punctuation", st.noTerminal))
		fb.Suggestions = append(fb.Suggestions, "Close sentences with a full stop")
	}
	if st.lowercaseI > 0 {
		grammarIssues++
		fb.Grammar = append(fb.Grammar, "Lowercase pronoun \"i\"")
		fb.Suggestions = append(fb.Suggestions, "Capitalize the pronoun \"I\"")
	}
	if grammarIssues == 0 {
		fb.Grammar = append(fb.Grammar, "Good sentence structure", "Consistent punctuation")
	}

	switch {
	case avgSentence < 6:
		fb.Fluency = append(fb.Fluency, fmt.Sprintf("Short, clipped sentences (%.1f words on average)", avgSentence))
		fb.Suggestions = append(fb.Suggestions, "Connect ideas into fuller sentences")
	case avgSentence > 25:
		fb.Fluency = append(fb.Fluency, fmt.Sprintf("Very long sentences (%.1f words on average)", avgSentence))
		fb.Suggestions = append(fb.Suggestions, "Split long sentences for clarity")
	default:
		fb.Fluency = append(fb.Fluency, fmt.Sprintf("Natural flow (%.1f words per sentence)", avgSentence))
	}

	if diversity < 0.5 {
		fb.Suggestions = append(fb.Suggestions, "Vary vocabulary to avoid repetition")
	}
	if len(st.words) < 40 {
		fb.Suggestions = append(fb.Suggestions, "Add concrete examples to support each point")
	}
	if len(fb.Suggestions) == 0 {
		fb.Suggestions = append(fb.Suggestions, "Keep giving specific, example-backed feedback")
	}

	score := 0
	if len(st.words) >= 40 {
		score++
	}
	if diversity >= 0.6 {
		score++
	}
	if avgWordLen >= 4.7 {
		score++
	}
	if avgSentence >= 10 {
		score++
	}
	if grammarIssues == 0 {
		score++
	}
	fb.Level = cefrLevels[score]

	return fb, nil
}

// longestWords returns up to n distinct words of at least minLen runes,
// longest first with ties broken alphabetically.
func longestWords(distinct map[string]bool, n, minLen int) []string {
	var words []string
	for w := range distinct {
		if len([]rune(w)) >= minLen {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		li, lj := len([]rune(words[i])), len([]rune(words[j]))
		if li != lj {
			return li > lj
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// LanguageSchema defines the JSON schema for LLM language feedback.
var LanguageSchema = &llm.Schema{
	Name:        "language-feedback",
	Description: "Feedback on the English used by a manager writing performance feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vocabulary":    stringList("Observations on word choice (2-3 items)"),
			"grammar":       stringList("Observations on grammar and sentence structure (2-3 items)"),
			"pronunciation": stringList("Always state that pronunciation cannot be judged from text"),
			"fluency":       stringList("Observations on flow and rhythm (1-2 items)"),
			"suggestions":   stringList("Concrete practice suggestions (2-3 items)"),
			"level": map[string]any{
				"type":        "string",
				"description": "CEFR level with label, e.g. \"B2 (Upper Intermediate)\"",
			},
		},
		"required":             []any{"vocabulary", "grammar", "pronunciation", "fluency", "suggestions", "level"},
		"additionalProperties": false,
	},
}

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

const languageSystemPrompt = `You are an English language coach. A manager has just written performance feedback about a colleague. Assess the manager's own English, not the colleague.`

// LLMAnalyzer asks an LLM for language feedback and falls back to another
// analyzer when the call or its output fails.
type LLMAnalyzer struct {
	provider llm.Provider
	fallback Analyzer
}

// NewLLMAnalyzer creates an LLM-backed analyzer. A nil fallback uses
// HeuristicAnalyzer.
func NewLLMAnalyzer(provider llm.Provider, fallback Analyzer) *LLMAnalyzer {
	if fallback == nil {
		fallback = HeuristicAnalyzer{}
	}
	return &LLMAnalyzer{provider: provider, fallback: fallback}
}

// Analyze implements Analyzer.
func (a *LLMAnalyzer) Analyze(ctx context.Context, text string) (*LanguageFeedback, error) {
	if strings.TrimSpace(text) == "" {
		return a.fallback.Analyze(ctx, text)
	}

	ctx = llm.WithPurpose(ctx, "language-feedback")
	resp, err := a.provider.Generate(ctx, llm.Request{
		System: languageSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Feedback text:\n" + text},
		},
		Schema:      LanguageSchema,
		MaxTokens:   600,
		Temperature: 0.2,
	})
	if err != nil {
		return a.fallback.Analyze(ctx, text)
	}
	var out LanguageFeedback
	if err := llm.DecodeJSON(LanguageSchema, resp.Content, &out); err != nil {
		return a.fallback.Analyze(ctx, text)
	}
	return &out, nil
}

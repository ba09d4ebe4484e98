package llm

import "context"

// callTags label the LLM events recorded for calls made under a context.
type callTags struct {
	purpose string
	session string
}

type tagsKey struct{}

func tagsFrom(ctx context.Context) callTags {
	t, _ := ctx.Value(tagsKey{}).(callTags)
	return t
}

// WithPurpose labels calls made under ctx, e.g. "question-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	t := tagsFrom(ctx)
	t.purpose = purpose
	return context.WithValue(ctx, tagsKey{}, t)
}

// WithSession ties calls made under ctx to a feedback session, which is
// what `fido llm list --session` filters on.
func WithSession(ctx context.Context, sessionID string) context.Context {
	t := tagsFrom(ctx)
	t.session = sessionID
	return context.WithValue(ctx, tagsKey{}, t)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := tagsFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

func SessionFrom(ctx context.Context) string { return tagsFrom(ctx).session }

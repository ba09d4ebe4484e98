// Package feedback runs guided feedback sessions: one question per
// competency, a review of the resulting summary, optional adjustment of a
// single competency, and a final record.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/llm"
	"github.com/abhisek/fido/internal/questions"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ErrAlreadyStarted  = errors.New("session already started")
	ErrNotStarted      = errors.New("session not started")
	ErrSessionComplete = errors.New("session is complete")
	ErrSessionClosed   = errors.New("session was closed")
	ErrTurnInFlight    = errors.New("a turn is already in progress")
	ErrInvalidConfig   = errors.New("invalid session config")
)

// Config describes one feedback session.
type Config struct {
	Assessor string
	Target   string
	Catalog  competency.Catalog

	// Policy scores repeated answers for the same competency.
	Policy competency.Policy

	// AffirmativeTokens select adjustment during review. Default: "yes".
	AffirmativeTokens []string

	Strengths    []string
	Improvements []string
}

// Validate checks the config and fills defaults.
func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Assessor) == "" {
		errs = append(errs, "assessor name is required")
	}
	if strings.TrimSpace(c.Target) == "" {
		errs = append(errs, "target name is required")
	}
	if c.Catalog.Len() == 0 {
		errs = append(errs, "competency catalog is empty")
	}
	if c.Policy == "" {
		c.Policy = competency.PolicyAccumulate
	}
	if _, err := competency.ParsePolicy(string(c.Policy)); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	if len(c.AffirmativeTokens) == 0 {
		c.AffirmativeTokens = []string{"yes"}
	}
	if c.Strengths == nil {
		c.Strengths = competency.DefaultStrengths
	}
	if c.Improvements == nil {
		c.Improvements = competency.DefaultImprovements
	}
	return nil
}

// Observer is notified of session activity. Calls happen outside the
// session lock.
type Observer interface {
	QuestionFetched(ctx context.Context, area competency.Area, elapsed time.Duration, err error)
	PhaseChanged(ctx context.Context, from, to Phase)
	Completed(ctx context.Context, rec Record, deliverErr error)
}

// Turn reports what one Start or Submit call did.
type Turn struct {
	Phase    Phase
	Current  competency.Area
	Messages []Message // appended by this call, in order
	Choices  []string
	Record   *Record

	// QuestionErr is set when the question source failed and a fallback
	// question was used.
	QuestionErr error

	// AnalysisErr is set when the language analyzer failed; the record then
	// carries whatever notes the analyzer returned, possibly none.
	AnalysisErr error
}

// Option configures a Session.
type Option func(*Session)

// WithAnalyzer sets the language analyzer. Default: HeuristicAnalyzer.
func WithAnalyzer(a Analyzer) Option {
	return func(s *Session) { s.analyzer = a }
}

// WithSink sets where the completed record is delivered.
func WithSink(sink Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithID sets the session ID instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is one guided feedback conversation. All methods are safe for
// concurrent use; at most one Start or Submit runs at a time.
type Session struct {
	id       string
	cfg      Config
	source   questions.Source
	analyzer Analyzer
	sink     Sink
	observer Observer
	now      func() time.Time

	// Cancelled by Close so abandoned question fetches stop early.
	ctx    context.Context
	cancel context.CancelFunc

	inFlight atomic.Bool

	mu         sync.Mutex
	fsm        *phaseMachine
	started    bool
	closed     bool
	current    competency.Area
	revisiting bool
	answered   map[competency.Area]bool
	scores     competency.ScoreMap
	transcript []Message
	choices    []string
	summary    string
	record     *Record
}

// New creates a session. source supplies every question.
func New(cfg Config, source questions.Source, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("question source is required")
	}

	s := &Session{
		cfg:      cfg,
		source:   source,
		analyzer: HeuristicAnalyzer{},
		now:      time.Now,
		answered: make(map[competency.Area]bool),
		scores:   competency.NewScoreMap(cfg.Catalog),
		current:  cfg.Catalog.First(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}

	fsm, err := newPhaseMachine(s.id)
	if err != nil {
		return nil, err
	}
	s.fsm = fsm
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Config returns the validated session config.
func (s *Session) Config() Config { return s.cfg }

// Start greets the assessor and asks the first question.
func (s *Session) Start(ctx context.Context) (Turn, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Turn{}, ErrTurnInFlight
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Turn{}, ErrSessionClosed
	}
	if s.started {
		s.mu.Unlock()
		return Turn{}, ErrAlreadyStarted
	}
	s.started = true
	mark := len(s.transcript)
	s.appendLocked(SpeakerAssistant, greeting(s.cfg.Assessor, s.cfg.Target), "", nil)
	area := s.current
	// The first question is asked with no prior context.
	req := questions.Request{Assessor: s.cfg.Assessor, Target: s.cfg.Target, Competency: area}
	s.mu.Unlock()

	return s.askAndAppend(ctx, req, mark)
}

// Submit handles one assessor input according to the current phase.
func (s *Session) Submit(ctx context.Context, input string) (Turn, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Turn{}, ErrTurnInFlight
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return Turn{}, ErrSessionClosed
	case !s.started:
		s.mu.Unlock()
		return Turn{}, ErrNotStarted
	}

	switch s.fsm.Current() {
	case PhaseCollecting:
		return s.submitAnswer(ctx, input)
	case PhaseReviewing:
		return s.submitReview(ctx, input)
	case PhaseAdjusting:
		return s.submitChoice(ctx, input)
	default:
		s.mu.Unlock()
		return Turn{}, ErrSessionComplete
	}
}

// submitAnswer is entered with s.mu held.
func (s *Session) submitAnswer(ctx context.Context, input string) (Turn, error) {
	mark := len(s.transcript)
	area := s.current
	s.appendLocked(SpeakerAssessor, input, area, nil)
	s.scores = s.cfg.Policy.Apply(s.scores, area, s.answered[area])
	s.answered[area] = true

	next, more := s.cfg.Catalog.Next(area)
	if s.revisiting || !more {
		s.revisiting = false
		return s.enterReviewLocked(ctx, mark)
	}

	s.current = next
	req := s.questionRequestLocked()
	s.mu.Unlock()

	return s.askAndAppend(ctx, req, mark)
}

// submitReview is entered with s.mu held.
func (s *Session) submitReview(ctx context.Context, input string) (Turn, error) {
	mark := len(s.transcript)
	s.appendLocked(SpeakerAssessor, input, "", nil)

	if isAffirmative(input, s.cfg.AffirmativeTokens) {
		s.mustFireLocked(eventAdjust)
		s.choices = s.cfg.Catalog.Names()
		s.appendLocked(SpeakerAssistant, adjustPrompt, "", s.choices)
		turn := s.turnLocked(mark)
		s.mu.Unlock()
		s.notifyPhase(ctx, PhaseReviewing, PhaseAdjusting)
		return turn, nil
	}

	answers := s.answersLocked()
	written := s.assessorTextLocked()
	s.mu.Unlock()

	// Analysis may call out to an LLM; inFlight keeps other turns out.
	var notes *LanguageFeedback
	var analysisErr error
	if s.analyzer != nil {
		notes, analysisErr = s.analyzer.Analyze(llm.WithSession(ctx, s.id), strings.Join(written, "\n"))
		if analysisErr != nil {
			analysisErr = fmt.Errorf("analyze language: %w", analysisErr)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Turn{}, ErrSessionClosed
	}
	rec := s.buildRecordLocked(answers, notes)
	s.record = &rec
	s.mustFireLocked(eventConfirm)
	s.choices = nil
	s.appendLocked(SpeakerAssistant, closingMessage(s.cfg.Target), "", nil)
	turn := s.turnLocked(mark)
	turn.AnalysisErr = analysisErr
	s.mu.Unlock()

	s.notifyPhase(ctx, PhaseReviewing, PhaseComplete)

	var deliverErr error
	if s.sink != nil {
		if err := s.sink.Deliver(ctx, rec); err != nil {
			deliverErr = fmt.Errorf("deliver feedback record: %w", err)
		}
	}
	if s.observer != nil {
		s.observer.Completed(ctx, rec, deliverErr)
	}
	return turn, deliverErr
}

// submitChoice is entered with s.mu held.
func (s *Session) submitChoice(ctx context.Context, input string) (Turn, error) {
	mark := len(s.transcript)
	s.appendLocked(SpeakerAssessor, input, "", nil)

	area, ok := resolveCompetency(s.cfg.Catalog, input)
	if !ok {
		s.appendLocked(SpeakerAssistant, unmatchedReply, "", s.choices)
		turn := s.turnLocked(mark)
		s.mu.Unlock()
		return turn, nil
	}

	s.current = area
	s.revisiting = true
	s.choices = nil
	s.mustFireLocked(eventChoose)
	req := s.questionRequestLocked()
	s.mu.Unlock()

	s.notifyPhase(ctx, PhaseAdjusting, PhaseCollecting)
	return s.askAndAppend(ctx, req, mark)
}

// enterReviewLocked renders the summary and moves to review. It releases
// s.mu.
func (s *Session) enterReviewLocked(ctx context.Context, mark int) (Turn, error) {
	s.summary = competency.RenderSummary(s.cfg.Target, s.cfg.Catalog, s.scores, s.cfg.Strengths, s.cfg.Improvements)
	s.mustFireLocked(eventReview)
	s.choices = []string{ChoiceAdjust, ChoiceConfirm}
	note := newMessage(s.now(), SpeakerAssistant, reviewPrompt(s.cfg.Target, s.summary), "", s.choices)
	note.ReviewNote = true
	s.transcript = append(s.transcript, note)
	turn := s.turnLocked(mark)
	s.mu.Unlock()

	s.notifyPhase(ctx, PhaseCollecting, PhaseReviewing)
	return turn, nil
}

// askAndAppend fetches a question without holding the lock, then appends it
// (or a fallback) unless the session was closed meanwhile.
func (s *Session) askAndAppend(ctx context.Context, req questions.Request, mark int) (Turn, error) {
	fetchCtx, stop := mergeCancel(ctx, s.ctx)
	defer stop()
	fetchCtx = llm.WithSession(fetchCtx, s.id)

	start := s.now()
	text, err := s.source.NextQuestion(fetchCtx, req)
	elapsed := s.now().Sub(start)
	if err == nil && strings.TrimSpace(text) == "" {
		err = questions.ErrEmptyQuestion
	}
	if s.observer != nil {
		s.observer.QuestionFetched(ctx, req.Competency, elapsed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Turn{}, ErrSessionClosed
	}
	if err != nil {
		text = questions.Fallback(req.Competency, s.cfg.Target)
	}
	s.appendLocked(SpeakerAssistant, text, req.Competency, nil)

	turn := s.turnLocked(mark)
	turn.QuestionErr = err
	return turn, nil
}

// Close abandons the session. An in-flight question fetch is cancelled and
// its result discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Busy reports whether a turn is being processed.
func (s *Session) Busy() bool { return s.inFlight.Load() }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.Current()
}

// Current returns the competency being asked about.
func (s *Session) Current() competency.Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Transcript returns a copy of every message so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMessages(s.transcript)
}

// Scores returns a copy of the current scores.
func (s *Session) Scores() competency.ScoreMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores.Clone()
}

// Choices returns the options offered for the next input, if any.
func (s *Session) Choices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneStrings(s.choices)
}

// Summary returns the latest rendered summary, empty before review.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Record returns the completed record. ok is false until Complete.
func (s *Session) Record() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return Record{}, false
	}
	return *s.record, true
}

func (s *Session) appendLocked(speaker Speaker, text string, area competency.Area, choices []string) {
	s.transcript = append(s.transcript, newMessage(s.now(), speaker, text, area, choices))
}

func (s *Session) questionRequestLocked() questions.Request {
	return questions.Request{
		Assessor:   s.cfg.Assessor,
		Target:     s.cfg.Target,
		Competency: s.current,
		Transcript: toLines(s.transcript),
	}
}

func (s *Session) turnLocked(mark int) Turn {
	t := Turn{
		Phase:    s.fsm.Current(),
		Current:  s.current,
		Messages: cloneMessages(s.transcript[mark:]),
		Choices:  cloneStrings(s.choices),
	}
	if s.record != nil {
		rec := *s.record
		t.Record = &rec
	}
	return t
}

// mustFireLocked advances the phase machine. Callers only fire events that
// are legal in the current phase.
func (s *Session) mustFireLocked(event string) {
	if err := s.fsm.Fire(event); err != nil {
		panic(err)
	}
}

func (s *Session) notifyPhase(ctx context.Context, from, to Phase) {
	if s.observer != nil {
		s.observer.PhaseChanged(ctx, from, to)
	}
}

// answersLocked returns the assessor's answers to competency questions.
func (s *Session) answersLocked() []string {
	var out []string
	for _, m := range s.transcript {
		if m.Speaker == SpeakerAssessor && m.Competency != "" {
			out = append(out, m.Text)
		}
	}
	return out
}

// assessorTextLocked returns everything the assessor wrote, review replies
// and adjustment picks included.
func (s *Session) assessorTextLocked() []string {
	var out []string
	for _, m := range s.transcript {
		if m.Speaker == SpeakerAssessor {
			out = append(out, m.Text)
		}
	}
	return out
}

func (s *Session) buildRecordLocked(answers []string, notes *LanguageFeedback) Record {
	words := 0
	for _, a := range answers {
		words += len(strings.Fields(a))
	}
	return Record{
		ID:            ulid.Make().String(),
		SessionID:     s.id,
		Assessor:      s.cfg.Assessor,
		Target:        s.cfg.Target,
		Scores:        s.scores.Clone(),
		Strengths:     cloneStrings(s.cfg.Strengths),
		Improvements:  cloneStrings(s.cfg.Improvements),
		Summary:       s.summary,
		LanguageNotes: notes,
		AnswerCount:   len(answers),
		AnswerWords:   words,
		CompletedAt:   s.now().UTC(),
	}
}

// resolveCompetency matches input to a catalog area by name, 1-based
// index, or a unique case-insensitive fragment.
func resolveCompetency(c competency.Catalog, input string) (competency.Area, bool) {
	in := strings.TrimSpace(input)
	if in == "" {
		return "", false
	}
	areas := c.Areas()
	for _, a := range areas {
		if strings.EqualFold(string(a), in) {
			return a, true
		}
	}
	if n, err := strconv.Atoi(in); err == nil {
		if n >= 1 && n <= len(areas) {
			return areas[n-1], true
		}
		return "", false
	}

	lower := strings.ToLower(in)
	var match competency.Area
	found := 0
	for _, a := range areas {
		if strings.Contains(strings.ToLower(string(a)), lower) {
			match = a
			found++
		}
	}
	if found != 1 {
		return "", false
	}
	return match, true
}

// mergeCancel returns a context cancelled when either parent is.
func mergeCancel(ctx, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(other, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

// Package quiz implements the trivia quiz widget core, the one genuinely
// stateful flow: Start -> Loading -> Question(i) -> Feedback(i) ->
// Question(i+1) | Result -> Start.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
	"widgetkit/notify"
	"widgetkit/render"
)

// Phase identifies where the quiz session is in its flow.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhaseLoading  Phase = "loading"
	PhaseQuestion Phase = "question"
	PhaseFeedback Phase = "feedback"
	PhaseResult   Phase = "result"
)

// Staggered-feedback delays, surfaced as view data instead of ad hoc timers
// so the UI layer owns the scheduling and tests own the clock.
const (
	RevealDelay  = 200 * time.Millisecond
	AdvanceDelay = 300 * time.Millisecond
)

// ErrBusy rejects a Begin while a question fetch is already outstanding.
var ErrBusy = errors.New("quiz: a question fetch is already in flight")

// QuestionSource supplies one round of questions. *fetch.TriviaClient
// implements it.
type QuestionSource interface {
	Questions(ctx context.Context, category, difficulty string) ([]domain.Question, error)
}

// Quiz is one quiz session. Sessions are never persisted; a page reload is a
// fresh start.
type Quiz struct {
	source  QuestionSource
	notices *notify.Center
	logger  *log.Logger
	now     func() time.Time

	busy        atomic.Bool
	phase       Phase
	questions   []domain.Question
	index       int
	score       int
	selected    string
	hasSelected bool
}

// New creates a Quiz in the start phase.
func New(source QuestionSource, logger *log.Logger) *Quiz {
	if source == nil {
		panic("quiz.New: source is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Quiz{
		source:  source,
		notices: notify.NewCenter(),
		logger:  logger,
		now:     time.Now,
		phase:   PhaseStart,
	}
}

// Begin fetches a fresh round and moves to the first question. It is not
// re-entrant: a second call while the fetch is outstanding fails fast so the
// UI can keep the start control disabled. A failed fetch returns the session
// to the start phase with an error notice and no partial state.
func (q *Quiz) Begin(ctx context.Context, category, difficulty string) error {
	if !q.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer q.busy.Store(false)

	q.notices.Clear()
	q.phase = PhaseLoading

	questions, err := q.source.Questions(ctx, category, difficulty)
	if err != nil {
		q.phase = PhaseStart
		q.notices.Push(notify.Error,
			"Failed to load questions. Please check your internet connection and try again.",
			notify.FetchErrorTTL, q.now())
		return err
	}

	q.questions = questions
	q.index = 0
	q.score = 0
	q.selected = ""
	q.hasSelected = false
	q.phase = PhaseQuestion
	return nil
}

// Select locks in an answer for the current question. Only the first
// selection counts: once locked, further clicks are ignored, so the score
// moves at most once per question.
func (q *Quiz) Select(choice string) {
	if q.phase != PhaseQuestion || q.hasSelected {
		return
	}
	q.selected = choice
	q.hasSelected = true
	if choice == q.questions[q.index].Answer {
		q.score++
	}
	q.phase = PhaseFeedback
}

// Next advances past the feedback screen to the next question, or to the
// result screen after the last one. Outside feedback it is a no-op.
func (q *Quiz) Next() {
	if q.phase != PhaseFeedback {
		return
	}
	q.index++
	q.selected = ""
	q.hasSelected = false
	if q.index < len(q.questions) {
		q.phase = PhaseQuestion
	} else {
		q.phase = PhaseResult
	}
}

// Restart discards the round and returns to the start screen.
func (q *Quiz) Restart() {
	q.questions = nil
	q.index = 0
	q.score = 0
	q.selected = ""
	q.hasSelected = false
	q.phase = PhaseStart
	q.notices.Clear()
}

// Phase reports the current phase.
func (q *Quiz) Phase() Phase {
	return q.phase
}

// Score reports correct answers so far.
func (q *Quiz) Score() int {
	return q.score
}

// ChoiceOutcome colors a choice during feedback.
type ChoiceOutcome string

const (
	OutcomeNone      ChoiceOutcome = ""
	OutcomeCorrect   ChoiceOutcome = "correct"
	OutcomeIncorrect ChoiceOutcome = "incorrect"
)

// Choice is one rendered answer option.
type Choice struct {
	Text    string
	Outcome ChoiceOutcome
}

// View is the quiz projection for the current phase.
type View struct {
	Phase          Phase
	QuestionNumber string
	Prompt         string
	Choices        []Choice
	ProgressPct    float64
	ScoreLine      string
	StartEnabled   bool
	NextEnabled    bool
	RestartEnabled bool
	RevealDelay    time.Duration
	AdvanceDelay   time.Duration
	Notices        []notify.Notice
}

// View projects the session. Rendering twice without a transition in between
// yields the same output.
func (q *Quiz) View() View {
	v := View{
		Phase:        q.phase,
		RevealDelay:  RevealDelay,
		AdvanceDelay: AdvanceDelay,
		Notices:      q.notices.Active(q.now()),
	}

	switch q.phase {
	case PhaseStart:
		v.StartEnabled = true
	case PhaseLoading:
		// start control stays disabled while the fetch is outstanding
	case PhaseQuestion, PhaseFeedback:
		cur := q.questions[q.index]
		v.QuestionNumber = fmt.Sprintf("Question %d of %d", q.index+1, len(q.questions))
		v.Prompt = cur.Prompt
		v.ProgressPct = render.Progress(q.index+1, len(q.questions))
		v.Choices = make([]Choice, len(cur.Choices))
		for i, text := range cur.Choices {
			ch := Choice{Text: text}
			if q.phase == PhaseFeedback {
				switch {
				case text == cur.Answer:
					ch.Outcome = OutcomeCorrect
				case text == q.selected:
					ch.Outcome = OutcomeIncorrect
				}
			}
			v.Choices[i] = ch
		}
		v.NextEnabled = q.phase == PhaseFeedback
	case PhaseResult:
		n := len(q.questions)
		pct := 0
		if n > 0 {
			pct = int(math.Round(float64(q.score) / float64(n) * 100))
		}
		v.ScoreLine = fmt.Sprintf("%d/%d (%d%%)", q.score, n, pct)
		v.ProgressPct = 100
		v.RestartEnabled = true
	}
	return v
}

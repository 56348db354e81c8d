package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/lifeweeks/lifeweeks/internal/model"
)

// Step identifies the pipeline state.
type Step int

const (
	// StepComposing collects the user's free-text reflection topic.
	StepComposing Step = iota
	// StepInterviewing collects one answer per generated question.
	StepInterviewing
	// StepReviewing shows the synthesized entry before saving.
	StepReviewing
)

// User-facing failure messages, mirroring the step that failed.
const (
	msgTalkingPointsFailed = "Failed to generate talking points. Please check your API key and try again."
	msgSynthesisFailed     = "Failed to create journal entry. Please check your API key and try again."
)

// Pipeline drives the three-step assisted journaling workflow:
// Composing -> Interviewing -> Reviewing. It is transient (rebuilt each
// time the journal view opens) and not reentrant: while a call is
// outstanding the Begin methods refuse to start another.
type Pipeline struct {
	svc Service

	step      Step
	topic     string
	questions []string
	answers   []string
	draft     model.GeneratedEntry
	hasDraft  bool

	loading bool
	errMsg  string
}

// NewPipeline builds a pipeline in the Composing state.
func NewPipeline(svc Service) *Pipeline {
	return &Pipeline{svc: svc}
}

// Step returns the current state.
func (p *Pipeline) Step() Step { return p.step }

// Loading reports whether a service call is outstanding.
func (p *Pipeline) Loading() bool { return p.loading }

// ErrorMessage returns the current human-readable error, if any.
func (p *Pipeline) ErrorMessage() string { return p.errMsg }

// Topic returns the user's reflection text.
func (p *Pipeline) Topic() string { return p.topic }

// SetTopic updates the reflection text while composing.
func (p *Pipeline) SetTopic(topic string) {
	if p.step == StepComposing && !p.loading {
		p.topic = topic
	}
}

// Questions returns the generated questions.
func (p *Pipeline) Questions() []string {
	out := make([]string, len(p.questions))
	copy(out, p.questions)
	return out
}

// Answers returns the current answers, one slot per question.
func (p *Pipeline) Answers() []string {
	out := make([]string, len(p.answers))
	copy(out, p.answers)
	return out
}

// SetAnswer updates one answer slot while interviewing.
func (p *Pipeline) SetAnswer(i int, answer string) {
	if p.step != StepInterviewing || p.loading {
		return
	}
	if i < 0 || i >= len(p.answers) {
		return
	}
	p.answers[i] = answer
}

// Draft returns the synthesized entry and whether one exists.
func (p *Pipeline) Draft() (model.GeneratedEntry, bool) {
	return p.draft, p.hasDraft
}

// CanRequestTalkingPoints reports whether the composing step may submit.
func (p *Pipeline) CanRequestTalkingPoints() bool {
	return p.step == StepComposing && !p.loading && strings.TrimSpace(p.topic) != ""
}

// CanCreateEntry reports whether every answer is non-empty after trimming.
func (p *Pipeline) CanCreateEntry() bool {
	if p.step != StepInterviewing || p.loading || len(p.answers) == 0 {
		return false
	}
	for _, a := range p.answers {
		if strings.TrimSpace(a) == "" {
			return false
		}
	}
	return true
}

// BeginTalkingPoints marks the talking-points call as outstanding.
// Returns false when the pipeline is not ready (wrong step, empty
// topic, or a call already in flight).
func (p *Pipeline) BeginTalkingPoints() bool {
	if !p.CanRequestTalkingPoints() {
		return false
	}
	p.loading = true
	p.errMsg = ""
	return true
}

// FinishTalkingPoints applies the outcome of the talking-points call.
// On failure the pipeline stays in Composing with the topic preserved.
func (p *Pipeline) FinishTalkingPoints(questions []string, err error) {
	p.loading = false
	if err != nil {
		p.errMsg = failureMessage(err, msgTalkingPointsFailed)
		return
	}
	p.questions = questions
	p.answers = make([]string, len(questions))
	p.step = StepInterviewing
}

// BeginSynthesis marks the synthesis call as outstanding.
func (p *Pipeline) BeginSynthesis() bool {
	if !p.CanCreateEntry() {
		return false
	}
	p.loading = true
	p.errMsg = ""
	return true
}

// FinishSynthesis applies the outcome of the synthesis call. On failure
// the pipeline stays in Interviewing with all answers preserved.
func (p *Pipeline) FinishSynthesis(entry model.GeneratedEntry, err error) {
	p.loading = false
	if err != nil {
		p.errMsg = failureMessage(err, msgSynthesisFailed)
		return
	}
	p.draft = entry
	p.hasDraft = true
	p.step = StepReviewing
}

// QuestionAnswers pairs the questions with the current answers for the
// synthesis prompt.
func (p *Pipeline) QuestionAnswers() []QA {
	qa := make([]QA, 0, len(p.questions))
	for i, q := range p.questions {
		answer := ""
		if i < len(p.answers) {
			answer = p.answers[i]
		}
		qa = append(qa, QA{Question: q, Answer: answer})
	}
	return qa
}

// RequestTalkingPoints runs the first step synchronously: validate,
// call the service, and transition. The TUI splits this into
// Begin/Finish around a background command instead.
func (p *Pipeline) RequestTalkingPoints(ctx context.Context) error {
	if !p.BeginTalkingPoints() {
		return errors.New("assistant: pipeline not ready for talking points")
	}
	questions, err := p.svc.TalkingPoints(ctx, p.topic)
	p.FinishTalkingPoints(questions, err)
	return err
}

// CreateEntry runs the synthesis step synchronously.
func (p *Pipeline) CreateEntry(ctx context.Context) error {
	if !p.BeginSynthesis() {
		return errors.New("assistant: pipeline not ready for synthesis")
	}
	entry, err := p.svc.Synthesize(ctx, p.topic, p.QuestionAnswers())
	p.FinishSynthesis(entry, err)
	return err
}

// Service returns the underlying language service.
func (p *Pipeline) Service() Service { return p.svc }

// EditAnswers returns from Reviewing to Interviewing with all answers
// preserved.
func (p *Pipeline) EditAnswers() {
	if p.step != StepReviewing || p.loading {
		return
	}
	p.step = StepInterviewing
	p.errMsg = ""
}

// Cancel discards all in-progress state and returns to Composing.
func (p *Pipeline) Cancel() {
	if p.loading {
		return
	}
	p.reset()
}

// CommitDraft hands the reviewed entry to the caller and resets the
// pipeline to Composing. The caller is responsible for persisting it.
func (p *Pipeline) CommitDraft() (model.GeneratedEntry, bool) {
	if p.step != StepReviewing || !p.hasDraft || p.loading {
		return model.GeneratedEntry{}, false
	}
	draft := p.draft
	p.reset()
	return draft, true
}

func (p *Pipeline) reset() {
	p.step = StepComposing
	p.topic = ""
	p.questions = nil
	p.answers = nil
	p.draft = model.GeneratedEntry{}
	p.hasDraft = false
	p.errMsg = ""
}

func failureMessage(err error, fallback string) string {
	if errors.Is(err, ErrMissingAPIKey) {
		return "No API key configured. Set " + APIKeyEnv + " or add api-key to the config file."
	}
	return fallback
}

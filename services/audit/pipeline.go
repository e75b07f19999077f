// Package audit sequences the three audit stages: intent classification,
// business resolution, and leak evaluation plus narrative.
package audit

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Envapa08241978/soynexo-servidor-final/models"
	ai "github.com/Envapa08241978/soynexo-servidor-final/services/intelligence"
	"github.com/Envapa08241978/soynexo-servidor-final/services/places"
	"github.com/Envapa08241978/soynexo-servidor-final/utils"
)

// NotFoundMessage is shown when the directory has no match.
const NotFoundMessage = "🚫 No encontré ese negocio en el mapa. Intenta ser más específico (ej: 'Tacos El Pariente en Navojoa')."

type State string

const (
	StateStart        State = "start"
	StateClassifying  State = "classifying"
	StateChatDone     State = "chat_done"
	StateResolving    State = "resolving"
	StateNotFoundDone State = "not_found_done"
	StateEvaluating   State = "evaluating"
	StateNarrating    State = "narrating"
	StateReportDone   State = "report_done"
	StateErrorDone    State = "error_done"
)

// IntentClassifier always returns a usable intent; a non-nil error only
// reports that it degraded to search.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (models.Intent, error)
}

type BusinessResolver interface {
	Resolve(ctx context.Context, name, city string) (*models.BusinessProfile, error)
}

type LeakEvaluator interface {
	Evaluate(profile *models.BusinessProfile) ([]models.LeakFinding, error)
	Summarize(findings []models.LeakFinding) models.LossVerdict
}

type NarrativeRenderer interface {
	Render(ctx context.Context, profile models.BusinessProfile, findings []models.LeakFinding, verdict models.LossVerdict) (string, error)
}

// Pipeline holds only read-only collaborators and is safe for concurrent use.
type Pipeline struct {
	classifier IntentClassifier
	resolver   BusinessResolver
	evaluator  LeakEvaluator
	narrator   NarrativeRenderer
	metrics    *Metrics
	logger     *zap.Logger
}

func NewPipeline(
	classifier IntentClassifier,
	resolver BusinessResolver,
	evaluator LeakEvaluator,
	narrator NarrativeRenderer,
	metrics *Metrics,
	logger *zap.Logger,
) *Pipeline {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		classifier: classifier,
		resolver:   resolver,
		evaluator:  evaluator,
		narrator:   narrator,
		metrics:    metrics,
		logger:     logger,
	}
}

// run is the state of one invocation. It is never shared between requests.
type run struct {
	p      *Pipeline
	state  State
	logger *zap.Logger
}

func (r *run) enter(s State) time.Time {
	r.logger.Debug("audit state transition", zap.String("from", string(r.state)), zap.String("to", string(s)))
	r.state = s
	return time.Now()
}

func (r *run) observe(stage State, started time.Time) {
	r.p.metrics.StageDuration.WithLabelValues(string(stage)).Observe(time.Since(started).Seconds())
}

func (r *run) fail(err error) error {
	stage := r.state
	r.enter(StateErrorDone)
	r.p.metrics.Outcomes.WithLabelValues("error").Inc()
	r.logger.Error("audit pipeline failed", zap.String("stage", string(stage)), zap.Error(err))
	return &StageError{Stage: stage, Err: err}
}

func (r *run) done(s State, outcome models.AuditOutcome) (models.AuditOutcome, error) {
	r.enter(s)
	r.p.metrics.Outcomes.WithLabelValues(string(outcome.Kind())).Inc()
	return outcome, nil
}

// Run executes one audit. It returns exactly one of: a chat outcome, a
// not-found outcome, a report outcome, or an error. Request validation
// failures come back as *models.ClientInputError; every other error is a
// *StageError.
func (p *Pipeline) Run(ctx context.Context, req models.AuditRequest) (models.AuditOutcome, error) {
	r := &run{
		p:     p,
		state: StateStart,
		logger: utils.LoggerFromContext(ctx, p.logger).With(
			zap.String("businessName", req.BusinessName),
			zap.String("city", req.City),
		),
	}

	if err := req.Validate(); err != nil {
		p.metrics.Outcomes.WithLabelValues("client_error").Inc()
		return nil, err
	}

	started := r.enter(StateClassifying)
	intent, err := p.classifier.Classify(ctx, req.BusinessName)
	r.observe(StateClassifying, started)
	if err != nil {
		var degraded *ai.ClassificationDegraded
		if !errors.As(err, &degraded) {
			return nil, r.fail(err)
		}
		p.metrics.Degraded.Inc()
		r.logger.Warn("intent classification degraded, continuing as search", zap.Error(err))
		intent = models.SearchIntent()
	}
	if intent.IsChat() {
		return r.done(StateChatDone, models.OutcomeChat{Reply: intent.Reply})
	}

	started = r.enter(StateResolving)
	profile, err := p.resolver.Resolve(ctx, req.BusinessName, req.City)
	r.observe(StateResolving, started)
	if errors.Is(err, places.ErrNotFound) {
		return r.done(StateNotFoundDone, models.OutcomeNotFound{Message: NotFoundMessage})
	}
	if err != nil {
		return nil, r.fail(err)
	}
	r.logger.Info("business resolved", zap.String("place", profile.Name), zap.Int("reviews", profile.ReviewCount))

	started = r.enter(StateEvaluating)
	findings, err := p.evaluator.Evaluate(profile)
	if err != nil {
		return nil, r.fail(err)
	}
	verdict := p.evaluator.Summarize(findings)
	r.observe(StateEvaluating, started)

	started = r.enter(StateNarrating)
	narrative, err := p.narrator.Render(ctx, *profile, findings, verdict)
	r.observe(StateNarrating, started)
	if err != nil {
		return nil, r.fail(err)
	}

	return r.done(StateReportDone, models.OutcomeReport{
		Profile:   *profile,
		Findings:  findings,
		Verdict:   verdict,
		Narrative: narrative,
	})
}

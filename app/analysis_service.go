// Package app wires the analysis pipeline: profile the dataset, generate
// questions, answer them, and package the boundary output.
package app

import (
	"context"
	"time"

	"autostat/adapters/stats/engine"
	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal"
	"autostat/internal/answers"
	"autostat/internal/profiling"
	"autostat/internal/questions"
)

// Options carries the configuration surface of one analysis pass.
type Options struct {
	Alpha              float64
	MaxCorrQuestions   int
	MaxCategoryLevels  int
	NormalitySampleCap int
	Seed               int64
	Workers            int
}

// DefaultOptions returns the published defaults.
func DefaultOptions() Options {
	return Options{
		Alpha:              0.05,
		MaxCorrQuestions:   5,
		MaxCategoryLevels:  10,
		NormalitySampleCap: engine.DefaultNormalitySampleCap,
		Seed:               42,
		Workers:            1,
	}
}

// Analysis is the boundary output of one pipeline run: the generated
// questions, the ordered answers, and the hypothesis-test subset.
type Analysis struct {
	RunID     core.RunID               `json:"run_id"`
	CreatedAt time.Time                `json:"created_at"`
	Profile   profiling.DatasetProfile `json:"profile"`
	Questions []string                 `json:"questions"`
	Answers   *stats.AnswerSet         `json:"-"`
	Alpha     float64                  `json:"alpha"`
}

// AnswerPairs returns the answers in insertion order.
func (a *Analysis) AnswerPairs() []stats.Answer {
	return a.Answers.All()
}

// HypothesisResults returns the answers rendered from hypothesis tests.
func (a *Analysis) HypothesisResults() []stats.Answer {
	return a.Answers.HypothesisResults()
}

// AnalysisService runs the full pass over an immutable dataset snapshot.
type AnalysisService struct {
	opts         Options
	profiler     *profiling.Profiler
	selector     *engine.TestSelector
	generator    *questions.Generator
	orchestrator *answers.Orchestrator
	log          *internal.Logger
}

// NewAnalysisService assembles the pipeline from options.
func NewAnalysisService(opts Options, log *internal.Logger) *AnalysisService {
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = 0.05
	}
	if log == nil {
		log = internal.NewDefaultLogger()
	}

	oracle := engine.NewNormalityOracle(opts.Seed).WithSampleCap(opts.NormalitySampleCap)
	selector := engine.NewTestSelector(oracle)
	generator := questions.NewGenerator(questions.Config{
		MaxCorrQuestions:  opts.MaxCorrQuestions,
		MaxCategoryLevels: opts.MaxCategoryLevels,
	}, selector)
	orchestrator := answers.NewOrchestrator(answers.Config{
		Alpha:   opts.Alpha,
		Workers: opts.Workers,
	}, selector)

	return &AnalysisService{
		opts:         opts,
		profiler:     profiling.NewProfiler(),
		selector:     selector,
		generator:    generator,
		orchestrator: orchestrator,
		log:          log,
	}
}

// Run executes profile, generate and answer against the dataset. The
// dataset is treated as read-only for the duration of the pass; the call
// never fails on individual questions.
func (s *AnalysisService) Run(ctx context.Context, ds *dataset.Dataset) (*Analysis, error) {
	s.log.Info("profiling dataset: %d rows, %d columns", ds.RowCount(), ds.ColumnCount())
	profile := s.profiler.Profile(ds)

	qs := s.generator.Generate(ds, profile)
	s.log.Info("generated %d questions", len(qs))

	set := s.orchestrator.Answer(ctx, ds, qs)
	s.log.Info("answered %d of %d questions", set.Len(), len(qs))
	s.log.Debug("hypothesis test answers: %d", len(set.HypothesisResults()))

	texts := make([]string, len(qs))
	for i, q := range qs {
		texts[i] = q.Text
	}

	return &Analysis{
		RunID:     core.RunID(core.NewID()),
		CreatedAt: time.Now(),
		Profile:   profile,
		Questions: texts,
		Answers:   set,
		Alpha:     s.opts.Alpha,
	}, nil
}

// AnswerExternal evaluates externally supplied free-form questions
// against the dataset, using keyword dispatch and quoted-name extraction.
func (s *AnalysisService) AnswerExternal(ctx context.Context, ds *dataset.Dataset, texts []string) *stats.AnswerSet {
	qs := make([]stats.Question, len(texts))
	for i, t := range texts {
		qs[i] = stats.NewQuestion(t)
	}
	return s.orchestrator.Answer(ctx, ds, qs)
}

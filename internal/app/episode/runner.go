// Package episode hosts the build component: it serialises resets and steps,
// persists each step's batch and archives the dense log.
package episode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"urbandesign/internal/app/build"
	"urbandesign/internal/app/ports"
	"urbandesign/internal/domain/economy"
)

var (
	ErrNotStarted     = errors.New("episode not started")
	ErrEpisodeAborted = errors.New("episode aborted")
	ErrEpisodeDone    = errors.New("episode finished")
)

type Deps struct {
	Component *build.Component
	Agents    ports.AgentDirectory
	Layout    ports.LayoutResetter
	Policy    ports.ActionSource
	History   ports.BuildHistoryRepository
	TxManager ports.TxManager
	DenseLog  ports.DenseLogSink
	Metrics   ports.EpisodeMetrics
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
}

type Runner struct {
	deps   Deps
	length int

	mu        sync.Mutex
	episodeID string
	step      int
	aborted   error
}

type ResetResult struct {
	EpisodeID string                         `json:"episode_id"`
	Samples   map[string]economy.SkillSample `json:"skill_samples"`
}

type StepRequest struct {
	// Actions overrides the policy for this step when non-nil.
	Actions map[string]int
}

type StepResult struct {
	EpisodeID string             `json:"episode_id"`
	Step      int                `json:"step"`
	Builds    economy.BuildBatch `json:"builds"`
	Done      bool               `json:"done"`
}

// NewRunner seeds every agent's build state fields. An agent class the
// component claims but cannot describe is a setup error.
func NewRunner(deps Deps, length int) (*Runner, error) {
	if deps.Component == nil || deps.Agents == nil {
		return nil, errors.New("episode runner requires a component and an agent directory")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.New().String() }
	}
	agents := append([]*economy.Agent(nil), deps.Agents.Agents()...)
	if p := deps.Agents.Planner(); p != nil {
		agents = append(agents, p)
	}
	for _, agent := range agents {
		fields, err := deps.Component.ExtraStateFields(agent.Class)
		if err != nil {
			return nil, fmt.Errorf("state fields for agent %s: %w", agent.ID, err)
		}
		agent.ApplyStateFields(fields)
	}
	return &Runner{deps: deps, length: length}, nil
}

func (r *Runner) Reset(ctx context.Context) (ResetResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deps.Layout != nil {
		if err := r.deps.Layout.ResetLayout(ctx); err != nil {
			return ResetResult{}, fmt.Errorf("reset layout: %w", err)
		}
	}
	r.deps.Component.Reset()
	id := r.deps.NewID()
	if r.deps.DenseLog != nil {
		if err := r.deps.DenseLog.Begin(id); err != nil {
			return ResetResult{}, fmt.Errorf("open dense log: %w", err)
		}
	}
	r.episodeID = id
	r.step = 0
	r.aborted = nil
	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordReset()
	}
	r.deps.Logger.Info("episode reset",
		slog.String("episode_id", id),
		slog.Int("agents", len(r.deps.Agents.Agents())),
		slog.String("skill_dist", string(r.deps.Component.Config().SkillDist)),
	)
	return ResetResult{EpisodeID: id, Samples: r.deps.Component.SkillSamples()}, nil
}

func (r *Runner) Step(ctx context.Context, req StepRequest) (StepResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.episodeID == "" {
		return StepResult{}, ErrNotStarted
	}
	if r.aborted != nil {
		return StepResult{}, fmt.Errorf("%w: %v", ErrEpisodeAborted, r.aborted)
	}
	if r.length > 0 && r.step >= r.length {
		return StepResult{}, ErrEpisodeDone
	}

	source := r.deps.Policy
	if req.Actions != nil {
		source = submittedActions{component: build.Name, actions: req.Actions}
	}
	if source == nil {
		return StepResult{}, errors.New("episode runner has no policy")
	}

	batch, err := r.deps.Component.Step(source)
	if err != nil {
		// A rejected action leaves the world untouched. Other failures come
		// after some builds were applied, and those builds are still recorded.
		if !errors.Is(err, economy.ErrInvalidAction) {
			if perr := r.persist(ctx, r.record(batch)); perr != nil {
				err = errors.Join(err, perr)
			}
		}
		return StepResult{}, r.abort(err)
	}

	record := r.record(batch)
	if err := r.persist(ctx, record); err != nil {
		return StepResult{}, r.abort(err)
	}
	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordStep(len(batch))
	}
	if len(batch) > 0 {
		r.deps.Logger.Debug("builds resolved",
			slog.String("episode_id", r.episodeID),
			slog.Int("step", r.step),
			slog.Int("builds", len(batch)),
		)
	}
	r.step++
	return StepResult{
		EpisodeID: r.episodeID,
		Step:      record.Step,
		Builds:    batch,
		Done:      r.length > 0 && r.step >= r.length,
	}, nil
}

func (r *Runner) record(batch economy.BuildBatch) ports.BuildBatchRecord {
	return ports.BuildBatchRecord{
		EpisodeID:  r.episodeID,
		Step:       r.step,
		Builds:     batch,
		RecordedAt: r.deps.Now(),
	}
}

// abort stops the episode until the next reset. The component has already
// advanced, so retrying the step would apply it twice.
func (r *Runner) abort(err error) error {
	r.aborted = err
	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordFailure()
	}
	r.deps.Logger.Error("episode aborted",
		slog.String("episode_id", r.episodeID),
		slog.Int("step", r.step),
		slog.Any("error", err),
	)
	return err
}

func (r *Runner) persist(ctx context.Context, record ports.BuildBatchRecord) error {
	if r.deps.History != nil {
		appendFn := func(ctx context.Context) error {
			return r.deps.History.Append(ctx, record)
		}
		var err error
		if r.deps.TxManager != nil {
			err = r.deps.TxManager.RunInTx(ctx, appendFn)
		} else {
			err = appendFn(ctx)
		}
		if err != nil {
			return fmt.Errorf("persist step %d: %w", record.Step, err)
		}
	}
	if r.deps.DenseLog != nil {
		if err := r.deps.DenseLog.Write(record); err != nil {
			return fmt.Errorf("dense log step %d: %w", record.Step, err)
		}
	}
	return nil
}

// Run resets and plays steps policy-driven steps. steps <= 0 plays the
// configured episode length.
func (r *Runner) Run(ctx context.Context, steps int) (ResetResult, error) {
	if steps <= 0 {
		steps = r.length
	}
	if steps <= 0 {
		return ResetResult{}, errors.New("episode length must be positive to run")
	}
	res, err := r.Reset(ctx)
	if err != nil {
		return res, err
	}
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := r.Step(ctx, StepRequest{}); err != nil {
			return res, err
		}
	}
	r.deps.Logger.Info("episode finished",
		slog.String("episode_id", res.EpisodeID),
		slog.Int("steps", steps),
		slog.Float64("total_builds", r.Metrics()[build.MetricTotalBuilds]),
	)
	return res, nil
}

func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deps.DenseLog == nil {
		return nil
	}
	return r.deps.DenseLog.Close()
}

func (r *Runner) EpisodeID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.episodeID
}

func (r *Runner) StepCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

func (r *Runner) Observations() map[string]build.Observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps.Component.Observations()
}

func (r *Runner) Masks() map[string][]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps.Component.Masks()
}

func (r *Runner) Metrics() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps.Component.Metrics()
}

func (r *Runner) DenseLog() []economy.BuildBatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deps.Component.DenseLog()
}

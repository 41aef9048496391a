package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Stage names, in execution order. EventComplete follows the last stage in
// streaming mode.
const (
	StageAggregate = "aggregate"
	StageMatch     = "match"
	StageJudge     = "judge"
	StageGenerate  = "generate"
	EventComplete  = "complete"
)

// ErrMissingUser rejects a run before any stage executes. It is the only
// error class a run can surface; everything downstream degrades in place.
var ErrMissingUser = errors.New("user id is required")

// Stage is one pipeline step. Run never returns an error: a stage recovers
// every failure internally and degrades its patch, so the pipeline always
// passes through all stages. A stage must not retain the state after
// returning.
type Stage interface {
	Name() string
	Run(ctx context.Context, state State) Patch
}

// Input is the caller-supplied seed of one run.
type Input struct {
	UserID         string
	GitHubUsername string
	ProfileText    string
	Skills         []string
}

// Event is one streamed notification: the stage name and the patch it
// produced. The completion event carries the final merged state instead.
type Event struct {
	Stage string `json:"stage"`
	Patch Patch  `json:"patch,omitempty"`
	Final *State `json:"final,omitempty"`
}

// Pipeline sequences aggregate, match, judge and generate over one shared
// state. It holds no business logic of its own; its only job is ordering and
// patch-merging.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

func New(aggregate, match, judge, generate Stage, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		stages: []Stage{aggregate, match, judge, generate},
		logger: logger,
	}
}

func seedState(in Input) State {
	return State{
		UserID:         in.UserID,
		GitHubUsername: in.GitHubUsername,
		ProfileText:    in.ProfileText,
		Skills:         append([]string(nil), in.Skills...),
	}
}

func validate(in Input) error {
	if strings.TrimSpace(in.UserID) == "" {
		return ErrMissingUser
	}
	return nil
}

// Run executes all stages to completion and returns the final merged state.
// The returned error is non-nil only for invalid input or caller
// cancellation; stage failures never surface here.
func (p *Pipeline) Run(ctx context.Context, in Input) (State, error) {
	if err := validate(in); err != nil {
		return State{}, err
	}

	state := seedState(in)
	for _, stage := range p.stages {
		// A disconnected caller stops further stage calls; the state so far
		// is discarded by the caller anyway.
		if err := ctx.Err(); err != nil {
			return state, err
		}

		patch := stage.Run(ctx, state)
		state = state.apply(patch)
		p.logger.Debug("pipeline stage completed",
			zap.String("stage", stage.Name()),
			zap.String("user_id", state.UserID),
		)
	}

	return state, nil
}

// RunStream executes the pipeline in a goroutine, emitting one event per
// stage in execution order and a final completion event carrying the merged
// state. The channel is closed when the run finishes or the context is
// cancelled.
func (p *Pipeline) RunStream(ctx context.Context, in Input) (<-chan Event, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	events := make(chan Event)

	go func() {
		defer close(events)

		state := seedState(in)
		for _, stage := range p.stages {
			if ctx.Err() != nil {
				return
			}

			patch := stage.Run(ctx, state)
			state = state.apply(patch)

			select {
			case events <- Event{Stage: stage.Name(), Patch: patch}:
			case <-ctx.Done():
				return
			}
		}

		select {
		case events <- Event{Stage: EventComplete, Final: &state}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}

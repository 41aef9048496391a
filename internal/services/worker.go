package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hackquest/agent-api/internal/models"
	"hackquest/agent-api/internal/pipeline"
	"hackquest/agent-api/internal/repositories"
)

// Worker executes queued agent runs through the recommendation pipeline.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRun(runID uuid.UUID)
}

type worker struct {
	runRepo      repositories.AgentRunRepository
	userRepo     repositories.UserRepository
	pipe         *pipeline.Pipeline
	storage      StorageService
	cache        CacheService
	runQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	logger       *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

func NewWorker(
	runRepo repositories.AgentRunRepository,
	userRepo repositories.UserRepository,
	pipe *pipeline.Pipeline,
	storage StorageService,
	cache CacheService,
	concurrency int,
	pollInterval time.Duration,
	logger *zap.Logger,
) Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &worker{
		runRepo:      runRepo,
		userRepo:     userRepo,
		pipe:         pipe,
		storage:      storage,
		cache:        cache,
		runQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRuns(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingRuns(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueRun implements Worker.
func (w *worker) EnqueueRun(runID uuid.UUID) {
	select {
	case w.runQueue <- runID:
		w.logger.Debug("run enqueued", zap.String("run_id", runID.String()))
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue run", zap.String("run_id", runID.String()))
	}
}

func (w *worker) processRuns(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case runID := <-w.runQueue:
			if err := w.executeRun(ctx, runID); err != nil {
				w.logger.Error("run failed",
					zap.Int("worker_id", workerID),
					zap.String("run_id", runID.String()),
					zap.Error(err),
				)
			} else {
				w.logger.Info("run completed",
					zap.Int("worker_id", workerID),
					zap.String("run_id", runID.String()),
				)
			}
		}
	}
}

func (w *worker) pollPendingRuns(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.runRepo.FindPendingRuns(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending runs", zap.Error(err))
				continue
			}
			for _, run := range pending {
				w.EnqueueRun(run.ID)
			}
		}
	}
}

func (w *worker) executeRun(ctx context.Context, runID uuid.UUID) error {
	if err := w.runRepo.UpdateStatus(runID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	run, err := w.runRepo.FindByID(runID)
	if err != nil {
		w.failRun(ctx, runID, err)
		return fmt.Errorf("failed to load run: %w", err)
	}

	user, err := w.userRepo.FindByID(run.UserID)
	if err != nil {
		w.failRun(ctx, runID, fmt.Errorf("user not found: %w", err))
		return fmt.Errorf("failed to load user: %w", err)
	}

	input := pipeline.Input{
		UserID:         user.ID.String(),
		GitHubUsername: user.GitHubUsername,
		ProfileText:    run.ProfileText,
		Skills:         user.Skills,
	}

	events, err := w.pipe.RunStream(ctx, input)
	if err != nil {
		w.failRun(ctx, runID, err)
		return fmt.Errorf("pipeline rejected input: %w", err)
	}

	var final *pipeline.State
	stageIndex := 0
	for event := range events {
		if event.Stage == pipeline.EventComplete {
			final = event.Final
			continue
		}

		stageIndex++
		w.cache.PublishAgentUpdate(ctx, user.ID.String(), map[string]any{
			"event":    "stage",
			"run_id":   runID.String(),
			"stage":    event.Stage,
			"progress": stageIndex * 100 / 4,
		})
	}

	if final == nil {
		err := fmt.Errorf("pipeline cancelled before completion")
		w.failRun(ctx, runID, err)
		return err
	}

	return w.persistResult(ctx, run, user.ID.String(), final)
}

func (w *worker) persistResult(ctx context.Context, run *models.AgentRun, userID string, state *pipeline.State) error {
	filename, err := w.storage.SaveBoilerplate(run.ID, state.BoilerplateCode.Content)
	if err != nil {
		w.failRun(ctx, run.ID, err)
		return fmt.Errorf("failed to store boilerplate: %w", err)
	}

	data := &repositories.AgentRunUpdateData{
		WinProbability:  &state.WinProbability,
		JudgeCritique:   &state.JudgeCritique,
		BoilerplateFile: &filename,
	}

	result := &models.AgentRunResult{
		WinProbability:  state.WinProbability,
		JudgeCritique:   state.JudgeCritique,
		BoilerplateFile: filename,
	}

	if selected := state.SelectedHackathon; selected != nil {
		data.SelectedID = &selected.ID
		data.SelectedTitle = &selected.Title
		data.SelectedScore = &selected.Score
		result.SelectedID = selected.ID
		result.SelectedTitle = selected.Title
		result.SelectedScore = selected.Score
	}

	if err := w.runRepo.UpdateResult(run.ID, data); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	w.cache.SetResult(ctx, userID, result)
	w.cache.PublishNotification(ctx, userID, map[string]any{
		"event":  "run_completed",
		"run_id": run.ID.String(),
	})

	return nil
}

func (w *worker) failRun(ctx context.Context, runID uuid.UUID, cause error) {
	if err := w.runRepo.UpdateError(runID, cause.Error()); err != nil {
		w.logger.Warn("failed to record run error",
			zap.String("run_id", runID.String()),
			zap.Error(err),
		)
	}
}

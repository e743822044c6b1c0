package prophet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// eventBuffer is the capacity of the channel returned by Start.
const eventBuffer = 32

// Service runs one job at a time and tracks the pipeline state.
type Service struct {
	mu      sync.Mutex
	state   State
	running bool

	logger *slog.Logger
}

// NewService constructs a service. A nil logger discards all output.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{state: StateIdle, logger: logger}
}

// State returns the current run state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Running reports whether a run is in progress.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run validates job, reads both tables, executes the pipeline and writes the
// selected rows to a new file in job.OutputDir. A second call while a run is
// active returns ErrBusy.
func (s *Service) Run(ctx context.Context, job Job, progress ProgressFunc) (out *Outcome, err error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.running = true
	s.state = StateValidating
	s.mu.Unlock()

	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Stage: s.State(), Err: fmt.Errorf("panic: %v", r)}
			out = nil
		}
		s.mu.Lock()
		s.running = false
		if err != nil {
			s.state = StateFailed
		} else {
			s.state = StateCompleted
		}
		s.mu.Unlock()
		if err != nil {
			logger.Error("run failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(started)))
		}
	}()

	report := func(p Progress) {
		s.setState(p.State)
		logger.Info(p.Stage, slog.Int("percent", p.Percent), slog.String("state", p.State.String()))
		if progress != nil {
			progress(p)
		}
	}

	report(Progress{Percent: 0, Stage: StageValidating, State: StateValidating})
	if err := job.Validate(); err != nil {
		return nil, err
	}
	reference, err := ReadTable(job.ReferencePath)
	if err != nil {
		return nil, err
	}
	candidate, err := ReadTable(job.CandidatePath)
	if err != nil {
		return nil, err
	}
	logger.Info("tables loaded",
		slog.Int("reference_rows", reference.Len()),
		slog.Int("candidate_rows", candidate.Len()),
	)

	// Execute repeats the validation milestone; it has already been reported.
	first := true
	result, err := Execute(ctx, Request{
		Reference: reference,
		Candidate: candidate,
		Fields:    job.Fields,
		Params:    job.Params,
	}, func(p Progress) {
		if first && p.State == StateValidating {
			first = false
			return
		}
		report(p)
	})
	if err != nil {
		return nil, err
	}
	for _, f := range result.Fields {
		logger.Debug("field vectorized",
			slog.String("field", f.Name),
			slog.Float64("weight", f.Weight),
			slog.Int("vocabulary", f.Vocabulary),
		)
	}
	logger.Info("clustering finished",
		slog.Int("clusters", len(result.Clusters)),
		slog.Int("core_points", result.CorePoints),
		slog.Int("selected", result.Table.Len()),
	)

	path, err := WriteOutput(job.OutputDir, job.Fields, result.Table)
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	elapsed := time.Since(started)
	logger.Info("output written", slog.String("path", path), slog.Duration("elapsed", elapsed))
	report(Progress{Percent: 100, Stage: StageCompleted, State: StateCompleted})

	return &Outcome{RunID: runID, OutputPath: path, Result: result, Elapsed: elapsed}, nil
}

// Start runs job on its own goroutine and streams its events. Progress
// events are dropped when the consumer falls behind; the final Outcome or
// Err event is always delivered before the channel is closed.
func (s *Service) Start(ctx context.Context, job Job) <-chan Event {
	events := make(chan Event, eventBuffer)
	go func() {
		defer close(events)
		outcome, err := s.Run(ctx, job, func(p Progress) {
			select {
			case events <- Event{Progress: &p}:
			default:
			}
		})
		if err != nil {
			events <- Event{Err: err}
			return
		}
		events <- Event{Outcome: outcome}
	}()
	return events
}

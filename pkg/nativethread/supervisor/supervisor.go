// Package supervisor layers run tracking, structured logging and a
// persistent outcome journal over the nativethread core.
//
// Every launch becomes a Run with a uuid, journaled from its launched state
// to a terminal outcome. The journal doubles as the fault channel the core
// reserves its err slot for: a native fault kills the whole process before
// an outcome can be journaled, so records still in the launched state when a
// new supervisor opens the same journal identify runs that died that way.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/nativethread/pkg/nativethread"
	"github.com/haivivi/nativethread/pkg/runlog"
)

// Sentinel errors.
var (
	// ErrClosed is returned when operating on a closed supervisor.
	ErrClosed = errors.New("supervisor: closed")
	// ErrNoSuchRun is returned when a run id is unknown.
	ErrNoSuchRun = errors.New("supervisor: no such run")
)

// State of a supervised run.
type State string

// StateLaunched is the state of a run before any outcome fires.
const StateLaunched State = "launched"

// Terminal states carry the name of the core outcome that produced them, so
// journal records read the same as callback dispatch.
var (
	StateOK        = State(nativethread.OutcomeOK.String())
	StateCancelled = State(nativethread.OutcomeCancelled.String())
	StateFault     = State(nativethread.OutcomeFault.String())
)

// RunSpec describes one launch request.
type RunSpec struct {
	// Label is an optional human-readable description, journaled with the
	// run.
	Label string

	// Entry is the native routine to execute.
	Entry nativethread.EntryPoint

	// Payload is forwarded unchanged to whichever callback fires.
	Payload any

	// OnOK, OnCancel and OnErr are optional caller callbacks, invoked after
	// the supervisor has recorded the outcome. OnErr follows the core's
	// contract: retained for the whole run, never invoked in-process.
	OnOK     nativethread.Callback
	OnCancel nativethread.Callback
	OnErr    nativethread.Callback
}

// Run is one supervised launch.
type Run struct {
	id      string
	label   string
	started time.Time
	handle  *nativethread.Handle

	mu    sync.Mutex
	state State
	ended time.Time
	done  chan struct{}
}

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// Label returns the run label.
func (r *Run) Label() string { return r.label }

// Started returns the launch time.
func (r *Run) Started() time.Time { return r.started }

// State returns the current run state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done returns a channel closed when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes or ctx is done.
func (r *Run) Wait(ctx context.Context) (State, error) {
	select {
	case <-r.done:
		return r.State(), nil
	case <-ctx.Done():
		return r.State(), ctx.Err()
	}
}

// record snapshots the run as a journal record.
func (r *Run) record() runlog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return runlog.Record{
		ID:      r.id,
		Label:   r.label,
		State:   string(r.state),
		Started: r.started,
		Ended:   r.ended,
	}
}

// Supervisor launches native routines and journals their outcomes.
type Supervisor struct {
	log     *slog.Logger
	journal runlog.Store

	mu     sync.Mutex
	closed bool
	runs   map[string]*Run
}

// Options configures a Supervisor.
type Options struct {
	// Journal is the run journal. Required.
	Journal runlog.Store

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a Supervisor over the given journal.
func New(opts Options) (*Supervisor, error) {
	if opts.Journal == nil {
		return nil, errors.New("supervisor: Options.Journal is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		log:     logger,
		journal: opts.Journal,
		runs:    make(map[string]*Run),
	}, nil
}

// Launch spawns spec.Entry on a new hard-cancellable thread and journals the
// run. The journal record is written before the thread exists, so a native
// fault that kills the process cannot lose the launch; on spawn failure the
// record is removed again and the error is returned with nothing retained.
func (s *Supervisor) Launch(ctx context.Context, spec RunSpec) (*Run, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.mu.Unlock()

	r := &Run{
		id:      uuid.NewString(),
		label:   spec.Label,
		started: time.Now().UTC(),
		state:   StateLaunched,
		done:    make(chan struct{}),
	}

	if err := s.journal.Put(ctx, r.record()); err != nil {
		return nil, fmt.Errorf("supervisor: journal launch: %w", err)
	}

	errCb := spec.OnErr
	if errCb == nil {
		errCb = func(any) {}
	}

	h, err := nativethread.Launch(spec.Entry,
		s.finish(r, StateOK, spec.OnOK),
		s.finish(r, StateCancelled, spec.OnCancel),
		errCb,
		spec.Payload)
	if err != nil {
		if derr := s.journal.Delete(ctx, r.id); derr != nil {
			s.log.Warn("failed to remove journal record for failed launch",
				"run", r.id, "error", derr)
		}
		return nil, err
	}
	r.handle = h

	s.mu.Lock()
	s.runs[r.id] = r
	s.mu.Unlock()

	s.log.Debug("run launched", "run", r.id, "label", r.label)
	return r, nil
}

// finish wraps an outcome slot: record the terminal state, journal it, then
// hand the payload to the caller's callback if any. The core guarantees at
// most one of the returned callbacks ever runs.
func (s *Supervisor) finish(r *Run, st State, user nativethread.Callback) nativethread.Callback {
	return func(payload any) {
		r.mu.Lock()
		r.state = st
		r.ended = time.Now().UTC()
		r.mu.Unlock()

		if err := s.journal.Put(context.Background(), r.record()); err != nil {
			s.log.Warn("failed to journal run outcome", "run", r.id, "error", err)
		}
		s.log.Debug("run finished", "run", r.id, "state", st)

		close(r.done)
		if user != nil {
			user(payload)
		}
	}
}

// Interrupt requests cancellation of a supervised run.
func (s *Supervisor) Interrupt(id string) error {
	s.mu.Lock()
	r, ok := s.runs[id]
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchRun, id)
	}
	return r.handle.Interrupt()
}

// Get returns a supervised run by id.
func (s *Supervisor) Get(id string) (*Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	return r, ok
}

// Runs returns all runs of this supervisor, ordered by launch time.
func (s *Supervisor) Runs() []*Run {
	s.mu.Lock()
	runs := make([]*Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	s.mu.Unlock()

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].started.Before(runs[j].started)
	})
	return runs
}

// Dangling returns journal records left in the launched state by a previous
// process. A run can only end up that way when its thread never reached an
// outcome dispatch, which for a detached native thread means the process was
// torn down around it — the after-the-fact fault report the core's err slot
// is reserved for.
func (s *Supervisor) Dangling(ctx context.Context) ([]runlog.Record, error) {
	s.mu.Lock()
	live := make(map[string]bool, len(s.runs))
	for id := range s.runs {
		live[id] = true
	}
	s.mu.Unlock()

	var dangling []runlog.Record
	for rec, err := range s.journal.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("supervisor: scan journal: %w", err)
		}
		if rec.State == string(StateLaunched) && !live[rec.ID] {
			dangling = append(dangling, rec)
		}
	}
	return dangling, nil
}

// MarkFaulted rewrites a dangling record as a fault, after the fact.
func (s *Supervisor) MarkFaulted(ctx context.Context, id string) error {
	rec, err := s.journal.Get(ctx, id)
	if err != nil {
		if errors.Is(err, runlog.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNoSuchRun, id)
		}
		return err
	}
	if rec.State != string(StateLaunched) {
		return fmt.Errorf("supervisor: run %s already has outcome %q", id, rec.State)
	}
	rec.State = string(StateFault)
	rec.Ended = time.Now().UTC()
	if err := s.journal.Put(ctx, rec); err != nil {
		return err
	}
	s.log.Warn("run marked as faulted", "run", id)
	return nil
}

// Close releases the handles of all supervised runs and marks the supervisor
// closed. Running threads are not stopped; their outcomes are still
// journaled if they finish before the process exits.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for _, r := range s.runs {
		r.handle.Close()
	}
	return nil
}

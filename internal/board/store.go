package board

import (
	"errors"
	"fmt"
	"sync"

	"github.com/slok/taskboard/internal/log"
	"github.com/slok/taskboard/internal/model"
)

// ErrStaleTicket is returned when an event is committed with a ticket taken
// before the store was reset.
var ErrStaleTicket = errors.New("stale ticket")

// Ticket identifies the order in which events were started.
type Ticket uint64

// StoreConfig is the configuration for the store.
type StoreConfig struct {
	Logger log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "board.Store"})
	return nil
}

// Store owns the view of a session and is the only way of changing it.
//
// Callers that need to talk to a task gateway before changing the view take a
// ticket with Begin before the call, and Commit the event with that ticket
// once the result is known, or Cancel it when the call failed. With tickets,
// completions that arrive out of order are reconciled like this:
//
//   - A load is rebased: the view is rebuilt from the loaded tasks and the
//     events committed while the load was in flight are replayed on top.
//   - A load older than the last committed load is superseded by it.
//   - A create older than the last committed load is applied as an update, the
//     load may already have the task.
//   - Updates and deletes are applied in commit order.
type Store struct {
	mu       sync.Mutex
	view     View
	issued   Ticket
	lastLoad Ticket
	floor    Ticket
	pending  map[Ticket]struct{}
	journal  []journalEntry
	logger   log.Logger
}

// journalEntry is a committed event that an in flight load may not have seen.
type journalEntry struct {
	// stamp is the last ticket issued when the event was committed, loads with
	// a ticket up to the stamp were in flight.
	stamp Ticket
	event Event
}

// NewStore returns a new store with an empty view.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Store{
		view:    Empty(),
		pending: map[Ticket]struct{}{},
		logger:  cfg.Logger,
	}, nil
}

// View returns a copy of the current view.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view.Clone()
}

// Reset empties the view. Tickets taken before the reset are stale.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = Empty()
	s.floor = s.issued
	s.pending = map[Ticket]struct{}{}
	s.journal = nil
	s.logger.Debugf("View reset")
}

// Begin returns a new ticket, tickets are increasing.
func (s *Store) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		s.pending = map[Ticket]struct{}{}
	}
	s.issued++
	s.pending[s.issued] = struct{}{}
	return s.issued
}

// Cancel releases a ticket whose event will never be committed.
func (s *Store) Cancel(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, t)
	s.pruneJournal()
}

// Dispatch applies an event right away.
func (s *Store) Dispatch(ev Event) error {
	return s.Commit(s.Begin(), ev)
}

// Commit applies an event started with the ticket. When the event is rejected
// the view doesn't change.
func (s *Store) Commit(t Ticket, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == 0 || t > s.issued {
		return fmt.Errorf("ticket %d was not issued: %w", t, model.ErrNotValid)
	}
	if t <= s.floor {
		return fmt.Errorf("ticket %d was issued before reset: %w", t, ErrStaleTicket)
	}

	if le, ok := ev.(LoadEvent); ok {
		return s.commitLoad(t, le)
	}

	if ce, ok := ev.(CreateEvent); ok && t < s.lastLoad {
		s.logger.Debugf("Create %d is older than load %d, applying it as an update", t, s.lastLoad)
		ev = UpdateEvent{Task: ce.Task}
	}

	view, outcome, err := Apply(s.view, ev)
	if err != nil {
		delete(s.pending, t)
		s.pruneJournal()
		if errors.Is(err, model.ErrInvalidStatus) {
			s.logger.Warningf("Rejected event: %s", err)
		}
		return err
	}

	s.view = view
	delete(s.pending, t)
	s.journal = append(s.journal, journalEntry{stamp: s.issued, event: ev})
	s.pruneJournal()
	s.logEvent(ev, outcome)

	return nil
}

func (s *Store) commitLoad(t Ticket, ev LoadEvent) error {
	if t < s.lastLoad {
		delete(s.pending, t)
		s.pruneJournal()
		s.logger.Debugf("Load %d is superseded by load %d", t, s.lastLoad)
		return nil
	}

	view, outcome, err := Apply(s.view, ev)
	if err != nil {
		return err
	}

	// Replay what was committed after the load started, the loaded snapshot may
	// or may not have it.
	replayed := 0
	for _, e := range s.journal {
		if e.stamp < t {
			continue
		}
		rev := e.event
		if ce, ok := rev.(CreateEvent); ok {
			rev = UpdateEvent{Task: ce.Task}
		}
		view, _, err = Apply(view, rev)
		if err != nil {
			return fmt.Errorf("could not replay event on load %d: %w", t, err)
		}
		replayed++
	}
	if replayed > 0 {
		s.logger.Debugf("Replayed %d events committed while load %d was in flight", replayed, t)
	}

	s.view = view
	s.lastLoad = t
	delete(s.pending, t)
	s.pruneJournal()
	s.logEvent(ev, outcome)

	return nil
}

// pruneJournal drops the entries no pending load needs.
func (s *Store) pruneJournal() {
	if len(s.pending) == 0 {
		s.journal = nil
		return
	}

	oldest := s.issued
	for t := range s.pending {
		if t < oldest {
			oldest = t
		}
	}

	keep := s.journal[:0]
	for _, e := range s.journal {
		if e.stamp >= oldest {
			keep = append(keep, e)
		}
	}
	s.journal = keep
}

func (s *Store) logEvent(ev Event, o Outcome) {
	switch e := ev.(type) {
	case LoadEvent:
		if o.Excluded > 0 {
			s.logger.Warningf("%d of %d loaded tasks have an unknown status and were excluded", o.Excluded, len(e.Tasks))
		}
		s.logger.Debugf("Loaded %d tasks", s.view.Len())
	case CreateEvent:
		s.logger.Debugf("Created task %s in %q", e.Task.ID, e.Task.Status)
	case UpdateEvent:
		switch {
		case o.Moved:
			s.logger.Debugf("Moved task %s from %q to %q", e.Task.ID, o.From, e.Task.Status)
		case o.Implicit:
			s.logger.Debugf("Updated task %s was missing, created in %q", e.Task.ID, e.Task.Status)
		default:
			s.logger.Debugf("Updated task %s in %q", e.Task.ID, e.Task.Status)
		}
	case DeleteEvent:
		if o.Removed {
			s.logger.Debugf("Deleted task %s", e.ID)
		} else {
			s.logger.Debugf("Deleted task %s was missing", e.ID)
		}
	}
}

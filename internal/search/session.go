// package search tracks the client's current query and the results of its latest search
package search

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
)

// State is the phase of a [Session].
type State int

const (
	Idle      State = iota // query is empty
	Searching              // a request for the current query is in flight
	Ready                  // results hold the latest completed search for the current query
	Failed                 // the latest search for the current query failed; results are empty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Searcher performs a track search for a non-empty query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Track, error)
}

// Request identifies one issued search. Seq increases with every query change.
type Request struct {
	Query string
	Seq   uint64
}

// Session is the search state machine. A response is applied only when it belongs to the most
// recently issued request and that request's query is still the current query.
//
// Safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	query   string
	seq     uint64
	state   State
	results []models.Track
	lastErr error
	logger  *log.Logger
}

// NewSession creates an idle [Session]. A nil logger discards diagnostics.
func NewSession(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{state: Idle, results: []models.Track{}, logger: logger}
}

// SetQuery records q as the current query and starts a new cycle.
//
// A blank query moves the session to [Idle], clears the results and returns ok=false: no search should be issued.
// Otherwise the session is [Searching] and the returned request must be passed to [Session.Resolve].
func (s *Session) SetQuery(q string) (req Request, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.query = q
	s.lastErr = nil

	if strings.TrimSpace(q) == "" {
		s.state = Idle
		s.results = []models.Track{}
		return Request{Query: q, Seq: s.seq}, false
	}

	s.state = Searching
	return Request{Query: q, Seq: s.seq}, true
}

// Resolve applies the outcome of req. Returns false when req is stale and the outcome was discarded.
func (s *Session) Resolve(req Request, tracks []models.Track, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Seq != s.seq || req.Query != s.query || s.state != Searching {
		s.logger.Debug("discarding stale search response", "query", req.Query, "seq", req.Seq, "current", s.seq)
		return false
	}

	if err != nil {
		s.logger.Error("search failed", "query", req.Query, "error", err)
		s.state = Failed
		s.results = []models.Track{}
		s.lastErr = err
		return true
	}

	if tracks == nil {
		tracks = []models.Track{}
	}
	s.state = Ready
	s.results = tracks
	return true
}

// Run performs req through searcher and resolves it. Returns whether the outcome was applied.
//
// No timeout is imposed; a searcher that never returns leaves the session [Searching].
func (s *Session) Run(ctx context.Context, searcher Searcher, req Request) bool {
	tracks, err := searcher.Search(ctx, req.Query)
	if errors.Is(err, shared.ErrEmptyInput) {
		return s.Resolve(req, []models.Track{}, nil)
	}
	return s.Resolve(req, tracks, err)
}

// Query returns the current query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results returns a copy of the current results.
func (s *Session) Results() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Track, len(s.results))
	copy(out, s.results)
	return out
}

// Err returns the error of the latest failed search for the current query, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

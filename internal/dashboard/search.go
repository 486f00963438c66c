package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/airquality"
)

// SearchUpdate is delivered after each completed lookup.
type SearchUpdate struct {
	Keyword string
	Results []airquality.SearchStation
	Err     error
}

// SearchConfig configures a SearchSession.
type SearchConfig struct {
	Backend SearchBackend
	// Delay is the quiet period after the last keystroke. Default: 800ms.
	Delay time.Duration
	// OnResults is called from the timer goroutine after each lookup (optional).
	OnResults func(SearchUpdate)
	Logger    zerolog.Logger
}

// SearchSession debounces station lookups as the operator types. Only the last
// input of a burst reaches the backend. In-flight lookups are not cancelled, so
// a slow response can overwrite the results of a newer one.
type SearchSession struct {
	backend   SearchBackend
	delay     time.Duration
	onResults func(SearchUpdate)
	logger    zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	results []airquality.SearchStation
	closed  bool
}

// NewSearchSession creates a search session.
func NewSearchSession(cfg SearchConfig) *SearchSession {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultSearchDebounce
	}
	return &SearchSession{
		backend:   cfg.Backend,
		delay:     cfg.Delay,
		onResults: cfg.OnResults,
		logger:    cfg.Logger,
		results:   []airquality.SearchStation{},
	}
}

// Type records new input. Empty input clears the results without a lookup;
// anything else (re)starts the debounce timer.
func (s *SearchSession) Type(text string) {
	keyword := strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if keyword == "" {
		s.results = []airquality.SearchStation{}
		return
	}

	s.timer = time.AfterFunc(s.delay, func() { s.lookup(keyword) })
}

func (s *SearchSession) lookup(keyword string) {
	results, err := s.backend.SearchStations(context.Background(), keyword)
	if err != nil {
		s.logger.Warn().Err(err).Str("keyword", keyword).Msg("station search failed")
		results = []airquality.SearchStation{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.results = results
	s.mu.Unlock()

	if s.onResults != nil {
		s.onResults(SearchUpdate{Keyword: keyword, Results: results, Err: err})
	}
}

// Results returns the latest results.
func (s *SearchSession) Results() []airquality.SearchStation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]airquality.SearchStation, len(s.results))
	copy(out, s.results)
	return out
}

// Close stops any pending lookup. Lookups already running complete but are
// discarded.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

package services

import (
	"sync"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/apperrors"
	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
)

// SessionObserver receives the full session snapshot after every mutation.
// Observers are invoked synchronously and must not call a mutator; doing so
// returns ErrReentrantMutation to the nested caller.
type SessionObserver func(domain.SessionSnapshot)

// AnalysisSession is the single-session state of the analytics dashboard:
// active language, active project, selected phases, filters and the built
// rate cache. Every mutator replaces its slice immutably and then notifies
// all observers with a consistent snapshot. There is no ambient global
// state; callers hold and pass the session explicitly.
type AnalysisSession struct {
	mu        sync.Mutex
	notifying bool

	language       string
	projectID      string
	selectedPhases []string
	filters        domain.Filters
	rateCache      *RateCache

	// generation increments on every project selection; loads completing for
	// an older generation are stale and must be discarded (last-selection-wins).
	generation uint64

	observers []SessionObserver
}

// NewAnalysisSession creates a session with the given UI language and an
// unrestricted filter set.
func NewAnalysisSession(language string) *AnalysisSession {
	return &AnalysisSession{
		language: language,
		filters:  domain.Filters{InvoiceStatus: domain.InvoiceStatusAll},
	}
}

// Subscribe registers an observer for subsequent mutations.
func (s *AnalysisSession) Subscribe(obs SessionObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// SetProject selects the active project, resetting the selected phase set
// and bumping the generation. It returns the new generation for
// last-selection-wins checks on load completion.
func (s *AnalysisSession) SetProject(projectID string) (uint64, error) {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return 0, apperrors.ErrReentrantMutation
	}
	s.projectID = projectID
	s.selectedPhases = nil
	s.rateCache = nil
	s.generation++
	gen := s.generation
	s.notifyLocked()
	return gen, nil
}

// SetSelectedPhases replaces the selected phase id set.
func (s *AnalysisSession) SetSelectedPhases(phaseIDs []string) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return apperrors.ErrReentrantMutation
	}
	s.selectedPhases = append([]string(nil), phaseIDs...)
	s.notifyLocked()
	return nil
}

// ApplyQuery replaces the selected phase set and the filter set in one
// mutation, emitting a single observer notification for the combined state.
func (s *AnalysisSession) ApplyQuery(phaseIDs []string, f domain.Filters) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return apperrors.ErrReentrantMutation
	}
	s.selectedPhases = append([]string(nil), phaseIDs...)
	if f.InvoiceStatus == "" {
		f.InvoiceStatus = domain.InvoiceStatusAll
	}
	s.filters = f
	s.notifyLocked()
	return nil
}

// UpdateFilters replaces the active filter set.
func (s *AnalysisSession) UpdateFilters(f domain.Filters) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return apperrors.ErrReentrantMutation
	}
	if f.InvoiceStatus == "" {
		f.InvoiceStatus = domain.InvoiceStatusAll
	}
	s.filters = f
	s.notifyLocked()
	return nil
}

// SetExchangeRates builds and installs the rate cache from raw records.
func (s *AnalysisSession) SetExchangeRates(rates []domain.ExchangeRate) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return apperrors.ErrReentrantMutation
	}
	s.rateCache = BuildRateCache(rates)
	s.notifyLocked()
	return nil
}

// SetLanguage switches the active UI language.
func (s *AnalysisSession) SetLanguage(language string) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return apperrors.ErrReentrantMutation
	}
	s.language = language
	s.notifyLocked()
	return nil
}

// Snapshot returns a consistent copy of the session state.
func (s *AnalysisSession) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Generation returns the current project-selection generation.
func (s *AnalysisSession) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// RateCache returns the currently installed rate cache (possibly nil before
// the first load).
func (s *AnalysisSession) RateCache() *RateCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateCache
}

func (s *AnalysisSession) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		Language:         s.language,
		ProjectID:        s.projectID,
		SelectedPhaseIDs: append([]string(nil), s.selectedPhases...),
		Filters:          s.filters,
		RateCount:        s.rateCache.Size(),
		Generation:       s.generation,
	}
}

// notifyLocked fans the snapshot out synchronously and releases the lock.
// The notifying flag rejects nested mutation from within an observer.
func (s *AnalysisSession) notifyLocked() {
	snapshot := s.snapshotLocked()
	observers := append([]SessionObserver(nil), s.observers...)
	s.notifying = true
	s.mu.Unlock()
	for _, obs := range observers {
		obs(snapshot)
	}
	s.mu.Lock()
	s.notifying = false
	s.mu.Unlock()
}

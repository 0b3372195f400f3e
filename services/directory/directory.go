package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jiyaaat/Doctor-listings/db/searchdb"
	"github.com/jiyaaat/Doctor-listings/logger"
)

var (
	ErrNotLoaded         = errors.New("doctor list has not been loaded yet")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrRefreshNotFound   = errors.New("refresh request not found")
)

// Source is where the doctor list comes from.
type Source interface {
	Fetch(ctx context.Context) ([]Doctor, error)
	Close() error
}

// Indexer is the full-text index kept in sync with the current list.
type Indexer interface {
	BuildIndex(documents []searchdb.Document) error
	DeleteDocuments(documentIDs []string) error
	Search(queryString string, limit int, offset int) (*searchdb.Response, error)
	GetDocCount() (uint64, error)
}

// Store persists refresh progress and the last fetched list.
type Store interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
}

type Service struct {
	logger          logger.Logger
	source          Source
	store           Store
	indexer         Indexer
	refreshInterval time.Duration

	mu           sync.RWMutex
	doctors      []Doctor
	byID         map[string]int
	specialties  []string
	loaded       bool
	loadedAt     time.Time
	fromSnapshot bool

	refreshMu  sync.Mutex
	refreshing bool
	refreshC   chan refreshRequest
}

type ListResult struct {
	Doctors     []Doctor    `json:"doctors"`
	Total       int         `json:"total"`
	Specialties []string    `json:"specialties"`
	Facets      Facets      `json:"facets"`
	Filters     FilterState `json:"filters"`
	Query       string      `json:"query"`
}

type SearchHit struct {
	Doctor Doctor  `json:"doctor"`
	Score  float64 `json:"score"`
}

type SearchResult struct {
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

type Status struct {
	Loaded       bool      `json:"loaded"`
	Count        int       `json:"count"`
	LoadedAt     time.Time `json:"loaded_at"`
	FromSnapshot bool      `json:"from_snapshot"`
	Refreshing   bool      `json:"refreshing"`
	Indexed      uint64    `json:"indexed"`
}

// New starts the refresh worker, which stops when ctx is done. refreshInterval
// of 0 disables periodic refreshing. Call Load to populate the list.
func New(ctx context.Context, logger logger.Logger, source Source, store Store, indexer Indexer, refreshInterval time.Duration) *Service {
	service := &Service{
		logger:          logger,
		source:          source,
		store:           store,
		indexer:         indexer,
		refreshInterval: refreshInterval,
		byID:            make(map[string]int),
		specialties:     []string{},
		refreshC:        make(chan refreshRequest, 1),
	}

	go service.run(ctx)
	return service
}

// Load fetches the list once, falling back to the stored snapshot when the
// feed is unreachable. The service stays unloaded only if both fail.
func (s *Service) Load(ctx context.Context) error {
	if !s.tryStartRefresh() {
		return ErrRefreshInProgress
	}
	defer s.finishRefresh()

	s.failInterruptedRequests()

	fetchErr := s.reload(ctx, "")
	if fetchErr == nil {
		return nil
	}
	s.logger.Warn("could not load doctors from feed, trying snapshot", "err", fetchErr.Error())

	doctors, metadata, err := s.readSnapshot()
	if err != nil {
		s.logger.Error("could not load doctors from snapshot", "err", err.Error())
		return fmt.Errorf("failed to load doctors: %w", errors.Join(fetchErr, err))
	}

	if err := s.index(doctors, ""); err != nil {
		s.logger.Error("could not index snapshot", "err", err.Error())
	}
	s.swap(doctors, metadata.FetchedAt, true)
	s.logger.Info("loaded doctors from snapshot", "count", len(doctors), "fetched_at", metadata.FetchedAt)

	return nil
}

func (s *Service) List(filters FilterState) (ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return ListResult{}, ErrNotLoaded
	}

	filtered := FilterDoctors(s.doctors, filters)

	return ListResult{
		Doctors:     filtered,
		Total:       len(filtered),
		Specialties: s.specialties,
		Facets:      BuildFacets(s.doctors, filters),
		Filters:     filters,
		Query:       filters.Encode(),
	}, nil
}

func (s *Service) Get(id string) (Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return Doctor{}, ErrNotLoaded
	}

	position, ok := s.byID[id]
	if !ok {
		return Doctor{}, fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	}

	return s.doctors[position], nil
}

func (s *Service) Suggest(query string) ([]Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}

	return Suggest(s.doctors, query), nil
}

// Search runs a full-text query over names, specialities, clinics, places,
// introductions and languages.
func (s *Service) Search(query string, limit int, offset int) (SearchResult, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		return SearchResult{}, ErrNotLoaded
	}

	response, err := s.indexer.Search(query, limit, offset)
	if err != nil {
		s.logger.Error("search failed", "query", query, "err", err.Error())
		return SearchResult{}, fmt.Errorf("search failed: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]SearchHit, 0, len(response.Results))
	for _, result := range response.Results {
		position, ok := s.byID[result.ID]
		if !ok {
			s.logger.Warn("search returned a doctor that is no longer listed", "id", result.ID)
			continue
		}
		hits = append(hits, SearchHit{Doctor: s.doctors[position], Score: result.Score})
	}

	return SearchResult{Hits: hits, Total: int(response.Total)}, nil
}

func (s *Service) Status() Status {
	s.mu.RLock()
	status := Status{
		Loaded:       s.loaded,
		Count:        len(s.doctors),
		LoadedAt:     s.loadedAt,
		FromSnapshot: s.fromSnapshot,
	}
	s.mu.RUnlock()

	s.refreshMu.Lock()
	status.Refreshing = s.refreshing
	s.refreshMu.Unlock()

	indexed, err := s.indexer.GetDocCount()
	if err != nil {
		s.logger.Warn("could not count indexed doctors", "err", err.Error())
	}
	status.Indexed = indexed

	return status
}

func (s *Service) Close() error {
	return s.source.Close()
}

// swap replaces the served list in one step.
func (s *Service) swap(doctors []Doctor, loadedAt time.Time, fromSnapshot bool) {
	byID := make(map[string]int, len(doctors))
	for i, doctor := range doctors {
		byID[doctor.ID] = i
	}
	specialties := UniqueSpecialties(doctors)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doctors = doctors
	s.byID = byID
	s.specialties = specialties
	s.loaded = true
	s.loadedAt = loadedAt
	s.fromSnapshot = fromSnapshot
}

func (s *Service) currentIDs() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID
}

func toDocument(doctor Doctor) searchdb.Document {
	return searchdb.Document{
		ID:           doctor.ID,
		Name:         doctor.Name,
		Specialities: doctor.SpecialityNames(),
		Clinic:       doctor.Clinic.Name,
		Address:      doctor.Clinic.Address.FullAddress(),
		City:         doctor.Clinic.Address.City,
		Introduction: doctor.DoctorIntroduction,
		Languages:    doctor.Languages,
	}
}

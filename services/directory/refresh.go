package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jiyaaat/Doctor-listings/db/kvdb"
	"github.com/jiyaaat/Doctor-listings/db/searchdb"
)

const (
	ProgressQueued          = 0
	ProgressFetched         = 10
	ProgressSnapshotWritten = 50
	ProgressComplete        = 100
	ProgressFailed          = -1

	maxRefreshTime = 2 * time.Minute
)

const (
	snapshotDoctorsKey  = "doctors"
	snapshotMetadataKey = "metadata"
)

type refreshRequest struct {
	requestID string
}

// Refresh queues a reload of the feed. Only one refresh runs at a time.
func (s *Service) Refresh(requestID string) error {
	if !s.tryStartRefresh() {
		s.logger.Warn("request to refresh while a refresh is already in progress", "request_id", requestID)
		return ErrRefreshInProgress
	}

	s.setRequestStatus(requestID, ProgressQueued)
	s.refreshC <- refreshRequest{requestID: requestID}
	return nil
}

// RefreshStatus retrieves the progress of a refresh request.
func (s *Service) RefreshStatus(requestID string) (int, error) {
	value, err := s.store.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrRefreshNotFound, requestID)
		}
		return 0, fmt.Errorf("could not read refresh status: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

func (s *Service) run(ctx context.Context) {
	var tick <-chan time.Time
	if s.refreshInterval > 0 {
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case req := <-s.refreshC:
			s.runRefresh(ctx, req.requestID)
		case <-tick:
			if !s.tryStartRefresh() {
				continue
			}
			s.logger.Info("starting periodic refresh")
			s.runRefresh(ctx, "")
		case <-ctx.Done():
			s.logger.Info("directory refresh worker stopped", "reason", ctx.Err())
			return
		}
	}
}

func (s *Service) tryStartRefresh() bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.refreshing {
		return false
	}
	s.refreshing = true
	return true
}

func (s *Service) finishRefresh() {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.refreshing = false
}

func (s *Service) runRefresh(ctx context.Context, requestID string) {
	defer s.finishRefresh()

	refreshCtx, cancel := context.WithTimeout(ctx, maxRefreshTime)
	defer cancel()

	if err := s.reload(refreshCtx, requestID); err != nil {
		s.logger.Error("failed to refresh doctors", "request_id", requestID, "err", err.Error())
		s.setRequestStatus(requestID, ProgressFailed)
		return
	}

	s.setRequestStatus(requestID, ProgressComplete)
}

// reload fetches, snapshots and indexes the feed, then starts serving it.
func (s *Service) reload(ctx context.Context, requestID string) error {
	doctors, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch doctors: %w", err)
	}
	fetchedAt := time.Now().UTC()
	s.setRequestStatus(requestID, ProgressFetched)

	if err := s.writeSnapshot(doctors, fetchedAt); err != nil {
		// The feed is still usable; only the fallback is stale.
		s.logger.Error("failed to write snapshot", "request_id", requestID, "err", err.Error())
	}
	s.setRequestStatus(requestID, ProgressSnapshotWritten)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh cancelled: %w", err)
	}

	if err := s.index(doctors, requestID); err != nil {
		return err
	}

	s.swap(doctors, fetchedAt, false)
	s.logger.Info("refreshed doctors", "request_id", requestID, "count", len(doctors))

	return nil
}

// index adds every doctor to the search index and drops the ones that vanished.
func (s *Service) index(doctors []Doctor, requestID string) error {
	current := make(map[string]struct{}, len(doctors))
	documents := make([]searchdb.Document, 0, len(doctors))
	for _, doctor := range doctors {
		current[doctor.ID] = struct{}{}
		documents = append(documents, toDocument(doctor))
	}

	for start := 0; start < len(documents); start += searchdb.IndexingBatchSize {
		end := min(start+searchdb.IndexingBatchSize, len(documents))
		if err := s.indexer.BuildIndex(documents[start:end]); err != nil {
			s.logger.Error("failed to index doctors", "request_id", requestID, "err", err.Error())
			return fmt.Errorf("failed to index doctors: %w", err)
		}
		s.setRequestStatus(requestID, getProgressPercentage(end, len(documents), ProgressSnapshotWritten, ProgressComplete-1))
	}

	for id := range current {
		if err := s.store.Set(kvdb.IndexedBucket, id, "1"); err != nil {
			s.logger.Error("failed to record indexed doctor", "id", id, "err", err.Error())
			return fmt.Errorf("failed to record indexed doctor: %w", err)
		}
	}

	removed := s.getRemovedIDs(current)
	if len(removed) == 0 {
		return nil
	}

	s.logger.Info("removing doctors no longer listed from index", "count", len(removed))
	if err := s.indexer.DeleteDocuments(removed); err != nil {
		s.logger.Error("failed to delete documents from search index", "err", err.Error())
		return fmt.Errorf("failed to delete documents from search index: %w", err)
	}

	for _, id := range removed {
		if err := s.store.Delete(kvdb.IndexedBucket, id); err != nil {
			s.logger.Warn("failed to forget removed doctor", "id", id, "err", err.Error())
		}
	}

	return nil
}

// getRemovedIDs lists ids that are indexed, either by an earlier process
// (IndexedBucket) or by this one, but missing from current.
func (s *Service) getRemovedIDs(current map[string]struct{}) []string {
	indexed := make(map[string]struct{})
	for id := range s.currentIDs() {
		indexed[id] = struct{}{}
	}

	storedIDs, err := s.store.GetAllKeys(kvdb.IndexedBucket)
	if err != nil {
		s.logger.Warn("could not list indexed doctors, using in-memory list", "err", err.Error())
	}
	for _, id := range storedIDs {
		indexed[id] = struct{}{}
	}

	var removed []string
	for id := range indexed {
		if _, ok := current[id]; !ok {
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)

	return removed
}

func (s *Service) writeSnapshot(doctors []Doctor, fetchedAt time.Time) error {
	data, err := json.Marshal(doctors)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	metadata, err := json.Marshal(kvdb.SnapshotMetadata{FetchedAt: fetchedAt, Count: len(doctors)})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot metadata: %w", err)
	}

	if err := s.store.Set(kvdb.SnapshotBucket, snapshotDoctorsKey, string(data)); err != nil {
		return err
	}

	return s.store.Set(kvdb.SnapshotBucket, snapshotMetadataKey, string(metadata))
}

func (s *Service) readSnapshot() ([]Doctor, kvdb.SnapshotMetadata, error) {
	var metadata kvdb.SnapshotMetadata

	rawMetadata, err := s.store.Get(kvdb.SnapshotBucket, snapshotMetadataKey)
	if err != nil {
		return nil, metadata, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(rawMetadata), &metadata); err != nil {
		return nil, metadata, fmt.Errorf("failed to unmarshal snapshot metadata: %w", err)
	}

	rawDoctors, err := s.store.Get(kvdb.SnapshotBucket, snapshotDoctorsKey)
	if err != nil {
		return nil, metadata, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doctors []Doctor
	if err := json.Unmarshal([]byte(rawDoctors), &doctors); err != nil {
		return nil, metadata, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return doctors, metadata, nil
}

// failInterruptedRequests marks refreshes left unfinished by a previous process
// as failed. Unreadable records are removed.
func (s *Service) failInterruptedRequests() {
	requestIDs, err := s.store.GetAllKeys(kvdb.RequestsBucket)
	if err != nil {
		s.logger.Warn("could not list refresh requests", "err", err.Error())
		return
	}

	for _, requestID := range requestIDs {
		progress, err := s.RefreshStatus(requestID)
		if err != nil {
			s.logger.Warn("removing unreadable refresh request", "request_id", requestID, "err", err.Error())
			if err := s.store.Delete(kvdb.RequestsBucket, requestID); err != nil {
				s.logger.Error("failed to remove refresh request", "request_id", requestID, "err", err.Error())
			}
			continue
		}

		if progress != ProgressComplete && progress != ProgressFailed {
			s.logger.Info("marking interrupted refresh as failed", "request_id", requestID, "progress", progress)
			s.setRequestStatus(requestID, ProgressFailed)
		}
	}
}

// setRequestStatus is a no-op for refreshes nobody asked for.
func (s *Service) setRequestStatus(requestID string, status int) {
	if requestID == "" {
		return
	}
	if err := s.store.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "request_id", requestID, "progress", status, "err", err.Error())
	}
}

func getProgressPercentage(done int, total int, initial int, final int) int {
	if done == 0 || total == 0 {
		return initial
	}

	if done >= total {
		return final
	}

	progress := float64(done) / float64(total)
	result := float64(initial) + progress*float64(final-initial)

	return int(result)
}

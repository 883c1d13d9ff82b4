// Package analysis persists computed analysis events in an append-only
// WAL so downstream consumers can replay or stream them. The analytics
// core stays stateless; journaling is a host-process concern.
package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/avolkhov/marketcore/internal/domain"
)

const (
	defaultJournalDir   = "./wal/analysis"
	journalSegmentLimit = 100
	journalMaxSegments  = 10
	journalKeyPrefix    = "analysis_"
)

// WALStore is a WAL-backed journal of analysis events.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes the journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "analysis_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init analysis WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the analysis event. Callers must ensure event.Pair is set.
func (s *WALStore) Save(event domain.AnalysisEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("analysis store is not initialized")
	}
	if event.Pair == "" {
		return errors.New("analysis event pair is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal analysis event")
	}

	key := fmt.Sprintf("%s%s", journalKeyPrefix, event.Pair)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all analysis events written after the given index.
func (s *WALStore) EventsAfter(index uint64) ([]domain.AnalysisEventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("analysis store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.AnalysisEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, getErr := s.wal.Get(idx)
		if getErr != nil || !strings.HasPrefix(key, journalKeyPrefix) {
			continue
		}
		var event domain.AnalysisEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode analysis event")
		}
		records = append(records, domain.AnalysisEventRecord{Index: idx, Event: event})
	}

	return records, nil
}

// CurrentIndex returns the latest journal index.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("analysis store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

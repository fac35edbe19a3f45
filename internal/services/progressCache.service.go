package services

import (
	"context"
	"encoding/json"
	"time"

	"msp/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

const (
	progressKeyPrefix  = "progress:"
	progressCacheTTL   = 24 * time.Hour
	progressCtxTimeout = 5 * time.Second
)

// ValkeyProgressStore keeps progress records in a shared valkey instance so
// any replica can serve the polling endpoint. Each key is written only by the
// submission that owns the session, so read-modify-write per key is safe.
// Errors talking to the cache are logged and swallowed: progress tracking is
// best-effort and must never fail an upload.
type ValkeyProgressStore struct {
	cache valkey.Client
	log   logger.Logger
}

func NewValkeyProgressStore(cache valkey.Client) *ValkeyProgressStore {
	return &ValkeyProgressStore{
		cache: cache,
		log:   logger.New("progressStore").File("progressCache"),
	}
}

func (s *ValkeyProgressStore) Initialize(sessionID string, totalFiles int) {
	if sessionID == "" {
		return
	}

	record := newProgressRecord(totalFiles)
	s.set(sessionID, &record)
}

func (s *ValkeyProgressStore) Update(sessionID string, update types.ProgressUpdate) {
	record, ok := s.get(sessionID)
	if !ok {
		return
	}

	applyUpdate(record, update)
	s.set(sessionID, record)
}

func (s *ValkeyProgressStore) Complete(sessionID string) {
	record, ok := s.get(sessionID)
	if !ok {
		return
	}

	completeRecord(record)
	s.set(sessionID, record)
}

func (s *ValkeyProgressStore) Get(sessionID string) (types.ProgressRecord, bool) {
	record, ok := s.get(sessionID)
	if !ok {
		return types.ProgressRecord{}, false
	}
	return *record, true
}

func (s *ValkeyProgressStore) Clear(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), progressCtxTimeout)
	defer cancel()

	key := progressKeyPrefix + sessionID
	if err := s.cache.Do(ctx, s.cache.B().Del().Key(key).Build()).Error(); err != nil {
		s.log.Warn("failed to clear progress record", "sessionID", sessionID, "error", err)
	}
}

// ClearStale is a no-op here: every key carries a TTL and valkey expires it.
func (s *ValkeyProgressStore) ClearStale(maxIdle time.Duration) int {
	return 0
}

func (s *ValkeyProgressStore) get(sessionID string) (*types.ProgressRecord, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), progressCtxTimeout)
	defer cancel()

	key := progressKeyPrefix + sessionID
	raw, err := s.cache.Do(ctx, s.cache.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			s.log.Warn("failed to read progress record", "sessionID", sessionID, "error", err)
		}
		return nil, false
	}

	var record types.ProgressRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		s.log.Warn("failed to unmarshal progress record", "sessionID", sessionID, "error", err)
		return nil, false
	}
	return &record, true
}

func (s *ValkeyProgressStore) set(sessionID string, record *types.ProgressRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		s.log.Warn("failed to marshal progress record", "sessionID", sessionID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), progressCtxTimeout)
	defer cancel()

	key := progressKeyPrefix + sessionID
	cmd := s.cache.B().Set().Key(key).Value(string(raw)).
		Ex(progressCacheTTL).Build()
	if err := s.cache.Do(ctx, cmd).Error(); err != nil {
		s.log.Warn("failed to write progress record", "sessionID", sessionID, "error", err)
	}
}

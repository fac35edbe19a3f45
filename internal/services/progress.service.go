package services

import (
	"math"
	"sync"
	"time"

	"msp/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// ProgressStore is the keyed registry of upload/processing progress state.
// All writes are non-throwing: updating an absent session is a silent no-op
// so a failed upload can never turn into a progress-tracking failure, and a
// client polling before initialization simply sees not-found.
type ProgressStore interface {
	Initialize(sessionID string, totalFiles int)
	Update(sessionID string, update types.ProgressUpdate)
	Complete(sessionID string)
	Get(sessionID string) (types.ProgressRecord, bool)
	Clear(sessionID string)

	// ClearStale removes records idle longer than maxIdle and reports how
	// many were dropped. Backends with native key expiry may return 0.
	ClearStale(maxIdle time.Duration) int
}

func newProgressRecord(totalFiles int) types.ProgressRecord {
	return types.ProgressRecord{
		TotalFiles: totalFiles,
		Status:     types.ProgressPreparing,
		Steps: []types.ProgressStep{
			{Name: types.StepCreatingFolders, Status: types.StepPending, Files: []types.ProgressFile{}},
			{Name: types.StepApplicantDocs, Status: types.StepPending, Files: []types.ProgressFile{}},
			{Name: types.StepCoApplicantDocs, Status: types.StepPending, Files: []types.ProgressFile{}},
			{Name: types.StepFinalizing, Status: types.StepPending, Files: []types.ProgressFile{}},
		},
		UpdatedAt: time.Now(),
	}
}

// applyUpdate mutates a record in place. Shared between the in-memory and
// valkey-backed stores so both implement identical semantics.
func applyUpdate(record *types.ProgressRecord, update types.ProgressUpdate) {
	record.CurrentFile = update.FileName
	record.CurrentStep = update.Step
	record.Status = update.Status

	if update.Status != types.ProgressError {
		record.UploadedFiles++
	}
	record.Percentage = percentage(record.UploadedFiles, record.TotalFiles)

	stepIndex := -1
	for i := range record.Steps {
		if record.Steps[i].Name == update.Step {
			stepIndex = i
			break
		}
	}

	if stepIndex != -1 {
		// Earlier steps are done once a later one reports activity.
		for i := 0; i < stepIndex; i++ {
			if record.Steps[i].Status == types.StepInProgress {
				record.Steps[i].Status = types.StepCompleted
			}
		}

		step := &record.Steps[stepIndex]
		for i := range step.Files {
			step.Files[i].IsProcessing = false
		}
		step.Error = ""

		step.Files = append(step.Files, types.ProgressFile{
			Name:         update.FileName,
			Folder:       update.Folder,
			IsProcessing: update.Status != types.ProgressError,
		})

		if update.Status == types.ProgressError {
			step.Status = types.StepError
			step.Error = update.Error
		} else {
			step.Status = types.StepInProgress
		}
	}

	record.UpdatedAt = time.Now()
}

func completeRecord(record *types.ProgressRecord) {
	record.Status = types.ProgressCompleted
	record.Percentage = 100
	for i := range record.Steps {
		record.Steps[i].Status = types.StepCompleted
		for j := range record.Steps[i].Files {
			record.Steps[i].Files[j].IsProcessing = false
		}
	}
	record.UpdatedAt = time.Now()
}

// percentage is round(uploaded/total*100) clamped to [0,100]; a zero total
// never divides.
func percentage(uploaded, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(uploaded) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// MemoryProgressStore keeps progress records in a process-local map. Suitable
// for single-instance deployments; swap in the valkey-backed store when
// running more than one replica.
type MemoryProgressStore struct {
	mu      sync.RWMutex
	records map[string]*types.ProgressRecord
	log     logger.Logger
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{
		records: make(map[string]*types.ProgressRecord),
		log:     logger.New("progressStore"),
	}
}

func (s *MemoryProgressStore) Initialize(sessionID string, totalFiles int) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := newProgressRecord(totalFiles)
	s.records[sessionID] = &record
	s.log.Debug("progress initialized", "sessionID", sessionID, "totalFiles", totalFiles)
}

func (s *MemoryProgressStore) Update(sessionID string, update types.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[sessionID]
	if !ok {
		return
	}

	applyUpdate(record, update)
}

func (s *MemoryProgressStore) Complete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[sessionID]
	if !ok {
		return
	}

	completeRecord(record)
}

func (s *MemoryProgressStore) Get(sessionID string) (types.ProgressRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[sessionID]
	if !ok {
		return types.ProgressRecord{}, false
	}

	// Copy so pollers never observe a half-applied update.
	copied := *record
	copied.Steps = make([]types.ProgressStep, len(record.Steps))
	for i, step := range record.Steps {
		copied.Steps[i] = step
		copied.Steps[i].Files = append([]types.ProgressFile(nil), step.Files...)
	}
	return copied, true
}

func (s *MemoryProgressStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
}

func (s *MemoryProgressStore) ClearStale(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for sessionID, record := range s.records {
		if record.UpdatedAt.Before(cutoff) {
			delete(s.records, sessionID)
			removed++
		}
	}

	if removed > 0 {
		s.log.Info("cleared stale progress records", "removed", removed)
	}
	return removed
}

package voice

import (
	"errors"
	"sync"
	"time"

	"github.com/medicare-health/assistant-api/internal/model"
)

// ErrNotFound is returned when no record exists for a call SID.
var ErrNotFound = errors.New("call record not found")

// CallStore tracks reminder-call state for the process lifetime. One lock
// guards the map; it is held only for the single read or write of a record,
// never across network calls. Concurrent webhook updates are
// last-writer-wins. Records are never deleted.
type CallStore struct {
	mu      sync.Mutex
	records map[string]model.CallRecord
}

func NewCallStore() *CallStore {
	return &CallStore{records: make(map[string]model.CallRecord)}
}

// Create registers a freshly placed call with a pending response.
func (s *CallStore) Create(callSID, to, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[callSID] = model.CallRecord{
		CallSID:   callSID,
		To:        to,
		Status:    status,
		Response:  model.CallResponsePending,
		UpdatedAt: time.Now().UTC(),
	}
}

// RecordResponse stores the caller's gathered answer. The lifecycle status
// already on file is preserved; an unknown SID is recorded as completed,
// since a gather callback means the call actually ran.
func (s *CallStore) RecordResponse(callSID, to string, response model.CallResponse, speechResult string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "completed"
	if existing, ok := s.records[callSID]; ok {
		status = existing.Status
	}
	s.records[callSID] = model.CallRecord{
		CallSID:      callSID,
		To:           to,
		Status:       status,
		Response:     response,
		SpeechResult: speechResult,
		UpdatedAt:    time.Now().UTC(),
	}
}

// RecordStatus updates only the lifecycle status. Response and speech data
// already recorded must survive the update.
func (s *CallStore) RecordStatus(callSID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[callSID]
	if !ok {
		s.records[callSID] = model.CallRecord{
			CallSID:   callSID,
			Status:    status,
			Response:  model.CallResponsePending,
			UpdatedAt: time.Now().UTC(),
		}
		return
	}

	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()
	s.records[callSID] = existing
}

// Get returns the record for a call SID.
func (s *CallStore) Get(callSID string) (model.CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[callSID]
	if !ok {
		return model.CallRecord{}, ErrNotFound
	}
	return record, nil
}

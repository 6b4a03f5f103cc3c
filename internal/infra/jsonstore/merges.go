package jsonstore

import "github.com/runoshun/squad/internal/domain"

// MergeStore implements domain.MergeRecordRepository on the shared
// store. Records for a session are appended; the newest one wins.
type MergeStore struct {
	s *Store
}

// Ensure MergeStore implements domain.MergeRecordRepository.
var _ domain.MergeRecordRepository = (*MergeStore)(nil)

// Insert stores the record of a successful merge.
func (m *MergeStore) Insert(record *domain.MergeRecord) error {
	return m.s.withLockWrite(func(data *storeData) error {
		data.Merges[record.SessionID] = append(data.Merges[record.SessionID], record)
		return nil
	})
}

// FindBySession returns the most recent record for a session, or nil
// when the session was never merged.
func (m *MergeStore) FindBySession(sessionID string) (*domain.MergeRecord, error) {
	var record *domain.MergeRecord
	err := m.s.withLock(func(data *storeData) error {
		records := data.Merges[sessionID]
		if len(records) > 0 {
			record = records[len(records)-1]
		}
		return nil
	})
	return record, err
}

// MarkReverted flags the session's newest record as reverted and
// stores the revert commit sha.
func (m *MergeStore) MarkReverted(sessionID, revertSHA string) error {
	return m.s.withLockWrite(func(data *storeData) error {
		records := data.Merges[sessionID]
		if len(records) == 0 {
			return domain.ErrNoMergeRecord
		}
		latest := records[len(records)-1]
		latest.Reverted = true
		latest.RevertCommitSHA = revertSHA
		return nil
	})
}

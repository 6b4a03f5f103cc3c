package jsonstore

import (
	"slices"
	"strings"

	"github.com/runoshun/squad/internal/domain"
)

// ReportStore implements domain.ReportRepository on the shared store.
// A session has at most one report; re-reviewing replaces it.
type ReportStore struct {
	s *Store
}

// Ensure ReportStore implements domain.ReportRepository.
var _ domain.ReportRepository = (*ReportStore)(nil)

// Upsert stores the report for a session, replacing any previous one.
func (r *ReportStore) Upsert(report *domain.SessionReport) error {
	return r.s.withLockWrite(func(data *storeData) error {
		data.Reports[report.SessionID] = report
		return nil
	})
}

// FindBySession retrieves a session's report. Returns nil if the
// session was never reviewed.
func (r *ReportStore) FindBySession(sessionID string) (*domain.SessionReport, error) {
	var report *domain.SessionReport
	err := r.s.withLock(func(data *storeData) error {
		if found, ok := data.Reports[sessionID]; ok {
			report = found
			report.SessionID = sessionID
		}
		return nil
	})
	return report, err
}

// ListByTask retrieves reports for every session of a task, newest
// first.
func (r *ReportStore) ListByTask(taskSlug string) ([]*domain.SessionReport, error) {
	var reports []*domain.SessionReport
	err := r.s.withLock(func(data *storeData) error {
		for id, report := range data.Reports {
			if report.TaskSlug != taskSlug {
				continue
			}
			report.SessionID = id
			reports = append(reports, report)
		}
		return nil
	})

	slices.SortFunc(reports, func(a, b *domain.SessionReport) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return strings.Compare(a.SessionID, b.SessionID)
	})

	return reports, err
}

package domain

import "time"

// MergeRecord tracks one successful merge of a session branch into its
// task workspace. At most one non-reverted record exists per session;
// rollback is only possible through a record.
// Fields are ordered to minimize memory padding.
type MergeRecord struct {
	Created         time.Time `json:"created"`
	SessionID       string    `json:"sessionID"`
	TaskSlug        string    `json:"taskSlug"`
	BranchName      string    `json:"branchName"`
	MergeCommitSHA  string    `json:"mergeCommitSHA"`
	RevertCommitSHA string    `json:"revertCommitSHA,omitempty"`
	Reverted        bool      `json:"reverted"`
}

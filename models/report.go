// File: models/report.go
package models

import "time"

// Skip reasons recorded during decoding and import.
const (
	SkipMissingPosition = "missing position"
	SkipInvalidDate     = "invalid date"
	SkipWriteFailed     = "write failed"
	SkipEmployeeFailed  = "employee resolution failed"
	SkipSheetFailed     = "sheet failed"
	SkipFileFailed      = "file failed"
)

// SkipRecord describes the smallest unit dropped from an import.
type SkipRecord struct {
	File     string `json:"file,omitempty"`
	Sheet    string `json:"sheet,omitempty"`
	Row      int    `json:"row,omitempty"`
	Employee string `json:"employee,omitempty"`
	Date     string `json:"date,omitempty"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

// FileResult summarises one source file of an import.
type FileResult struct {
	File      string `json:"file"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	Sheets    int    `json:"sheets"`
	Employees int    `json:"employees"`
	Archive   string `json:"archive,omitempty"`
}

// ImportReport is returned to callers of an import; per-row detail also goes to the logs.
type ImportReport struct {
	BatchID        string       `json:"batchId"`
	StartedAt      time.Time    `json:"startedAt"`
	FinishedAt     time.Time    `json:"finishedAt"`
	Files          []FileResult `json:"files"`
	DatesReplaced  int          `json:"datesReplaced"`
	EntriesDeleted int64        `json:"entriesDeleted"`
	EntriesWritten int          `json:"entriesWritten"`
	EntriesFailed  int          `json:"entriesFailed"`
	Skipped        []SkipRecord `json:"skipped,omitempty"`
}

// OK reports whether at least one file was imported and none failed.
func (r *ImportReport) OK() bool {
	if len(r.Files) == 0 {
		return false
	}
	for _, f := range r.Files {
		if !f.OK {
			return false
		}
	}
	return true
}

// ImportTaskPayload is the asynq payload for a queued import.
type ImportTaskPayload struct {
	BatchID string   `json:"batchId"`
	Paths   []string `json:"paths"`
}

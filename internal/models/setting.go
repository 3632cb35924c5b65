package models

import "time"

// Setting is a process-wide key/value entry. The publication flag lives here
// so it persists independently of student records.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SettingKeyResultsPublished gates student visibility of their own results.
const SettingKeyResultsPublished = "results_published"

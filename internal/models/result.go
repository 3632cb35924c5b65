package models

import "time"

// ResultSummary is the display-ready aggregate for one student's results.
type ResultSummary struct {
	StudentID    string    `json:"student_id"`
	FullName     string    `json:"name"`
	Semester     string    `json:"semester"`
	Subjects     []Subject `json:"subjects"`
	GPA          float64   `json:"gpa"`
	AverageScore float64   `json:"average_score"`
	TotalCredits int       `json:"total_credits"`
	ResultImage  *string   `json:"resultImage,omitempty"`
	Published    bool      `json:"published"`
	GeneratedAt  time.Time `json:"generated_at"`
}

package models

import "time"

// Subject is one gradable course entry belonging to exactly one student.
// Grade is always derived from Score; the repository never persists one
// without recomputing the other.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"-"`
	Name      string    `db:"name" json:"name" validate:"required"`
	Code      string    `db:"code" json:"code" validate:"required"`
	Credits   int       `db:"credits" json:"credits" validate:"gt=0"`
	Score     float64   `db:"score" json:"score" validate:"gte=0"`
	Grade     string    `db:"grade" json:"grade"`
	Position  int       `db:"position" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectPatch is a partial subject update. A non-nil Score triggers a grade
// recomputation in the same statement that writes the score.
type SubjectPatch struct {
	Name    *string  `json:"name"`
	Code    *string  `json:"code"`
	Credits *int     `json:"credits" validate:"omitempty,gt=0"`
	Score   *float64 `json:"score"`
}

// Empty reports whether the patch carries no changes.
func (p SubjectPatch) Empty() bool {
	return p.Name == nil && p.Code == nil && p.Credits == nil && p.Score == nil
}

package models

import "time"

// Student represents one portal account. The identifier doubles as the login
// credential and the primary key; the password is stored verbatim, matching
// the portal this service replaces.
type Student struct {
	ID          string    `db:"id" json:"id" validate:"required"`
	FullName    string    `db:"full_name" json:"name" validate:"required"`
	Password    string    `db:"password" json:"password" validate:"required,min=4"`
	Semester    string    `db:"semester" json:"semester"`
	ResultImage *string   `db:"result_image" json:"resultImage,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Subjects []Subject `db:"-" json:"subjects"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// StudentPatch is a partial credential update. Nil fields are left untouched.
// NewID, when set and different from the current id, renames the record.
type StudentPatch struct {
	FullName *string `json:"name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=4"`
	Semester *string `json:"semester"`
	NewID    *string `json:"id" validate:"omitempty,min=1"`
}

// Empty reports whether the patch carries no changes.
func (p StudentPatch) Empty() bool {
	return p.FullName == nil && p.Password == nil && p.Semester == nil && p.NewID == nil
}

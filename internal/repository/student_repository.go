package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

const pqUniqueViolation = "23505"

// StudentRepository manages persistence for student records and their
// subjects. Every mutation runs inside a transaction so callers never observe
// a partially written record.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByCredentials returns the student whose id and password both match
// exactly. The comparison is case-sensitive and unhashed by design.
func (r *StudentRepository) FindByCredentials(ctx context.Context, id, password string) (*models.Student, error) {
	const query = `SELECT id, full_name, password, semester, result_image, created_at, updated_at
        FROM students WHERE id = $1 AND password = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, password); err != nil {
		return nil, err
	}
	if err := r.attachSubjects(ctx, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByID fetches a student with subjects by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, full_name, password, semester, result_image, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	if err := r.attachSubjects(ctx, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns students matching the filter together with their subjects.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, full_name, password, semester, result_image, created_at, updated_at
        FROM students WHERE %s ORDER BY id ASC LIMIT %d OFFSET %d`, where, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	if err := r.attachSubjectsBulk(ctx, students); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListAll returns every student with subjects, ordered by id. Export flows
// use it so the rendered roster is never truncated by pagination.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, full_name, password, semester, result_image, created_at, updated_at
        FROM students ORDER BY id ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	if err := r.attachSubjectsBulk(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// Create inserts a new student record together with any initial subjects. A
// colliding identifier surfaces as ErrDuplicateID so signup flows can present
// a specific message.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, full_name, password, semester, result_image, created_at, updated_at)
        VALUES (:id, :full_name, :password, :semester, :result_image, :created_at, :updated_at)`
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, student); err != nil {
			if isUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrDuplicateID, fmt.Sprintf("student id %q already exists", student.ID))
			}
			return fmt.Errorf("create student: %w", err)
		}
		for i := range student.Subjects {
			student.Subjects[i].StudentID = student.ID
			student.Subjects[i].Position = i
			if student.Subjects[i].ID == "" {
				student.Subjects[i].ID = uuid.NewString()
			}
			if student.Subjects[i].CreatedAt.IsZero() {
				student.Subjects[i].CreatedAt = now
			}
			student.Subjects[i].UpdatedAt = now
			if err := insertSubject(ctx, tx, &student.Subjects[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateCredentials applies a partial credential update. A rename to an id
// already owned by another student fails with ErrDuplicateID and leaves both
// records unchanged; a missing target yields sql.ErrNoRows.
func (r *StudentRepository) UpdateCredentials(ctx context.Context, id string, patch models.StudentPatch) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var current string
		if err := tx.GetContext(ctx, &current, "SELECT id FROM students WHERE id = $1 FOR UPDATE", id); err != nil {
			return err
		}

		sets := []string{"updated_at = $1"}
		args := []interface{}{time.Now().UTC()}

		if patch.FullName != nil {
			sets = append(sets, fmt.Sprintf("full_name = $%d", len(args)+1))
			args = append(args, *patch.FullName)
		}
		if patch.Password != nil {
			sets = append(sets, fmt.Sprintf("password = $%d", len(args)+1))
			args = append(args, *patch.Password)
		}
		if patch.Semester != nil {
			sets = append(sets, fmt.Sprintf("semester = $%d", len(args)+1))
			args = append(args, *patch.Semester)
		}
		if patch.NewID != nil && *patch.NewID != id {
			var exists int
			err := tx.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE id = $1 LIMIT 1", *patch.NewID)
			if err == nil {
				return appErrors.Clone(appErrors.ErrDuplicateID, fmt.Sprintf("student id %q already exists", *patch.NewID))
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("check rename target: %w", err)
			}
			// Subjects follow via ON UPDATE CASCADE on the foreign key.
			sets = append(sets, fmt.Sprintf("id = $%d", len(args)+1))
			args = append(args, *patch.NewID)
		}

		query := fmt.Sprintf("UPDATE students SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)+1)
		args = append(args, id)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return appErrors.Clone(appErrors.ErrDuplicateID, "student id already exists")
			}
			return fmt.Errorf("update credentials: %w", err)
		}
		return nil
	})
}

// Delete removes the student and, via cascade, all owned subjects.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceSubjects swaps the student's entire subject list in one transaction.
// Callers supply subjects with grades already derived from their scores.
func (r *StudentRepository) ReplaceSubjects(ctx context.Context, studentID string, subjects []models.Subject) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockStudent(ctx, tx, studentID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM subjects WHERE student_id = $1", studentID); err != nil {
			return fmt.Errorf("clear subjects: %w", err)
		}
		now := time.Now().UTC()
		for i := range subjects {
			subjects[i].StudentID = studentID
			subjects[i].Position = i
			if subjects[i].ID == "" {
				subjects[i].ID = uuid.NewString()
			}
			if subjects[i].CreatedAt.IsZero() {
				subjects[i].CreatedAt = now
			}
			subjects[i].UpdatedAt = now
			if err := insertSubject(ctx, tx, &subjects[i]); err != nil {
				return err
			}
		}
		return touchStudent(ctx, tx, studentID, now)
	})
}

// AddSubject appends a subject with a freshly derived identifier, unique
// within the student's list.
func (r *StudentRepository) AddSubject(ctx context.Context, studentID string, subject *models.Subject) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockStudent(ctx, tx, studentID); err != nil {
			return err
		}
		var next int
		if err := tx.GetContext(ctx, &next, "SELECT COALESCE(MAX(position)+1, 0) FROM subjects WHERE student_id = $1", studentID); err != nil {
			return fmt.Errorf("next subject position: %w", err)
		}
		now := time.Now().UTC()
		subject.ID = uuid.NewString()
		subject.StudentID = studentID
		subject.Position = next
		subject.CreatedAt = now
		subject.UpdatedAt = now
		if err := insertSubject(ctx, tx, subject); err != nil {
			return err
		}
		return touchStudent(ctx, tx, studentID, now)
	})
}

// UpdateSubject applies a partial update to one subject. When the caller
// supplies a score it must supply the matching grade; both columns change in
// a single statement so no reader ever sees them disagree.
func (r *StudentRepository) UpdateSubject(ctx context.Context, studentID, subjectID string, patch models.SubjectPatch, grade *string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockStudent(ctx, tx, studentID); err != nil {
			return err
		}

		now := time.Now().UTC()
		sets := []string{"updated_at = $1"}
		args := []interface{}{now}

		if patch.Name != nil {
			sets = append(sets, fmt.Sprintf("name = $%d", len(args)+1))
			args = append(args, *patch.Name)
		}
		if patch.Code != nil {
			sets = append(sets, fmt.Sprintf("code = $%d", len(args)+1))
			args = append(args, *patch.Code)
		}
		if patch.Credits != nil {
			sets = append(sets, fmt.Sprintf("credits = $%d", len(args)+1))
			args = append(args, *patch.Credits)
		}
		if patch.Score != nil {
			if grade == nil {
				return appErrors.Clone(appErrors.ErrValidation, "score update requires a derived grade")
			}
			sets = append(sets, fmt.Sprintf("score = $%d", len(args)+1))
			args = append(args, *patch.Score)
			sets = append(sets, fmt.Sprintf("grade = $%d", len(args)+1))
			args = append(args, *grade)
		}

		query := fmt.Sprintf("UPDATE subjects SET %s WHERE student_id = $%d AND id = $%d",
			strings.Join(sets, ", "), len(args)+1, len(args)+2)
		args = append(args, studentID, subjectID)

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update subject: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update subject: %w", err)
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return touchStudent(ctx, tx, studentID, now)
	})
}

// SetResultImage attaches the encoded image payload to the student.
func (r *StudentRepository) SetResultImage(ctx context.Context, studentID, payload string) error {
	return r.writeImage(ctx, studentID, &payload)
}

// ClearResultImage detaches the student's image payload.
func (r *StudentRepository) ClearResultImage(ctx context.Context, studentID string) error {
	return r.writeImage(ctx, studentID, nil)
}

func (r *StudentRepository) writeImage(ctx context.Context, studentID string, payload *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE students SET result_image = $1, updated_at = $2 WHERE id = $3",
		payload, time.Now().UTC(), studentID)
	if err != nil {
		return fmt.Errorf("write result image: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write result image: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *StudentRepository) attachSubjects(ctx context.Context, student *models.Student) error {
	const query = `SELECT id, student_id, name, code, credits, score, grade, position, created_at, updated_at
        FROM subjects WHERE student_id = $1 ORDER BY position ASC`
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, query, student.ID); err != nil {
		return fmt.Errorf("load subjects: %w", err)
	}
	student.Subjects = subjects
	return nil
}

func (r *StudentRepository) attachSubjectsBulk(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, len(students))
	index := make(map[string]int, len(students))
	for i := range students {
		ids[i] = students[i].ID
		index[students[i].ID] = i
		students[i].Subjects = []models.Subject{}
	}
	const query = `SELECT id, student_id, name, code, credits, score, grade, position, created_at, updated_at
        FROM subjects WHERE student_id = ANY($1) ORDER BY student_id, position ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load subjects: %w", err)
	}
	for _, subject := range subjects {
		if i, ok := index[subject.StudentID]; ok {
			students[i].Subjects = append(students[i].Subjects, subject)
		}
	}
	return nil
}

func (r *StudentRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func lockStudent(ctx context.Context, tx *sqlx.Tx, studentID string) error {
	var id string
	if err := tx.GetContext(ctx, &id, "SELECT id FROM students WHERE id = $1 FOR UPDATE", studentID); err != nil {
		return err
	}
	return nil
}

func touchStudent(ctx context.Context, tx *sqlx.Tx, studentID string, now time.Time) error {
	if _, err := tx.ExecContext(ctx, "UPDATE students SET updated_at = $1 WHERE id = $2", now, studentID); err != nil {
		return fmt.Errorf("touch student: %w", err)
	}
	return nil
}

func insertSubject(ctx context.Context, tx *sqlx.Tx, subject *models.Subject) error {
	const query = `INSERT INTO subjects (id, student_id, name, code, credits, score, grade, position, created_at, updated_at)
        VALUES (:id, :student_id, :name, :code, :credits, :score, :grade, :position, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

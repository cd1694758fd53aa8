package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

func (d *DB) UpsertStudent(ctx context.Context, upsert *store.Student) (*store.Student, error) {
	stmt := `
		INSERT INTO students (id, name, email, profile_url)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			profile_url = EXCLUDED.profile_url
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		upsert.Name,
		upsert.Email,
		upsert.ProfileURL,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert student")
	}
	return upsert, nil
}

func (d *DB) ListStudentDetails(ctx context.Context, find *store.FindStudent) ([]*store.StudentDetail, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "s.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Program != nil {
		where, args = append(where, "ap.program = "+placeholder(len(args)+1)), append(args, *find.Program)
	}
	if find.Status != nil {
		where, args = append(where, "ap.status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}

	query := `
		SELECT s.id, s.name, s.email, s.profile_url, ap.program, ap.status, ap.thesis_title, ap.thesis_url
		FROM students s
		LEFT JOIN academic_programs ap ON ap.student_id = s.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY s.id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list students")
	}
	defer rows.Close()

	list := []*store.StudentDetail{}
	for rows.Next() {
		var student store.StudentDetail
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.ProfileURL,
			&student.Program,
			&student.Status,
			&student.ThesisTitle,
			&student.ThesisURL,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan student")
		}
		list = append(list, &student)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpsertStudentLaboratory(ctx context.Context, studentID, laboratoryID int32) error {
	stmt := `
		INSERT INTO student_laboratories (student_id, laboratory_id)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (student_id, laboratory_id) DO NOTHING
	`
	if _, err := d.db.ExecContext(ctx, stmt, studentID, laboratoryID); err != nil {
		return errors.Wrap(err, "failed to upsert student laboratory")
	}
	return nil
}

func (d *DB) ListStudentLaboratories(ctx context.Context, studentID int32) ([]*store.Laboratory, error) {
	query := `
		SELECT l.id, l.name
		FROM laboratories l
		JOIN student_laboratories sl ON sl.laboratory_id = l.id
		WHERE sl.student_id = ` + placeholder(1) + `
		ORDER BY l.id
	`
	rows, err := d.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student laboratories")
	}
	defer rows.Close()

	list := []*store.Laboratory{}
	for rows.Next() {
		var laboratory store.Laboratory
		if err := rows.Scan(&laboratory.ID, &laboratory.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan laboratory")
		}
		list = append(list, &laboratory)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpsertAcademicProgram(ctx context.Context, upsert *store.AcademicProgram) (*store.AcademicProgram, error) {
	if upsert.ID == 0 {
		stmt := `
			INSERT INTO academic_programs (student_id, program, status, thesis_title, thesis_url)
			VALUES (` + placeholders(5) + `)
			RETURNING id
		`
		if err := d.db.QueryRowContext(ctx, stmt,
			upsert.StudentID,
			upsert.Program,
			upsert.Status,
			upsert.ThesisTitle,
			upsert.ThesisURL,
		).Scan(&upsert.ID); err != nil {
			return nil, errors.Wrap(err, "failed to insert academic program")
		}
		return upsert, nil
	}

	stmt := `
		INSERT INTO academic_programs (id, student_id, program, status, thesis_title, thesis_url)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (id)
		DO UPDATE SET
			student_id = EXCLUDED.student_id,
			program = EXCLUDED.program,
			status = EXCLUDED.status,
			thesis_title = EXCLUDED.thesis_title,
			thesis_url = EXCLUDED.thesis_url
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		upsert.StudentID,
		upsert.Program,
		upsert.Status,
		upsert.ThesisTitle,
		upsert.ThesisURL,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert academic program")
	}
	return upsert, nil
}

func (d *DB) ListAcademicPrograms(ctx context.Context, find *store.FindAcademicProgram) ([]*store.AcademicProgram, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.StudentID != nil {
		where, args = append(where, "student_id = "+placeholder(len(args)+1)), append(args, *find.StudentID)
	}

	query := `
		SELECT id, student_id, program, status, thesis_title, thesis_url
		FROM academic_programs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list academic programs")
	}
	defer rows.Close()

	list := []*store.AcademicProgram{}
	for rows.Next() {
		var program store.AcademicProgram
		if err := rows.Scan(
			&program.ID,
			&program.StudentID,
			&program.Program,
			&program.Status,
			&program.ThesisTitle,
			&program.ThesisURL,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan academic program")
		}
		list = append(list, &program)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

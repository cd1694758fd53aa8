package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

func (d *DB) UpsertProfessor(ctx context.Context, upsert *store.Professor) (*store.Professor, error) {
	stmt := `
		INSERT INTO professors (id, name, email, profile_url, laboratory_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			profile_url = excluded.profile_url,
			laboratory_id = excluded.laboratory_id
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		upsert.Name,
		upsert.Email,
		upsert.ProfileURL,
		upsert.LaboratoryID,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert professor")
	}
	return upsert, nil
}

func (d *DB) ListProfessorDetails(ctx context.Context, find *store.FindProfessor) ([]*store.ProfessorDetail, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "p.id = ?"), append(args, *find.ID)
	}
	if find.LaboratoryID != nil {
		where, args = append(where, "p.laboratory_id = ?"), append(args, *find.LaboratoryID)
	}

	query := `
		SELECT p.id, p.name, p.email, p.profile_url, p.laboratory_id, l.name
		FROM professors p
		JOIN laboratories l ON p.laboratory_id = l.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list professors")
	}
	defer rows.Close()

	list := []*store.ProfessorDetail{}
	for rows.Next() {
		var professor store.ProfessorDetail
		if err := rows.Scan(
			&professor.ID,
			&professor.Name,
			&professor.Email,
			&professor.ProfileURL,
			&professor.LaboratoryID,
			&professor.LaboratoryName,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan professor")
		}
		list = append(list, &professor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

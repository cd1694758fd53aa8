package postgres

import (
	"context"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

func (d *DB) UpsertLaboratory(ctx context.Context, upsert *store.Laboratory) (*store.Laboratory, error) {
	stmt := `
		INSERT INTO laboratories (id, name)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.ID, upsert.Name); err != nil {
		return nil, errors.Wrap(err, "failed to upsert laboratory")
	}
	return upsert, nil
}

func (d *DB) ListLaboratories(ctx context.Context) ([]*store.Laboratory, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name FROM laboratories ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list laboratories")
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

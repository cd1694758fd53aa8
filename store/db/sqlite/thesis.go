package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

func (d *DB) UpsertThesis(ctx context.Context, upsert *store.Thesis) (*store.Thesis, error) {
	stmt := `
		INSERT INTO theses (id, title, student_id, advisor1_id, advisor2_id, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			title = excluded.title,
			student_id = excluded.student_id,
			advisor1_id = excluded.advisor1_id,
			advisor2_id = excluded.advisor2_id
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		upsert.Title,
		upsert.StudentID,
		upsert.Advisor1ID,
		upsert.Advisor2ID,
		vectorToBlob(upsert.Embedding),
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert thesis")
	}
	return upsert, nil
}

func (d *DB) ListThesisDetails(ctx context.Context, find *store.FindThesis) ([]*store.ThesisDetail, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "t.id = ?"), append(args, *find.ID)
	}
	if find.StudentID != nil {
		where, args = append(where, "t.student_id = ?"), append(args, *find.StudentID)
	}
	if find.AdvisorID != nil {
		where, args = append(where, "(t.advisor1_id = ? OR t.advisor2_id = ?)"), append(args, *find.AdvisorID, *find.AdvisorID)
	}
	if find.HasEmbedding != nil {
		if *find.HasEmbedding {
			where = append(where, "t.embedding IS NOT NULL")
		} else {
			where = append(where, "t.embedding IS NULL")
		}
	}

	query := `
		SELECT
			t.id, t.title, t.student_id, s.name,
			t.advisor1_id, p1.name,
			t.advisor2_id, p2.name,
			t.embedding
		FROM theses t
		JOIN students s ON t.student_id = s.id
		JOIN professors p1 ON t.advisor1_id = p1.id
		LEFT JOIN professors p2 ON t.advisor2_id = p2.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list theses")
	}
	defer rows.Close()

	list := []*store.ThesisDetail{}
	for rows.Next() {
		var thesis store.ThesisDetail
		var blob []byte
		if err := rows.Scan(
			&thesis.ID,
			&thesis.Title,
			&thesis.StudentID,
			&thesis.StudentName,
			&thesis.Advisor1ID,
			&thesis.Advisor1Name,
			&thesis.Advisor2ID,
			&thesis.Advisor2Name,
			&blob,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan thesis")
		}
		if thesis.Embedding, err = blobToVector(blob); err != nil {
			return nil, err
		}
		list = append(list, &thesis)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateThesisEmbedding(ctx context.Context, id int32, embedding []float32) error {
	result, err := d.db.ExecContext(ctx,
		`UPDATE theses SET embedding = ? WHERE id = ?`,
		vectorToBlob(embedding), id,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update thesis embedding")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return errors.Errorf("thesis %d not found", id)
	}
	return nil
}

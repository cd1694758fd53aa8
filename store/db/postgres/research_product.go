package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

func (d *DB) UpsertResearchProduct(ctx context.Context, upsert *store.ResearchProduct) (*store.ResearchProduct, error) {
	if upsert.ID == 0 {
		stmt := `
			INSERT INTO research_products (title, site, year, professor_id, embedding)
			VALUES (` + placeholders(5) + `)
			RETURNING id
		`
		if err := d.db.QueryRowContext(ctx, stmt,
			upsert.Title,
			upsert.Site,
			upsert.Year,
			upsert.ProfessorID,
			vectorArg(upsert.Embedding),
		).Scan(&upsert.ID); err != nil {
			return nil, errors.Wrap(err, "failed to insert research product")
		}
		return upsert, nil
	}

	stmt := `
		INSERT INTO research_products (id, title, site, year, professor_id, embedding)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			site = EXCLUDED.site,
			year = EXCLUDED.year,
			professor_id = EXCLUDED.professor_id
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ID,
		upsert.Title,
		upsert.Site,
		upsert.Year,
		upsert.ProfessorID,
		vectorArg(upsert.Embedding),
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert research product")
	}
	return upsert, nil
}

func (d *DB) ListResearchProductDetails(ctx context.Context, find *store.FindResearchProduct) ([]*store.ResearchProductDetail, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "rp.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.ProfessorID != nil {
		where, args = append(where, "rp.professor_id = "+placeholder(len(args)+1)), append(args, *find.ProfessorID)
	}
	if find.MinYear != nil {
		where, args = append(where, "rp.year >= "+placeholder(len(args)+1)), append(args, *find.MinYear)
	}
	if find.MaxYear != nil {
		where, args = append(where, "rp.year <= "+placeholder(len(args)+1)), append(args, *find.MaxYear)
	}
	if find.HasEmbedding != nil {
		if *find.HasEmbedding {
			where = append(where, "rp.embedding IS NOT NULL")
		} else {
			where = append(where, "rp.embedding IS NULL")
		}
	}

	query := `
		SELECT
			rp.id, rp.title, rp.site, rp.year,
			rp.professor_id, p.name, l.name,
			rp.embedding
		FROM research_products rp
		JOIN professors p ON rp.professor_id = p.id
		JOIN laboratories l ON p.laboratory_id = l.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY rp.id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list research products")
	}
	defer rows.Close()

	list := []*store.ResearchProductDetail{}
	for rows.Next() {
		var product store.ResearchProductDetail
		var rawVector sql.NullString
		if err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Site,
			&product.Year,
			&product.ProfessorID,
			&product.ProfessorName,
			&product.LaboratoryName,
			&rawVector,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan research product")
		}
		if product.Embedding, err = scanVector(rawVector); err != nil {
			return nil, err
		}
		list = append(list, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateResearchProductEmbedding(ctx context.Context, id int32, embedding []float32) error {
	stmt := `UPDATE research_products SET embedding = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
	result, err := d.db.ExecContext(ctx, stmt, vectorArg(embedding), id)
	if err != nil {
		return errors.Wrap(err, "failed to update research product embedding")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return errors.Errorf("research product %d not found", id)
	}
	return nil
}

func (d *DB) RecommendationStats(ctx context.Context) (*store.RecommendationStats, error) {
	stats := &store.RecommendationStats{}

	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM theses WHERE embedding IS NOT NULL`,
	).Scan(&stats.ThesesWithEmbeddings); err != nil {
		return nil, errors.Wrap(err, "failed to count theses with embeddings")
	}

	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM research_products WHERE embedding IS NOT NULL`,
	).Scan(&stats.ResearchProductsWithEmbeddings); err != nil {
		return nil, errors.Wrap(err, "failed to count research products with embeddings")
	}

	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT professor_id) FROM research_products WHERE embedding IS NOT NULL`,
	).Scan(&stats.ProfessorsWithResearch); err != nil {
		return nil, errors.Wrap(err, "failed to count professors with research")
	}

	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT student_id) FROM theses WHERE embedding IS NOT NULL`,
	).Scan(&stats.StudentsWithTheses); err != nil {
		return nil, errors.Wrap(err, "failed to count students with theses")
	}

	if err := d.db.QueryRowContext(ctx,
		`SELECT MIN(year), MAX(year) FROM research_products WHERE embedding IS NOT NULL`,
	).Scan(&stats.MinYear, &stats.MaxYear); err != nil {
		return nil, errors.Wrap(err, "failed to read research year range")
	}

	return stats, nil
}

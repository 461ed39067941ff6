package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

// Schema creates the reference population table. Criterion columns are
// nullable; NULL leaves the criterion absent from the product.
const Schema = `
CREATE TABLE IF NOT EXISTS reference_products (
	dataset           TEXT    NOT NULL,
	product_id        TEXT    NOT NULL,
	name              TEXT    NOT NULL DEFAULT '',
	energy            DOUBLE PRECISION,
	saturated_fat     DOUBLE PRECISION,
	sugar             DOUBLE PRECISION,
	sodium            DOUBLE PRECISION,
	protein           DOUBLE PRECISION,
	fiber             DOUBLE PRECISION,
	fruit_veg_nut_pct DOUBLE PRECISION,
	additive_count    DOUBLE PRECISION,
	nutriscore_grade  TEXT,
	eco_grade         TEXT,
	organic           BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (dataset, product_id)
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// productColumns lists the criterion columns in electre.CriterionIDs order.
const productColumns = `product_id, name,
	energy, saturated_fat, sugar, sodium, protein, fiber, fruit_veg_nut_pct, additive_count,
	nutriscore_grade, eco_grade, organic`

func (s *PostgresStore) LoadProducts(ctx context.Context, dataset string) ([]electre.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM reference_products
		WHERE dataset = $1
		ORDER BY product_id`, dataset)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	ids := electre.CriterionIDs()
	var products []electre.Product
	for rows.Next() {
		var (
			p          electre.Product
			values     = make([]*float64, len(ids))
			nutri, eco sql.NullString
		)
		dest := []any{&p.ID, &p.Name}
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &nutri, &eco, &p.Organic)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p.Vector = make(electre.ProductVector, len(ids))
		for i, id := range ids {
			if values[i] != nil {
				p.Vector[id] = *values[i]
			}
		}
		if nutri.Valid {
			p.NutriScoreGrade = electre.Grade(nutri.String)
		}
		if eco.Valid {
			p.Eco = electre.Grade(eco.String)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("dataset %q: %w", dataset, ErrDatasetNotFound)
	}
	return products, nil
}

// ReplaceProducts swaps the content of a dataset in one transaction.
func (s *PostgresStore) ReplaceProducts(ctx context.Context, dataset string, products []electre.Product) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM reference_products WHERE dataset = $1`, dataset); err != nil {
		return 0, fmt.Errorf("clear dataset: %w", err)
	}

	ids := electre.CriterionIDs()
	columns := append([]string{"dataset", "product_id", "name"}, ids...)
	columns = append(columns, "nutriscore_grade", "eco_grade", "organic")

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"reference_products"}, columns,
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]
			row := []any{dataset, p.ID, p.Name}
			for _, id := range ids {
				if v, ok := p.Vector[id]; ok {
					row = append(row, v)
				} else {
					row = append(row, nil)
				}
			}
			return append(row, nullGrade(p.NutriScoreGrade), nullGrade(p.Eco), p.Organic), nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy products: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Datasets lists the dataset names with their product counts.
func (s *PostgresStore) Datasets(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT dataset, COUNT(*) FROM reference_products GROUP BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, rows.Err()
}

func nullGrade(g electre.Grade) any {
	if g == "" {
		return nil
	}
	return string(g)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"review-service/internal/domains/contenttype/model"
)

// sqlObjectSource serves instances of one content type straight from a host
// table. The table and column names come from the source registration, never
// from request input, so building the query by string formatting is safe here.
type sqlObjectSource struct {
	db            *pgxpool.Pool
	table         string
	idColumn      string
	displayColumn string
}

// NewSQLObjectSource builds an ObjectSource over a host table with an integer
// primary key and a textual display column.
func NewSQLObjectSource(db *pgxpool.Pool, table, idColumn, displayColumn string) model.ObjectSource {
	return &sqlObjectSource{
		db:            db,
		table:         table,
		idColumn:      idColumn,
		displayColumn: displayColumn,
	}
}

func (s *sqlObjectSource) List(ctx context.Context) ([]model.Object, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`,
		s.idColumn, s.displayColumn, s.table, s.displayColumn)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s objects: %w", s.table, err)
	}
	defer rows.Close()

	var objects []model.Object
	for rows.Next() {
		var obj model.Object
		if err := rows.Scan(&obj.ID, &obj.Display); err != nil {
			return nil, fmt.Errorf("failed to scan %s object: %w", s.table, err)
		}
		objects = append(objects, obj)
	}

	return objects, rows.Err()
}

func (s *sqlObjectSource) Get(ctx context.Context, id int64) (*model.Object, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		s.idColumn, s.displayColumn, s.table, s.idColumn)

	var obj model.Object
	err := s.db.QueryRow(ctx, query, id).Scan(&obj.ID, &obj.Display)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get %s object: %w", s.table, err)
	}

	return &obj, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelfline/internal/domains/author"
	"shelfline/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed author repository.
func NewPostgresRepository(pool *pgxpool.Pool) author.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
        INSERT INTO authors (first_name, last_name)
        VALUES ($1, $2)
        RETURNING id, first_name, last_name, created_at, updated_at
    `

	var created author.Author
	err := r.pool.QueryRow(ctx, query, a.FirstName, a.LastName).Scan(
		&created.ID,
		&created.FirstName,
		&created.LastName,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	query := `
        SELECT id, first_name, last_name, created_at, updated_at
        FROM authors
        WHERE id = $1
    `

	var a author.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	return &a, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]author.Author, error) {
	// Primary-key order keeps page windows stable across identical queries.
	query := `
        SELECT id, first_name, last_name, created_at, updated_at
        FROM authors
        ORDER BY id ASC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []author.Author
	for rows.Next() {
		var a author.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}

	return authors, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *author.Author) error {
	query := `
        UPDATE authors
        SET first_name = $1, last_name = $2, updated_at = NOW()
        WHERE id = $3
    `

	cmdTag, err := r.pool.Exec(ctx, query, a.FirstName, a.LastName, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return author.ErrAuthorNotFound
	}

	return nil
}

// Delete removes the author and its books in one transaction. The books
// table also declares ON DELETE CASCADE; the explicit two-step keeps the
// cascade invariant independent of FK enforcement.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM books WHERE author_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete author's books: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete author: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return author.ErrAuthorNotFound
		}

		return nil
	})
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shelfline/internal/domains/author"
	"shelfline/internal/domains/book"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed book repository.
func NewPostgresRepository(pool *pgxpool.Pool) book.Repository {
	return &postgresRepository{pool: pool}
}

// bookRow scans one joined row; the author columns are nullable because the
// association itself is.
func scanBookRow(row pgx.Row) (*book.Book, error) {
	var b book.Book
	var authorID *int64
	var firstName, lastName *string
	var authorCreated, authorUpdated *time.Time

	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.CoverText,
		&b.Comment,
		&b.AuthorID,
		&b.CreatedAt,
		&b.UpdatedAt,
		&authorID,
		&firstName,
		&lastName,
		&authorCreated,
		&authorUpdated,
	)
	if err != nil {
		return nil, err
	}

	if authorID != nil {
		b.Author = &author.Author{
			ID:        *authorID,
			FirstName: *firstName,
			LastName:  *lastName,
			CreatedAt: *authorCreated,
			UpdatedAt: *authorUpdated,
		}
	}

	return &b, nil
}

const selectBookColumns = `
        b.id, b.title, b.cover_text, b.comment, b.author_id, b.created_at, b.updated_at,
        a.id, a.first_name, a.last_name, a.created_at, a.updated_at
`

func (r *postgresRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
        INSERT INTO books (title, cover_text, comment, author_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	created := *b
	err := r.pool.QueryRow(ctx, query, b.Title, b.CoverText, b.Comment, b.AuthorID).Scan(
		&created.ID,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	query := `
        SELECT ` + selectBookColumns + `
        FROM books b
        LEFT JOIN authors a ON a.id = b.author_id
        WHERE b.id = $1
    `

	b, err := scanBookRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return b, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]book.Book, error) {
	// Primary-key order keeps page windows stable across identical queries.
	query := `
        SELECT ` + selectBookColumns + `
        FROM books b
        LEFT JOIN authors a ON a.id = b.author_id
        ORDER BY b.id ASC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []book.Book
	for rows.Next() {
		b, err := scanBookRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *book.Book) error {
	query := `
        UPDATE books
        SET title = $1, cover_text = $2, comment = $3, author_id = $4, updated_at = NOW()
        WHERE id = $5
    `

	cmdTag, err := r.pool.Exec(ctx, query, b.Title, b.CoverText, b.Comment, b.AuthorID, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

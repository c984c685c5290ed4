package book

import "context"

// Repository defines book data access. All reads embed the referenced
// author when present.
type Repository interface {
	// Create inserts a new book and returns it with the store-assigned id.
	Create(ctx context.Context, b *Book) (*Book, error)

	// GetByID returns ErrBookNotFound if the id does not resolve.
	GetByID(ctx context.Context, id int64) (*Book, error)

	// GetAll returns every book ordered by id ascending. The stable order
	// is what makes cached page windows deterministic.
	GetAll(ctx context.Context) ([]Book, error)

	// Update persists the mutable fields of an existing book.
	Update(ctx context.Context, b *Book) error

	// Delete removes the book by id.
	Delete(ctx context.Context, id int64) error
}

package book

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"shelfline/internal/domains/author"
	"shelfline/internal/shared/serializer"
)

// CacheTag scopes every cached book list page. Author mutations invalidate
// it too, because book views embed author data.
const CacheTag = "booksCache"

// GroupRead is the serialization group for book read views.
const GroupRead = "getBooks"

// Book references at most one author. The reference is either null or points
// at an existing author; it is never dangling (the store cascades deletes).
type Book struct {
	ID        int64          `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	CoverText string         `json:"coverText" db:"cover_text"`
	Comment   *string        `json:"comment" db:"comment"`
	AuthorID  *int64         `json:"authorId" db:"author_id"`
	Author    *author.Author `json:"author"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// Validate checks entity-level constraints. Returns validation.Errors keyed
// by field on failure.
func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&b.CoverText, validation.Required, validation.Length(1, 255)),
		validation.Field(&b.Comment, validation.Length(1, 255)),
	)
}

// Serialize shapes the book for output. The comment field only exists for
// callers on version 2.0 or newer. Links are attached by the caller so
// cached data stays role-neutral.
func (b *Book) Serialize(v serializer.Version, links serializer.Links) map[string]interface{} {
	doc := serializer.NewDoc(GroupRead, v).
		Field("id", b.ID, GroupRead).
		Field("title", b.Title, GroupRead).
		Field("coverText", b.CoverText, GroupRead).
		FieldSince("comment", b.Comment, serializer.V2, GroupRead)

	var embedded map[string]interface{}
	if b.Author != nil {
		embedded = b.Author.Embed(v)
	}
	doc.Field("author", embedded, GroupRead)

	return doc.Links(links).Map()
}

// CreateBookRequest - POST /api/v1/books
// IDAuthor carries the referenced author id; an unresolvable id leaves the
// association null instead of failing the request.
type CreateBookRequest struct {
	Title     string  `json:"title"`
	CoverText string  `json:"coverText"`
	Comment   *string `json:"comment"`
	IDAuthor  *int64  `json:"idAuthor"`
}

func (req *CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:     req.Title,
		CoverText: req.CoverText,
		Comment:   req.Comment,
	}
}

// UpdateBookRequest - PUT /api/v1/books/:id
// Title, coverText, comment and the author reference are mutable; the id
// never changes.
type UpdateBookRequest struct {
	Title     string  `json:"title"`
	CoverText string  `json:"coverText"`
	Comment   *string `json:"comment"`
	IDAuthor  *int64  `json:"idAuthor"`
}

func (req *UpdateBookRequest) ApplyToEntity(b *Book) {
	b.Title = req.Title
	b.CoverText = req.CoverText
	b.Comment = req.Comment
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shelfline/internal/domains/author"
	"shelfline/internal/domains/book"
	"shelfline/pkg/cache"
	"shelfline/pkg/logger"
	"shelfline/pkg/pagination"
)

type bookServiceImpl struct {
	repository book.Repository
	authors    author.Repository
	cache      cache.TagCache
	listTTL    time.Duration
}

func NewBookService(repo book.Repository, authors author.Repository, tagCache cache.TagCache, listTTL time.Duration) book.Service {
	return &bookServiceImpl{
		repository: repo,
		authors:    authors,
		cache:      tagCache,
		listTTL:    listTTL,
	}
}

// listPage is the cached unit: one id-ordered window plus the total count.
// It holds full entities, not shaped output, so version- and role-dependent
// shaping happens per request after the cache.
type listPage struct {
	Items []book.Book `json:"items"`
	Total int         `json:"total"`
}

func (s *bookServiceImpl) List(ctx context.Context, page, limit int) ([]book.Book, int, error) {
	key := fmt.Sprintf("getAllBooks-%d-%d", page, limit)

	data, err := s.cache.GetOrCompute(ctx, key, book.CacheTag, s.listTTL, func(ctx context.Context) ([]byte, error) {
		all, err := s.repository.GetAll(ctx)
		if err != nil {
			return nil, err
		}

		return json.Marshal(listPage{
			Items: pagination.Paginate(all, page, limit),
			Total: len(all),
		})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	var cached listPage
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, 0, fmt.Errorf("list books: corrupt cache entry: %w", err)
	}

	if cached.Items == nil {
		cached.Items = []book.Book{}
	}
	return cached.Items, cached.Total, nil
}

func (s *bookServiceImpl) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	entity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if book.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return entity, nil
}

// resolveAuthor attaches the referenced author to the entity. An id that
// does not resolve leaves the association null; the write still succeeds.
func (s *bookServiceImpl) resolveAuthor(ctx context.Context, b *book.Book, idAuthor *int64) error {
	b.AuthorID = nil
	b.Author = nil

	if idAuthor == nil {
		return nil
	}

	resolved, err := s.authors.GetByID(ctx, *idAuthor)
	if err != nil {
		if author.IsNotFound(err) {
			logger.Warn("book author reference did not resolve, leaving association unset", map[string]interface{}{
				"idAuthor": *idAuthor,
			})
			return nil
		}
		return fmt.Errorf("resolve author: %w", err)
	}

	b.AuthorID = &resolved.ID
	b.Author = resolved
	return nil
}

func (s *bookServiceImpl) Create(ctx context.Context, req *book.CreateBookRequest) (*book.Book, error) {
	entity := req.ToEntity()

	// Validation precedes any store mutation.
	if err := entity.Validate(); err != nil {
		return nil, err
	}

	if err := s.resolveAuthor(ctx, entity, req.IDAuthor); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	created.Author = entity.Author

	// Stale list pages must be gone before the caller sees the 201. The
	// detail view is never cached, so there is nothing else to drop.
	s.cache.InvalidateTag(ctx, book.CacheTag)

	return created, nil
}

func (s *bookServiceImpl) Update(ctx context.Context, id int64, req *book.UpdateBookRequest) error {
	entity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if book.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update book: %w", err)
	}

	req.ApplyToEntity(entity)
	if err := s.resolveAuthor(ctx, entity, req.IDAuthor); err != nil {
		return err
	}

	if err := entity.Validate(); err != nil {
		return err
	}

	if err := s.repository.Update(ctx, entity); err != nil {
		if book.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update book: %w", err)
	}

	s.cache.InvalidateTag(ctx, book.CacheTag)
	return nil
}

func (s *bookServiceImpl) Delete(ctx context.Context, id int64) error {
	// Invalidate before the row goes away: a list page rebuilt between the
	// invalidation and the delete still reflects a consistent store state,
	// and the next write invalidates again.
	s.cache.InvalidateTag(ctx, book.CacheTag)

	if err := s.repository.Delete(ctx, id); err != nil {
		if book.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.cache.InvalidateTag(ctx, book.CacheTag)
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shelfline/internal/domains/author"
	"shelfline/internal/domains/book"
	"shelfline/pkg/cache"
	"shelfline/pkg/pagination"
)

type authorServiceImpl struct {
	repository author.Repository
	cache      cache.TagCache
	listTTL    time.Duration
}

func NewAuthorService(repo author.Repository, tagCache cache.TagCache, listTTL time.Duration) author.Service {
	return &authorServiceImpl{
		repository: repo,
		cache:      tagCache,
		listTTL:    listTTL,
	}
}

// listPage is the cached unit: one id-ordered window plus the total count.
type listPage struct {
	Items []author.Author `json:"items"`
	Total int             `json:"total"`
}

func (s *authorServiceImpl) List(ctx context.Context, page, limit int) ([]author.Author, int, error) {
	key := fmt.Sprintf("getAllAuthors-%d-%d", page, limit)

	data, err := s.cache.GetOrCompute(ctx, key, author.CacheTag, s.listTTL, func(ctx context.Context) ([]byte, error) {
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
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}

	var cached listPage
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, 0, fmt.Errorf("list authors: corrupt cache entry: %w", err)
	}

	if cached.Items == nil {
		cached.Items = []author.Author{}
	}
	return cached.Items, cached.Total, nil
}

func (s *authorServiceImpl) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	entity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if author.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	return entity, nil
}

// invalidate drops both tag scopes: book views embed author data, so any
// author write can change serialized book output.
func (s *authorServiceImpl) invalidate(ctx context.Context) {
	s.cache.InvalidateTag(ctx, author.CacheTag)
	s.cache.InvalidateTag(ctx, book.CacheTag)
}

func (s *authorServiceImpl) Create(ctx context.Context, req *author.CreateAuthorRequest) (*author.Author, error) {
	entity := req.ToEntity()

	// Validation precedes any store mutation.
	if err := entity.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *authorServiceImpl) Update(ctx context.Context, id int64, req *author.UpdateAuthorRequest) error {
	entity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if author.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update author: %w", err)
	}

	req.ApplyToEntity(entity)
	if err := entity.Validate(); err != nil {
		return err
	}

	if err := s.repository.Update(ctx, entity); err != nil {
		if author.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update author: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *authorServiceImpl) Delete(ctx context.Context, id int64) error {
	// Invalidate before the rows go away; the delete cascades to the
	// author's books inside one transaction.
	s.invalidate(ctx)

	if err := s.repository.Delete(ctx, id); err != nil {
		if author.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("delete author: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

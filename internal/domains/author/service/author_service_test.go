package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfline/internal/domains/author"
	"shelfline/internal/domains/book"
	infracache "shelfline/internal/infrastructure/cache"
	"shelfline/internal/shared/response"
	"shelfline/pkg/cache"
)

// fakeRepo keeps authors and the books that reference them so Delete can
// exercise the cascade the relational store provides.
type fakeRepo struct {
	mu          sync.Mutex
	nextID      int64
	authors     map[int64]author.Author
	books       map[int64]int64 // book id -> author id
	getAllCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:  1,
		authors: make(map[int64]author.Author),
		books:   make(map[int64]int64),
	}
}

func (r *fakeRepo) addBook(id, authorID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[id] = authorID
}

func (r *fakeRepo) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *a
	created.ID = r.nextID
	r.nextID++
	r.authors[created.ID] = created
	return &created, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	return &a, nil
}

func (r *fakeRepo) GetAll(ctx context.Context) ([]author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getAllCalls++

	var authors []author.Author
	for id := int64(1); id < r.nextID; id++ {
		if a, ok := r.authors[id]; ok {
			authors = append(authors, a)
		}
	}
	return authors, nil
}

func (r *fakeRepo) Update(ctx context.Context, a *author.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[a.ID]; !ok {
		return author.ErrAuthorNotFound
	}
	r.authors[a.ID] = *a
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return author.ErrAuthorNotFound
	}
	for bid, aid := range r.books {
		if aid == id {
			delete(r.books, bid)
		}
	}
	delete(r.authors, id)
	return nil
}

func newTestService(t *testing.T) (author.Service, *fakeRepo, cache.TagCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tagCache := infracache.NewRedisTagCache(client)

	repo := newFakeRepo()
	svc := NewAuthorService(repo, tagCache, time.Minute)
	return svc, repo, tagCache
}

func TestListWindowingAndCaching(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	names := []string{"Frank", "Brian", "Kevin", "Ursula", "Isaac"}
	for _, n := range names {
		_, err := svc.Create(ctx, &author.CreateAuthorRequest{FirstName: n, LastName: "Writer"})
		require.NoError(t, err)
	}

	authors, total, err := svc.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, authors, 2)
	assert.Equal(t, "Ursula", authors[0].FirstName)

	calls := repo.getAllCalls
	again, _, err := svc.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, calls, repo.getAllCalls, "second list within TTL must not hit the store")
	assert.Equal(t, authors, again)
}

func TestListPagePastEnd(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &author.CreateAuthorRequest{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)

	authors, total, err := svc.List(ctx, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, authors)
}

func TestCreateValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &author.CreateAuthorRequest{FirstName: "", LastName: ""})
	require.Error(t, err)

	violations, ok := response.ViolationsFrom(err)
	require.True(t, ok)
	assert.Len(t, violations, 2)
	assert.Empty(t, repo.authors, "validation failure must not persist anything")
}

func TestUpdateMutatesOnlyNames(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &author.CreateAuthorRequest{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)

	err = svc.Update(ctx, created.ID, &author.UpdateAuthorRequest{FirstName: "Franklin", LastName: "Herbert"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID, "id never changes")
	assert.Equal(t, "Franklin", got.FirstName)
}

func TestDeleteCascadesToBooks(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &author.CreateAuthorRequest{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)
	repo.addBook(10, created.ID)
	repo.addBook(11, created.ID)
	repo.addBook(12, created.ID+100) // someone else's book survives

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
	assert.NotContains(t, repo.books, int64(10))
	assert.NotContains(t, repo.books, int64(11))
	assert.Contains(t, repo.books, int64(12))
}

func TestDeleteMissingAuthor(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
}

func TestAuthorWritesInvalidateBookListCache(t *testing.T) {
	svc, _, tagCache := newTestService(t)
	ctx := context.Background()

	// Prime a cached book list page; book views embed author data, so an
	// author write must drop it.
	computes := 0
	prime := func() {
		_, err := tagCache.GetOrCompute(ctx, "getAllBooks-1-3", book.CacheTag, time.Minute, func(ctx context.Context) ([]byte, error) {
			computes++
			return []byte("page"), nil
		})
		require.NoError(t, err)
	}

	prime()
	prime()
	require.Equal(t, 1, computes)

	created, err := svc.Create(ctx, &author.CreateAuthorRequest{FirstName: "Frank", LastName: "Herbert"})
	require.NoError(t, err)

	prime()
	assert.Equal(t, 2, computes, "author create must invalidate the book tag")

	err = svc.Update(ctx, created.ID, &author.UpdateAuthorRequest{FirstName: "Franklin", LastName: "Herbert"})
	require.NoError(t, err)

	prime()
	assert.Equal(t, 3, computes, "author update must invalidate the book tag")
}

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

// memStore backs both fake repositories so author deletes can cascade the
// same way the relational store does.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	authors     map[int64]author.Author
	books       map[int64]book.Book
	getAllCalls int
}

func newMemStore() *memStore {
	return &memStore{
		nextID:  1,
		authors: make(map[int64]author.Author),
		books:   make(map[int64]book.Book),
	}
}

func (s *memStore) addAuthor(first, last string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.authors[id] = author.Author{ID: id, FirstName: first, LastName: last}
	return id
}

type fakeBookRepo struct{ store *memStore }

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	created := *b
	created.ID = r.store.nextID
	r.store.nextID++
	r.store.books[created.ID] = created
	return &created, nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id int64) (*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *fakeBookRepo) GetAll(ctx context.Context) ([]book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.getAllCalls++

	var books []book.Book
	for id := int64(1); id < r.store.nextID; id++ {
		if b, ok := r.store.books[id]; ok {
			books = append(books, b)
		}
	}
	return books, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.store.books[b.ID] = *b
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.store.books, id)
	return nil
}

type fakeAuthorRepo struct{ store *memStore }

func (r *fakeAuthorRepo) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	id := r.store.addAuthor(a.FirstName, a.LastName)
	created := *a
	created.ID = id
	return &created, nil
}

func (r *fakeAuthorRepo) GetByID(ctx context.Context, id int64) (*author.Author, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	return &a, nil
}

func (r *fakeAuthorRepo) GetAll(ctx context.Context) ([]author.Author, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var authors []author.Author
	for id := int64(1); id < r.store.nextID; id++ {
		if a, ok := r.store.authors[id]; ok {
			authors = append(authors, a)
		}
	}
	return authors, nil
}

func (r *fakeAuthorRepo) Update(ctx context.Context, a *author.Author) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.authors[a.ID]; !ok {
		return author.ErrAuthorNotFound
	}
	r.store.authors[a.ID] = *a
	return nil
}

func (r *fakeAuthorRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.authors[id]; !ok {
		return author.ErrAuthorNotFound
	}
	// Cascade, as the store's foreign key does.
	for bid, b := range r.store.books {
		if b.AuthorID != nil && *b.AuthorID == id {
			delete(r.store.books, bid)
		}
	}
	delete(r.store.authors, id)
	return nil
}

func newTestService(t *testing.T) (book.Service, *memStore, cache.TagCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tagCache := infracache.NewRedisTagCache(client)

	store := newMemStore()
	svc := NewBookService(&fakeBookRepo{store: store}, &fakeAuthorRepo{store: store}, tagCache, time.Minute)
	return svc, store, tagCache
}

func strPtr(s string) *string { return &s }

func TestListWindowing(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C", "D", "E"} {
		_, err := svc.Create(ctx, &book.CreateBookRequest{Title: title, CoverText: "cover"})
		require.NoError(t, err)
	}

	// 5 books, page 2 of limit 3 holds the last two.
	books, total, err := svc.List(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, books, 2)
	assert.Equal(t, "D", books[0].Title)
	assert.Equal(t, "E", books[1].Title)
}

func TestListCachesWithinTTL(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &book.CreateBookRequest{Title: "Dune", CoverText: "cover"})
	require.NoError(t, err)

	first, _, err := svc.List(ctx, 1, 3)
	require.NoError(t, err)
	callsAfterFirst := store.getAllCalls

	second, _, err := svc.List(ctx, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, store.getAllCalls, "second list within TTL must not hit the store")
	assert.Equal(t, first, second)
}

func TestWritesInvalidateListCache(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &book.CreateBookRequest{Title: "Dune", CoverText: "cover"})
	require.NoError(t, err)

	_, _, err = svc.List(ctx, 1, 3)
	require.NoError(t, err)
	calls := store.getAllCalls

	// Update invalidates: the next list recomputes and sees the new title.
	err = svc.Update(ctx, created.ID, &book.UpdateBookRequest{Title: "Dune Messiah", CoverText: "cover"})
	require.NoError(t, err)

	books, _, err := svc.List(ctx, 1, 3)
	require.NoError(t, err)
	assert.Greater(t, store.getAllCalls, calls)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune Messiah", books[0].Title)

	// Delete invalidates too.
	calls = store.getAllCalls
	require.NoError(t, svc.Delete(ctx, created.ID))

	books, total, err := svc.List(ctx, 1, 3)
	require.NoError(t, err)
	assert.Greater(t, store.getAllCalls, calls)
	assert.Empty(t, books)
	assert.Zero(t, total)
}

func TestCreateResolvesExistingAuthor(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	authorID := store.addAuthor("Frank", "Herbert")

	created, err := svc.Create(ctx, &book.CreateBookRequest{
		Title:     "Dune",
		CoverText: "cover",
		IDAuthor:  &authorID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Author)
	assert.Equal(t, authorID, created.Author.ID)

	// Round trip: the stored book carries the association.
	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, authorID, *got.AuthorID)
}

func TestCreateWithUnknownAuthorLeavesAssociationNull(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	missing := int64(9999)
	created, err := svc.Create(ctx, &book.CreateBookRequest{
		Title:     "Dune",
		CoverText: "cover",
		IDAuthor:  &missing,
	})
	require.NoError(t, err, "an unresolvable author id must not fail the request")
	assert.Nil(t, created.Author)
	assert.Nil(t, created.AuthorID)
}

func TestCreateValidationFailureHasNoSideEffects(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &book.CreateBookRequest{Title: "", CoverText: ""})
	require.Error(t, err)

	violations, ok := response.ViolationsFrom(err)
	require.True(t, ok)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "coverText")

	assert.Empty(t, store.books, "validation failure must not persist anything")
}

func TestUpdateReassignsAuthor(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	firstAuthor := store.addAuthor("Frank", "Herbert")
	secondAuthor := store.addAuthor("Brian", "Herbert")

	created, err := svc.Create(ctx, &book.CreateBookRequest{
		Title:     "Dune",
		CoverText: "cover",
		IDAuthor:  &firstAuthor,
	})
	require.NoError(t, err)

	err = svc.Update(ctx, created.ID, &book.UpdateBookRequest{
		Title:     "Dune",
		CoverText: "cover",
		IDAuthor:  &secondAuthor,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, secondAuthor, *got.AuthorID)
}

func TestUpdateMissingBook(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Update(context.Background(), 42, &book.UpdateBookRequest{Title: "x", CoverText: "y"})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestDeleteMissingBook(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestCommentRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &book.CreateBookRequest{
		Title:     "Dune",
		CoverText: "cover",
		Comment:   strPtr("a classic"),
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Comment)
	assert.Equal(t, "a classic", *got.Comment)
}

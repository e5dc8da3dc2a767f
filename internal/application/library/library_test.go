package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/editor"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
	"github.com/xiebiao/booknotes/internal/domain/view"
	"github.com/xiebiao/booknotes/internal/infrastructure/config"
	persistence "github.com/xiebiao/booknotes/internal/infrastructure/persistence/mysql"
	rediscache "github.com/xiebiao/booknotes/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/booknotes/pkg/jwt"
)

type noCovers struct{}

func (noCovers) Resolve(context.Context, string) (string, error) { return "", nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	evt := message.(Event)
	if evt.Type != routingKey {
		return errors.New("routing key mismatch")
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type app struct {
	catalog  *CatalogUseCase
	reviews  *ReviewUseCase
	notes    *NoteUseCase
	views    *ViewUseCase
	sessions *SessionUseCase
	events   *recordingPublisher
	redis    *miniredis.Miniredis
}

func newApp(t *testing.T) *app {
	t.Helper()

	db, err := persistence.Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, false)
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	txm := persistence.NewTxManager(db)
	bookRepo := persistence.NewBookRepository(db)
	reviewRepo := persistence.NewReviewRepository(db)
	noteRepo := persistence.NewNoteRepository(db)

	gate := editor.NewGate(
		persistence.NewEditorRepository(db),
		rediscache.NewSessionStore(client),
		jwt.NewManager("test-secret", time.Hour),
		time.Hour,
		nil,
	)
	require.NoError(t, gate.EnsureEditor(context.Background(), "admin", "s3cret"))

	cache := rediscache.NewViewCache(client, time.Minute)
	events := &recordingPublisher{}

	return &app{
		catalog: NewCatalogUseCase(
			book.NewService(bookRepo, noteRepo, reviewRepo, noCovers{}, txm, nil),
			gate, cache, events, nil),
		reviews: NewReviewUseCase(review.NewService(reviewRepo, bookRepo, txm), cache, events, nil),
		notes:   NewNoteUseCase(note.NewService(noteRepo, bookRepo, txm), cache, events, nil),
		views: NewViewUseCase(
			view.NewService(persistence.NewViewRepository(db), bookRepo, reviewRepo, noteRepo, txm),
			cache, nil),
		sessions: NewSessionUseCase(gate),
		events:   events,
		redis:    mr,
	}
}

func (a *app) editorToken(t *testing.T) string {
	t.Helper()
	resp, err := a.sessions.SignIn(context.Background(), "", "Admin", "s3cret")
	require.NoError(t, err)
	require.Equal(t, string(editor.RoleEditor), resp.Role)
	return resp.Token
}

func TestCatalog_GuestForbiddenEditorAllowed(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	guest, err := a.sessions.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "guest", guest.Role)

	_, err = a.catalog.Create(ctx, guest.Token, BookRequest{Title: "Dune"})
	assert.ErrorIs(t, err, editor.ErrForbidden)
	assert.ErrorIs(t, a.catalog.Delete(ctx, guest.Token, 1), editor.ErrForbidden)
	assert.Empty(t, a.events.types())

	// the same session is promoted by signing in
	resp, err := a.sessions.SignIn(ctx, guest.Token, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, guest.Token, resp.Token)

	created, err := a.catalog.Create(ctx, guest.Token, BookRequest{Title: "  Dune ", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", created.Title)

	updated, err := a.catalog.Update(ctx, guest.Token, created.ID, BookRequest{Title: "Dune Messiah"})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Author)

	require.NoError(t, a.catalog.Delete(ctx, guest.Token, created.ID))
	assert.Equal(t, []string{EventBookCreated, EventBookUpdated, EventBookDeleted}, a.events.types())

	require.NoError(t, a.sessions.SignOut(ctx, guest.Token))
	assert.Equal(t, "guest", a.sessions.Role(ctx, guest.Token).Role)
	_, err = a.catalog.Create(ctx, guest.Token, BookRequest{Title: "Emma"})
	assert.ErrorIs(t, err, editor.ErrForbidden)
}

func TestSession_SignInRejectedKeepsToken(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)

	resp, err := a.sessions.SignIn(ctx, token, "admin", "wrong")
	assert.ErrorIs(t, err, editor.ErrInvalidCredentials)
	require.NotNil(t, resp)
	assert.Equal(t, token, resp.Token)
	assert.Equal(t, "guest", resp.Role)
	assert.Equal(t, "guest", a.sessions.Role(ctx, token).Role)
}

func TestSession_SeedEditorLeavesChangedPassword(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	// "admin" was set to s3cret after the first boot; the next boot seeds again
	created, err := a.sessions.SeedEditor(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = a.sessions.SignIn(ctx, "", "admin", "admin")
	assert.ErrorIs(t, err, editor.ErrInvalidCredentials)
	resp, err := a.sessions.SignIn(ctx, "", "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "editor", resp.Role)
}

func TestCatalog_ListAndSearch(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)

	for _, title := range []string{"The Hobbit", "Dune", "hobbit tales"} {
		_, err := a.catalog.Create(ctx, token, BookRequest{Title: title})
		require.NoError(t, err)
	}

	all, err := a.catalog.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	hits, err := a.catalog.List(ctx, "HOBBIT")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	_, err = a.catalog.Get(ctx, 999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestReviewAndNotes(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)

	b, err := a.catalog.Create(ctx, token, BookRequest{Title: "Dune"})
	require.NoError(t, err)

	none, err := a.reviews.GetForBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = a.reviews.Create(ctx, b.ID, ReviewRequest{Rating: 5, DateRead: "2024/01/01"})
	assert.Error(t, err)

	r, err := a.reviews.Create(ctx, b.ID, ReviewRequest{Rating: 5, DateRead: "2024-01-01", Body: " great "})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", r.DateRead)
	assert.Equal(t, "great", r.Body)

	_, err = a.reviews.Create(ctx, b.ID, ReviewRequest{Rating: 4, DateRead: "2024-02-01"})
	assert.ErrorIs(t, err, review.ErrReviewExists)

	r, err = a.reviews.Update(ctx, r.ID, ReviewRequest{Rating: 3, DateRead: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Rating)

	n, err := a.notes.Create(ctx, b.ID, "first")
	require.NoError(t, err)
	_, err = a.notes.Update(ctx, n.ID, "  edited  ")
	require.NoError(t, err)
	notes, err := a.notes.List(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "edited", notes[0].Body)

	require.NoError(t, a.notes.Delete(ctx, n.ID))
	require.NoError(t, a.reviews.Delete(ctx, r.ID))

	assert.Equal(t, []string{
		EventBookCreated,
		EventReviewCreated, EventReviewUpdated,
		EventNoteCreated, EventNoteUpdated,
		EventNoteDeleted, EventReviewDeleted,
	}, a.events.types())
}

func TestViews_CachedUntilNextWrite(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)

	dune, err := a.catalog.Create(ctx, token, BookRequest{Title: "Dune"})
	require.NoError(t, err)
	_, err = a.reviews.Create(ctx, dune.ID, ReviewRequest{Rating: 4, DateRead: "2024-01-01"})
	require.NoError(t, err)

	top, err := a.views.TopRated(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.True(t, a.redis.Exists("booknotes:view:top_rated:3"))

	emma, err := a.catalog.Create(ctx, token, BookRequest{Title: "Emma"})
	require.NoError(t, err)
	assert.False(t, a.redis.Exists("booknotes:view:top_rated:3"))

	_, err = a.reviews.Create(ctx, emma.ID, ReviewRequest{Rating: 5, DateRead: "2023-06-01"})
	require.NoError(t, err)

	top, err = a.views.TopRated(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Emma", top[0].Book.Title)

	recent, err := a.views.MostRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Dune", recent[0].Book.Title)

	home, err := a.views.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, home.TopRated, 2)
	assert.Len(t, home.MostRecent, 2)

	// served from the cache the second time
	again, err := a.views.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, home, again)
}

func TestViews_DetailAndSearch(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)

	b, err := a.catalog.Create(ctx, token, BookRequest{Title: "Dune"})
	require.NoError(t, err)

	d, err := a.views.Detail(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Review)
	assert.Empty(t, d.Notes)

	_, err = a.reviews.Create(ctx, b.ID, ReviewRequest{Rating: 5, DateRead: "2024-01-01"})
	require.NoError(t, err)
	_, err = a.notes.Create(ctx, b.ID, "spice")
	require.NoError(t, err)

	d, err = a.views.Detail(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Review)
	assert.Equal(t, 5, d.Review.Rating)
	require.Len(t, d.Notes, 1)

	_, err = a.views.Detail(ctx, 999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	rows, err := a.views.SearchReviews(ctx, "du", "rating")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = a.views.SearchReviews(ctx, "du", "title; DROP TABLE books")
	assert.ErrorIs(t, err, view.ErrInvalidSortKey)
}

func TestViews_LoadRacingDeleteIsNotCached(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)

	b, err := a.catalog.Create(ctx, token, BookRequest{Title: "Dune"})
	require.NoError(t, err)
	name := fmt.Sprintf("%s:%d", viewDetail, b.ID)

	// the book is deleted after the load read it but before it is stored
	stale, err := cached(ctx, a.views, viewDetail, name, func() (*DetailResponse, error) {
		d, err := a.views.views.Detail(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		require.NoError(t, a.catalog.Delete(ctx, token, b.ID))
		return toDetailResponse(d), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", stale.Book.Title)
	assert.False(t, a.redis.Exists("booknotes:view:"+name))

	_, err = a.views.Detail(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestWriteHooks_PublishFailureIsNotFatal(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	token := a.editorToken(t)
	a.events.err = errors.New("broker down")

	b, err := a.catalog.Create(ctx, token, BookRequest{Title: "Dune"})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
}

func TestNopAdapters(t *testing.T) {
	ctx := context.Background()
	var v []int
	hit, err := NopCache{}.Get(ctx, "x", &v)
	assert.NoError(t, err)
	assert.False(t, hit)
	gen, err := NopCache{}.Generation(ctx)
	assert.NoError(t, err)
	assert.NoError(t, NopCache{}.Set(ctx, "x", gen, v))
	assert.NoError(t, NopCache{}.InvalidateAll(ctx))
	assert.NoError(t, NopPublisher{}.Publish(ctx, "k", nil))
}

package note_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartnotes/internal/domain/entity"
	noteUC "smartnotes/internal/usecase/note"
)

/* ───────── stubs ───────── */

type stubRepo struct {
	data   map[int64]*entity.Note
	nextID int64
	err    error

	lastSearch string
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Note{}, nextID: 1}
}

func (s *stubRepo) sorted() []*entity.Note {
	out := make([]*entity.Note, 0, len(s.data))
	for _, n := range s.data {
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (s *stubRepo) List(_ context.Context) ([]*entity.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sorted(), nil
}

func (s *stubRepo) Search(_ context.Context, kw string) ([]*entity.Note, error) {
	s.lastSearch = kw
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Note
	for _, n := range s.sorted() {
		q := strings.ToLower(kw)
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	n, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (s *stubRepo) Create(_ context.Context, n *entity.Note) error {
	if s.err != nil {
		return s.err
	}
	n.ID = s.nextID
	s.nextID++
	cp := *n
	s.data[n.ID] = &cp
	return nil
}

func (s *stubRepo) Update(_ context.Context, n *entity.Note) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.data[n.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *n
	s.data[n.ID] = &cp
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *stubRepo) ListStale(_ context.Context, limit int) ([]*entity.Note, error) {
	var out []*entity.Note
	for _, n := range s.sorted() {
		if n.NeedsDigest() && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, s.err
}

type stubFetcher struct {
	page *noteUC.Page
	err  error
	got  string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*noteUC.Page, error) {
	f.got = url
	return f.page, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

/* ───────── tests ───────── */

func TestService_Create_Defaults(t *testing.T) {
	repo := newStub()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := noteUC.Service{Repo: repo, Now: fixedClock(now)}

	got, err := svc.Create(context.Background(), noteUC.CreateInput{Title: "   "})
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, entity.DefaultNoteTitle, got.Title)
	assert.Equal(t, entity.DefaultNoteContent, got.Content)
	assert.False(t, got.Pinned)
	assert.Empty(t, got.Tags)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
	assert.Nil(t, got.DigestedAt)
}

func TestService_Create_NormalizesTags(t *testing.T) {
	svc := noteUC.Service{Repo: newStub()}

	got, err := svc.Create(context.Background(), noteUC.CreateInput{
		Title:   "Groceries",
		Content: "<p>milk</p>",
		Tags:    []string{" Food ", "food", "", "HOME"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"food", "home"}, got.Tags)
}

func TestService_Create_Validation(t *testing.T) {
	repo := newStub()
	svc := noteUC.Service{Repo: repo}

	_, err := svc.Create(context.Background(), noteUC.CreateInput{
		Title: strings.Repeat("a", entity.MaxTitleLength+1),
	})

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)
	assert.Empty(t, repo.data)
}

func TestService_Create_RepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("disk full")
	svc := noteUC.Service{Repo: repo}

	_, err := svc.Create(context.Background(), noteUC.CreateInput{Title: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.err)
	assert.Contains(t, err.Error(), "create note")
}

func TestService_Get(t *testing.T) {
	repo := newStub()
	svc := noteUC.Service{Repo: repo}
	created, err := svc.Create(context.Background(), noteUC.CreateInput{Title: "one"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      int64
		wantErr error
	}{
		{name: "found", id: created.ID},
		{name: "zero id", id: 0, wantErr: noteUC.ErrInvalidNoteID},
		{name: "negative id", id: -4, wantErr: noteUC.ErrInvalidNoteID},
		{name: "missing", id: 99, wantErr: noteUC.ErrNoteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "one", got.Title)
		})
	}
}

func TestService_Search(t *testing.T) {
	repo := newStub()
	svc := noteUC.Service{Repo: repo}
	ctx := context.Background()
	_, _ = svc.Create(ctx, noteUC.CreateInput{Title: "React hooks", Content: "useEffect"})
	_, _ = svc.Create(ctx, noteUC.CreateInput{Title: "Shopping", Content: "apples"})

	got, err := svc.Search(ctx, "  react ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "React hooks", got[0].Title)
	assert.Equal(t, "react", repo.lastSearch)

	t.Run("blank query lists all", func(t *testing.T) {
		repo.lastSearch = ""
		all, err := svc.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Empty(t, repo.lastSearch, "repository search should not be called")
	})
}

func TestService_List_PinnedFirst(t *testing.T) {
	repo := newStub()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"old", "pinned", "new"} {
		svc := noteUC.Service{Repo: repo, Now: fixedClock(base.Add(time.Duration(i) * time.Hour))}
		_, err := svc.Create(ctx, noteUC.CreateInput{Title: title, Pinned: title == "pinned"})
		require.NoError(t, err)
	}

	svc := noteUC.Service{Repo: repo}
	got, err := svc.List(ctx)
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, n := range got {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"pinned", "new", "old"}, titles)
}

func TestService_Update_Partial(t *testing.T) {
	repo := newStub()
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	edited := created.Add(time.Hour)
	svc := noteUC.Service{Repo: repo, Now: fixedClock(created)}
	ctx := context.Background()

	n, err := svc.Create(ctx, noteUC.CreateInput{Title: "draft", Content: "<p>body</p>", Tags: []string{"work"}})
	require.NoError(t, err)

	svc.Now = fixedClock(edited)
	got, err := svc.Update(ctx, noteUC.UpdateInput{ID: n.ID, Title: strPtr("final")})
	require.NoError(t, err)

	assert.Equal(t, "final", got.Title)
	assert.Equal(t, "<p>body</p>", got.Content)
	assert.Equal(t, []string{"work"}, got.Tags)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, edited, got.UpdatedAt)
	assert.Equal(t, "final", repo.data[n.ID].Title)
}

func TestService_Update_Errors(t *testing.T) {
	repo := newStub()
	svc := noteUC.Service{Repo: repo}
	ctx := context.Background()
	n, err := svc.Create(ctx, noteUC.CreateInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, noteUC.UpdateInput{ID: 0})
	assert.ErrorIs(t, err, noteUC.ErrInvalidNoteID)

	_, err = svc.Update(ctx, noteUC.UpdateInput{ID: 42, Title: strPtr("y")})
	assert.ErrorIs(t, err, noteUC.ErrNoteNotFound)

	bad := []string{"a", "a"}
	_, err = svc.Update(ctx, noteUC.UpdateInput{ID: n.ID, Content: strPtr(strings.Repeat("z", entity.MaxContentLength+1)), Tags: &bad})
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "content", vErr.Field)
	assert.Equal(t, entity.DefaultNoteContent, repo.data[n.ID].Content)
}

func TestService_Delete(t *testing.T) {
	repo := newStub()
	svc := noteUC.Service{Repo: repo}
	ctx := context.Background()
	n, err := svc.Create(ctx, noteUC.CreateInput{Title: "bye"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.Empty(t, repo.data)

	assert.ErrorIs(t, svc.Delete(ctx, n.ID), noteUC.ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, -1), noteUC.ErrInvalidNoteID)
}

func TestService_TogglePin(t *testing.T) {
	repo := newStub()
	created := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := noteUC.Service{Repo: repo, Now: fixedClock(created)}
	ctx := context.Background()
	n, err := svc.Create(ctx, noteUC.CreateInput{Title: "pin me"})
	require.NoError(t, err)

	svc.Now = fixedClock(created.Add(time.Hour))
	got, err := svc.TogglePin(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Pinned)
	assert.Equal(t, created, got.UpdatedAt, "pinning is not an edit")

	got, err = svc.TogglePin(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, got.Pinned)

	_, err = svc.TogglePin(ctx, 77)
	assert.ErrorIs(t, err, noteUC.ErrNoteNotFound)
}

func TestService_Import(t *testing.T) {
	tests := []struct {
		name      string
		page      *noteUC.Page
		wantTitle string
		wantBody  string
	}{
		{
			name:      "page title",
			page:      &noteUC.Page{Title: "Go 1.22 released", Text: "First line\nstill first\n\nSecond <b>para</b>"},
			wantTitle: "Go 1.22 released",
			wantBody:  "<p>First line still first</p><p>Second &lt;b&gt;para&lt;/b&gt;</p>",
		},
		{
			name:      "site name fallback",
			page:      &noteUC.Page{SiteName: "The Go Blog", Text: "body"},
			wantTitle: "The Go Blog",
			wantBody:  "<p>body</p>",
		},
		{
			name:      "host fallback",
			page:      &noteUC.Page{Text: "body"},
			wantTitle: "go.dev",
			wantBody:  "<p>body</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{page: tt.page}
			svc := noteUC.Service{Repo: newStub(), Fetcher: fetcher}

			got, err := svc.Import(context.Background(), " https://go.dev/blog/go1.22 ")
			require.NoError(t, err)
			assert.Equal(t, "https://go.dev/blog/go1.22", fetcher.got)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantBody, got.Content)
		})
	}
}

func TestService_Import_Errors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		fetcher := &stubFetcher{}
		svc := noteUC.Service{Repo: newStub(), Fetcher: fetcher}
		_, err := svc.Import(context.Background(), "ftp://example.com")
		assert.ErrorIs(t, err, entity.ErrInvalidInput)
		assert.Empty(t, fetcher.got)
	})

	t.Run("fetch failure", func(t *testing.T) {
		repo := newStub()
		svc := noteUC.Service{Repo: repo, Fetcher: &stubFetcher{err: noteUC.ErrPrivateIP}}
		_, err := svc.Import(context.Background(), "http://intranet.local")
		assert.ErrorIs(t, err, noteUC.ErrPrivateIP)
		assert.Empty(t, repo.data)
	})

	t.Run("no fetcher", func(t *testing.T) {
		svc := noteUC.Service{Repo: newStub()}
		_, err := svc.Import(context.Background(), "https://example.com")
		assert.Error(t, err)
	})
}

func TestService_Import_ContentLimit(t *testing.T) {
	para := strings.Repeat("word ", 10_000)
	page := &noteUC.Page{Title: "long", Text: para + "\n\n" + para + "\n\n" + para}
	svc := noteUC.Service{Repo: newStub(), Fetcher: &stubFetcher{page: page}}

	got, err := svc.Import(context.Background(), "https://example.com/long")
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(got.Content)), entity.MaxContentLength)
	assert.True(t, strings.HasSuffix(got.Content, "</p>"))
	assert.Equal(t, 1, strings.Count(got.Content, "<p>"))
}

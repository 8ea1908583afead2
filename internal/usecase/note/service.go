package note

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"smartnotes/internal/domain/entity"
	"smartnotes/internal/repository"
	"smartnotes/internal/utils/text"
)

// CreateInput represents the input parameters for creating a new note.
// Empty Title and Content fall back to the entity defaults.
type CreateInput struct {
	Title   string
	Content string
	Pinned  bool
	Tags    []string
}

// UpdateInput represents the input parameters for updating an existing note.
// Fields with nil values will not be updated.
type UpdateInput struct {
	ID      int64
	Title   *string
	Content *string
	Pinned  *bool
	Tags    *[]string
}

// Service provides note management use cases.
// It handles business logic for note operations and delegates persistence to the repository.
type Service struct {
	Repo repository.NoteRepository
	// Fetcher is used by Import. Import fails when it is nil.
	Fetcher ContentFetcher
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List retrieves all notes, pinned first and then newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Note, error) {
	notes, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Search finds notes whose title or content contains the query, ignoring case.
// A blank query lists every note.
func (s *Service) Search(ctx context.Context, query string) ([]*entity.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	notes, err := s.Repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

// Get retrieves a single note by its ID.
// Returns ErrInvalidNoteID if the ID is not positive.
// Returns ErrNoteNotFound if the note does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Note, error) {
	if id <= 0 {
		return nil, ErrInvalidNoteID
	}

	note, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Create validates the input and stores a new note.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Note, error) {
	now := s.now()
	note := &entity.Note{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Pinned:    in.Pinned,
		Tags:      normalizeTags(in.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if note.Title == "" {
		note.Title = entity.DefaultNoteTitle
	}
	if strings.TrimSpace(note.Content) == "" {
		note.Content = entity.DefaultNoteContent
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Update modifies an existing note with the provided input.
// Only non-nil fields in the input will be updated.
// Returns ErrInvalidNoteID if the ID is not positive.
// Returns ErrNoteNotFound if the note does not exist.
// Returns a ValidationError if any updated field is invalid.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Note, error) {
	note, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		note.Title = strings.TrimSpace(*in.Title)
		if note.Title == "" {
			note.Title = entity.DefaultNoteTitle
		}
	}
	if in.Content != nil {
		note.Content = *in.Content
	}
	if in.Pinned != nil {
		note.Pinned = *in.Pinned
	}
	if in.Tags != nil {
		note.Tags = normalizeTags(*in.Tags)
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	note.UpdatedAt = s.now()
	if err := s.save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note by its ID.
// Returns ErrInvalidNoteID if the ID is not positive.
// Returns ErrNoteNotFound if the note does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// TogglePin flips the pinned flag of a note and returns the updated note.
// Pinning does not count as an edit, so UpdatedAt is left alone and the
// note keeps its digest.
func (s *Service) TogglePin(ctx context.Context, id int64) (*entity.Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Pinned = !note.Pinned
	if err := s.save(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Import clips the readable content of a web page into a new note.
// The note is titled after the page, or after the host when the page has no title.
func (s *Service) Import(ctx context.Context, rawURL string) (*entity.Note, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := entity.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if s.Fetcher == nil {
		return nil, errors.New("import notes: no content fetcher configured")
	}

	page, err := s.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	return s.Create(ctx, CreateInput{
		Title:   text.Truncate(pageTitle(page, rawURL), entity.MaxTitleLength),
		Content: paragraphs(page.Text, entity.MaxContentLength),
	})
}

func (s *Service) save(ctx context.Context, note *entity.Note) error {
	if err := s.Repo.Update(ctx, note); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func pageTitle(page *Page, rawURL string) string {
	if title := strings.TrimSpace(page.Title); title != "" {
		return title
	}
	if site := strings.TrimSpace(page.SiteName); site != "" {
		return site
	}
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return entity.DefaultNoteTitle
}

// paragraphs turns extracted plain text into escaped <p> blocks, one per
// run of non-blank lines. Blocks that would push the result past limit
// characters are dropped whole.
func paragraphs(plain string, limit int) string {
	var b strings.Builder
	var block []string
	size := 0
	full := false
	flush := func() {
		if len(block) == 0 || full {
			block = block[:0]
			return
		}
		p := "<p>" + html.EscapeString(strings.Join(block, " ")) + "</p>"
		block = block[:0]
		n := text.CountRunes(p)
		if size+n > limit {
			full = true
			return
		}
		b.WriteString(p)
		size += n
	}
	for _, line := range strings.Split(plain, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()
	return b.String()
}

// normalizeTags lowercases, trims and de-duplicates tags, dropping blanks.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

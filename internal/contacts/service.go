package contacts

import (
	"context"
	"log/slog"
	"time"

	"github.com/rolodex-app/rolodex/internal/shared"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// Service enforces ownership over the contact store. Every by-id operation
// resolves the record first and reports shared.ErrNotFound both for missing
// and for foreign records, so probing clients cannot confirm existence.
type Service struct {
	repo       Repository
	cache      *Cache
	windowDays int
	logger     *slog.Logger
}

// NewService constructs a Service. windowDays is the upcoming-birthday
// lookahead.
func NewService(repo Repository, cache *Cache, windowDays int, logger *slog.Logger) *Service {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Service{repo: repo, cache: cache, windowDays: windowDays, logger: logger}
}

// List returns a page of the owner's contacts in insertion order.
func (s *Service) List(ctx context.Context, ownerID int64, skip, limit int) ([]Contact, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, ownerID, skip, limit)
}

// Get returns the contact when it exists and belongs to the owner.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Contact, error) {
	return s.owned(ctx, ownerID, id)
}

// Create stores a new contact for the owner.
func (s *Service) Create(ctx context.Context, ownerID int64, in NewContact) (*Contact, error) {
	contact, err := s.repo.Create(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return contact, nil
}

// Update applies a partial update after the ownership check. Absent fields
// keep their prior values.
func (s *Service) Update(ctx context.Context, ownerID, id int64, in ContactUpdate) (*Contact, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	contact, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return contact, nil
}

// Delete removes the contact after the ownership check and returns the
// deleted record.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) (*Contact, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	contact, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return contact, nil
}

// Search matches the query case-insensitively against the owner's contacts.
func (s *Service) Search(ctx context.Context, ownerID int64, query string) ([]Contact, error) {
	return s.repo.Search(ctx, ownerID, query)
}

// UpcomingBirthdays returns the owner's contacts whose next birthday
// anniversary falls within the lookahead window of now, ordered by
// days-until. Results are cached per owner and day.
func (s *Service) UpcomingBirthdays(ctx context.Context, ownerID int64, now time.Time) ([]Contact, error) {
	day := dateOnly(now)
	if cached, ok := s.cache.GetBirthdays(ctx, ownerID, day); ok {
		return cached, nil
	}

	list, err := s.repo.ListWithBirthdays(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	window := upcomingWindow(list, now, s.windowDays)

	if err := s.cache.SetBirthdays(ctx, ownerID, day, window); err != nil && s.logger != nil {
		s.logger.Warn("cache birthdays", slog.Any("error", err))
	}
	return window, nil
}

func (s *Service) owned(ctx context.Context, ownerID, id int64) (*Contact, error) {
	contact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return contact, nil
}

func (s *Service) invalidate(ctx context.Context, ownerID int64) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil && s.logger != nil {
		s.logger.Warn("invalidate birthday cache", slog.Any("error", err))
	}
}

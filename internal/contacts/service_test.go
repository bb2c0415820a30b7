package contacts

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodex-app/rolodex/internal/shared"
	_ "github.com/rolodex-app/rolodex/testing"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockContactRepo struct {
	byID   map[int64]*Contact
	nextID int64
}

func newMockContactRepo() *mockContactRepo {
	return &mockContactRepo{byID: make(map[int64]*Contact), nextID: 1}
}

func (m *mockContactRepo) ordered(ownerID int64) []Contact {
	var out []Contact
	for _, c := range m.byID {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockContactRepo) List(ctx context.Context, ownerID int64, skip, limit int) ([]Contact, error) {
	all := m.ordered(ownerID)
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockContactRepo) Get(ctx context.Context, id int64) (*Contact, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockContactRepo) Create(ctx context.Context, ownerID int64, in NewContact) (*Contact, error) {
	c := &Contact{
		ID:          m.nextID,
		OwnerID:     ownerID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DisplayName: in.DisplayName,
		Email:       in.Email,
		Phone:       in.Phone,
		Birthday:    in.Birthday,
		Notes:       in.Notes,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	m.nextID++
	m.byID[c.ID] = c
	copied := *c
	return &copied, nil
}

func (m *mockContactRepo) Update(ctx context.Context, id int64, in ContactUpdate) (*Contact, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.DisplayName != nil {
		c.DisplayName = in.DisplayName
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Birthday != nil {
		c.Birthday = in.Birthday
	}
	if in.Notes != nil {
		c.Notes = in.Notes
	}
	c.UpdatedAt = time.Now().UTC()
	copied := *c
	return &copied, nil
}

func (m *mockContactRepo) Delete(ctx context.Context, id int64) (*Contact, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(m.byID, id)
	return c, nil
}

func (m *mockContactRepo) Search(ctx context.Context, ownerID int64, query string) ([]Contact, error) {
	q := strings.ToLower(query)
	var out []Contact
	for _, c := range m.ordered(ownerID) {
		display := ""
		if c.DisplayName != nil {
			display = *c.DisplayName
		}
		haystack := strings.ToLower(c.FirstName + " " + c.LastName + " " + display + " " + c.Email)
		if strings.Contains(haystack, q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockContactRepo) ListWithBirthdays(ctx context.Context, ownerID int64) ([]Contact, error) {
	var out []Contact
	for _, c := range m.ordered(ownerID) {
		if c.Birthday != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ Repository = (*mockContactRepo)(nil)

func newTestContactService(repo Repository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, nil, 7, logger)
}

func seedContact(t *testing.T, svc *Service, ownerID int64, first string) *Contact {
	t.Helper()
	c, err := svc.Create(context.Background(), ownerID, NewContact{
		FirstName: first,
		LastName:  "Doe",
		Email:     first + "@example.com",
		Phone:     "+100000",
	})
	require.NoError(t, err)
	return c
}

// ============================================================================
// TESTS
// ============================================================================

func TestGetEnforcesOwnership(t *testing.T) {
	svc := newTestContactService(newMockContactRepo())
	ctx := context.Background()

	mine := seedContact(t, svc, 1, "alice")

	got, err := svc.Get(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	// A foreign contact and a missing one are the same error.
	_, err = svc.Get(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.Get(ctx, 1, 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateEnforcesOwnershipAndKeepsAbsentFields(t *testing.T) {
	svc := newTestContactService(newMockContactRepo())
	ctx := context.Background()

	mine := seedContact(t, svc, 1, "alice")

	first := "Alicia"
	_, err := svc.Update(ctx, 2, mine.ID, ContactUpdate{FirstName: &first})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	updated, err := svc.Update(ctx, 1, mine.ID, ContactUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, mine.LastName, updated.LastName)
	assert.Equal(t, mine.Email, updated.Email)
	assert.Equal(t, mine.Phone, updated.Phone)
}

func TestDeleteReturnsTheRemovedContact(t *testing.T) {
	svc := newTestContactService(newMockContactRepo())
	ctx := context.Background()

	mine := seedContact(t, svc, 1, "alice")

	_, err := svc.Delete(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	deleted, err := svc.Delete(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, deleted.ID)
	assert.Equal(t, "alice", deleted.FirstName)

	_, err = svc.Get(ctx, 1, mine.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListPaginatesAndClampsLimits(t *testing.T) {
	svc := newTestContactService(newMockContactRepo())
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		seedContact(t, svc, 1, "c"+strings.Repeat("x", i))
	}
	seedContact(t, svc, 2, "other")

	// Zero limit falls back to the default page size.
	page, err := svc.List(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, defaultListLimit)

	page, err = svc.List(ctx, 1, 10, 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)

	// Only the owner's contacts are visible.
	for _, c := range page {
		assert.Equal(t, int64(1), c.OwnerID)
	}

	page, err = svc.List(ctx, 1, -5, 200)
	require.NoError(t, err)
	assert.Len(t, page, 15)
}

func TestSearchScopedToOwner(t *testing.T) {
	svc := newTestContactService(newMockContactRepo())
	ctx := context.Background()

	seedContact(t, svc, 1, "Alice")
	seedContact(t, svc, 1, "Bob")
	seedContact(t, svc, 2, "Alicia")

	got, err := svc.Search(ctx, 1, "ali")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].FirstName)
}

func TestUpcomingBirthdaysUsesWindow(t *testing.T) {
	repo := newMockContactRepo()
	svc := newTestContactService(repo)
	ctx := context.Background()
	now := date(2026, time.June, 10)

	in := date(1990, time.June, 12)
	out := date(1990, time.August, 1)
	c1, err := svc.Create(ctx, 1, NewContact{FirstName: "soon", Birthday: &in})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, NewContact{FirstName: "later", Birthday: &out})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, NewContact{FirstName: "foreign", Birthday: &in})
	require.NoError(t, err)

	got, err := svc.UpcomingBirthdays(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c1.ID, got[0].ID)
}

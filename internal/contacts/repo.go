package contacts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolodex-app/rolodex/internal/shared"
)

// Repository defines persistence operations for the contact store. Get is
// deliberately unscoped by owner; the service layer performs the ownership
// check on its result.
type Repository interface {
	List(ctx context.Context, ownerID int64, skip, limit int) ([]Contact, error)
	Get(ctx context.Context, id int64) (*Contact, error)
	Create(ctx context.Context, ownerID int64, in NewContact) (*Contact, error)
	Update(ctx context.Context, id int64, in ContactUpdate) (*Contact, error)
	Delete(ctx context.Context, id int64) (*Contact, error)
	Search(ctx context.Context, ownerID int64, query string) ([]Contact, error)
	ListWithBirthdays(ctx context.Context, ownerID int64) ([]Contact, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const contactColumns = `id, owner_id, first_name, last_name, display_name, email, phone, birthday, notes, created_at, updated_at`

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.DisplayName,
		&c.Email, &c.Phone, &c.Birthday, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectContacts(rows pgx.Rows) ([]Contact, error) {
	defer rows.Close()
	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.DisplayName,
			&c.Email, &c.Phone, &c.Birthday, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the owner's contacts in insertion order.
func (r *PGRepository) List(ctx context.Context, ownerID int64, skip, limit int) ([]Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 ORDER BY id OFFSET $2 LIMIT $3`,
		ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

// Get fetches a contact by id regardless of owner.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	return scanContact(row)
}

// Create inserts a contact for the owner.
func (r *PGRepository) Create(ctx context.Context, ownerID int64, in NewContact) (*Contact, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO contacts (owner_id, first_name, last_name, display_name, email, phone, birthday, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+contactColumns,
		ownerID, in.FirstName, in.LastName, in.DisplayName, in.Email, in.Phone, in.Birthday, in.Notes)
	return scanContact(row)
}

// Update overwrites only the fields present in the payload; absent fields
// retain their prior values via COALESCE.
func (r *PGRepository) Update(ctx context.Context, id int64, in ContactUpdate) (*Contact, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE contacts SET
			first_name   = COALESCE($2, first_name),
			last_name    = COALESCE($3, last_name),
			display_name = COALESCE($4, display_name),
			email        = COALESCE($5, email),
			phone        = COALESCE($6, phone),
			birthday     = COALESCE($7, birthday),
			notes        = COALESCE($8, notes),
			updated_at   = now()
		 WHERE id = $1
		 RETURNING `+contactColumns,
		id, in.FirstName, in.LastName, in.DisplayName, in.Email, in.Phone, in.Birthday, in.Notes)
	return scanContact(row)
}

// Delete removes a contact and returns the deleted row.
func (r *PGRepository) Delete(ctx context.Context, id int64) (*Contact, error) {
	row := r.pool.QueryRow(ctx,
		`DELETE FROM contacts WHERE id = $1 RETURNING `+contactColumns, id)
	return scanContact(row)
}

// Search matches the query case-insensitively against name and email fields.
func (r *PGRepository) Search(ctx context.Context, ownerID int64, query string) ([]Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE owner_id = $1
		   AND (first_name ILIKE '%' || $2 || '%'
		     OR last_name ILIKE '%' || $2 || '%'
		     OR display_name ILIKE '%' || $2 || '%'
		     OR email ILIKE '%' || $2 || '%')
		 ORDER BY id`,
		ownerID, query)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

// ListWithBirthdays returns the owner's contacts that have a birthday set.
// Window filtering and ordering happen in the service.
func (r *PGRepository) ListWithBirthdays(ctx context.Context, ownerID int64) ([]Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 AND birthday IS NOT NULL ORDER BY id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

var _ Repository = (*PGRepository)(nil)

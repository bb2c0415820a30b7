package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolodex-app/rolodex/internal/shared"
)

// Repository defines persistence operations for the identity store.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	SetVerificationToken(ctx context.Context, userID int64, token string) error
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	MarkVerified(ctx context.Context, userID int64) error
	UpdateAvatarURL(ctx context.Context, userID int64, url string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, password_hash, is_verified, verification_token, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsVerified, &u.VerificationToken, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a user by exact email match.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create inserts an unverified user. The unique constraint on email settles
// concurrent registrations; the loser gets shared.ErrDuplicateEmail.
func (r *PGRepository) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING `+userColumns,
		email, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// SetVerificationToken stores a fresh single-use verification token.
func (r *PGRepository) SetVerificationToken(ctx context.Context, userID int64, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET verification_token = $2, updated_at = now() WHERE id = $1`,
		userID, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByVerificationToken fetches the user holding an unconsumed token.
func (r *PGRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
	return scanUser(row)
}

// MarkVerified sets the verified flag and clears the token in one statement,
// so the two effects are visible together or not at all. The token guard
// makes concurrent consumption of the same token single-winner: the loser
// sees zero affected rows.
func (r *PGRepository) MarkVerified(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, verification_token = NULL, updated_at = now()
		 WHERE id = $1 AND verification_token IS NOT NULL`,
		userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrInvalidVerification
	}
	return nil
}

// UpdateAvatarURL persists the uploaded avatar location and returns the
// updated user.
func (r *PGRepository) UpdateAvatarURL(ctx context.Context, userID int64, url string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		userID, url)
	return scanUser(row)
}

var _ Repository = (*PGRepository)(nil)

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rolodex-app/rolodex/internal/shared"
)

// Notifier dispatches outbound mail as fire-and-forget background work.
type Notifier interface {
	EnqueueVerification(ctx context.Context, email, token string) error
}

// AvatarStore uploads an avatar blob and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// Service wraps registration, login and verification business rules.
type Service struct {
	repo     Repository
	tokens   *TokenManager
	notifier Notifier
	avatars  AvatarStore
	logger   *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, notifier Notifier, avatars AvatarStore, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, notifier: notifier, avatars: avatars, logger: logger}
}

// Register creates an unverified account, mints its verification token and
// asks the notifier to deliver it. Notification failure is logged and
// swallowed; the created account stands regardless.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, email, hash)
	if err != nil {
		return nil, err
	}

	token, err := NewVerificationToken()
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetVerificationToken(ctx, user.ID, token); err != nil {
		return nil, err
	}
	user.VerificationToken = &token

	if s.notifier != nil {
		if err := s.notifier.EnqueueVerification(ctx, user.Email, token); err != nil {
			s.logger.Error("enqueue verification mail",
				slog.String("email", user.Email), slog.Any("error", err))
		}
	}

	return user, nil
}

// Authenticate validates email/password credentials. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs an access token for the authenticated user.
func (s *Service) IssueToken(user *User) (string, error) {
	return s.tokens.Issue(user.Email)
}

// VerifyEmail consumes a verification token. A token unknown to the store or
// already consumed yields shared.ErrInvalidVerification, including replays
// racing the first consumption.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvalidVerification
		}
		return err
	}
	return s.repo.MarkVerified(ctx, user.ID)
}

// UpdateAvatar uploads the blob to the avatar store and persists the
// returned URL on the user.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, filename, contentType string, body io.Reader) (*User, error) {
	url, err := s.avatars.Upload(ctx, filename, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("auth: upload avatar: %w", err)
	}
	return s.repo.UpdateAvatarURL(ctx, userID, url)
}

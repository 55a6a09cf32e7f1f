package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	pkg_hash "github.com/Skotchmaster/vigor_shop/pkg/hash"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
	"github.com/Skotchmaster/vigor_shop/pkg/tokens"
)

const invalidCredentials = "Invalid credentials"

type RegisterInput struct {
	Email    string
	Name     string
	Phone    string
	Password string
}

type AuthService struct {
	Users  CredentialStore
	Signer *tokens.Signer
	Events events.Publisher
}

func NewAuthService(users CredentialStore, signer *tokens.Signer, pub events.Publisher) *AuthService {
	return &AuthService{Users: users, Signer: signer, Events: pub}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Issue(user *models.User) (tokens.Pair, error) {
	return s.Signer.Issue(user.ID.String(), user.Email, user.Role)
}

// VerifyCredentials fails the same way for an unknown email and for a wrong
// password, and spends a full hash comparison in both cases.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.verify_credentials")

	user, err := s.Users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		pkg_hash.CheckAgainstDummy(password)
		l.Warn("login_failed", "status", 401, "reason", "unknown email")
		return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, tokens.Pair{}, apperr.New(apperr.ErrBadRequest, "email and password are required")
	}

	if _, err := s.Users.FindUserByEmail(ctx, email); err == nil {
		l.Warn("register_error", "status", 409, "reason", "email already registered")
		return nil, tokens.Pair{}, apperr.New(apperr.ErrConflict, "Email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, tokens.Pair{}, err
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, tokens.Pair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
			return nil, tokens.Pair{}, apperr.New(apperr.ErrConflict, "Email already registered")
		}
		return nil, tokens.Pair{}, err
	}

	pair, err := s.Issue(user)
	if err != nil {
		return nil, tokens.Pair{}, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), "user_registered", map[string]any{
		"userId": user.ID,
		"email":  user.Email,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, tokens.Pair, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, tokens.Pair{}, err
	}

	pair, err := s.Issue(user)
	if err != nil {
		return nil, tokens.Pair{}, err
	}
	logging.FromContext(ctx).Info("login_success", "svc", "auth.login", "user_id", user.ID)
	return user, pair, nil
}

// Refresh re-reads the user so a role change since the last issue is picked
// up. The caller has already verified the refresh token.
func (s *AuthService) Refresh(ctx context.Context, userID string) (tokens.Pair, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return tokens.Pair{}, apperr.New(apperr.ErrUnauthorized, "unauthorized")
		}
		return tokens.Pair{}, err
	}
	return s.Issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

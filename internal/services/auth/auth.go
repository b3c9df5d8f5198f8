// Package auth реализует две схемы аутентификации приложения.
//
// Учётная запись с паролем и JWT нужна администраторам и личному
// кабинету. Сессионные токены (непрозрачные, хранятся на сервере)
// выдаются после оплаты и открывают доступ к купленному продукту
// без регистрации.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barakahtool/barakah-backend/internal/lib/password"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/lib/token"
	"github.com/barakahtool/barakah-backend/internal/models"
)

type Repository interface {
	RegisterUser(ctx context.Context, uid, email, name, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userUID string) error
	CreateSession(ctx context.Context, token, userUID string, expiresAt time.Time) (*models.Session, error)
	GetUserBySessionToken(ctx context.Context, sessionToken string) (*models.User, error)
	DeleteSession(ctx context.Context, sessionToken string) error
}

// TokenMaker выпускает и проверяет JWT.
type TokenMaker interface {
	GenerateToken(userUID, email, role string) (string, error)
}

type Service struct {
	repo       Repository
	maker      TokenMaker
	sessionTTL time.Duration
	log        *slog.Logger
}

func New(repo Repository, maker TokenMaker, sessionTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		maker:      maker,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// AuthResult — пользователь и выпущенный для него JWT.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register создаёт учётную запись с паролем и возвращает JWT.
// Email, заведённый ранее при оплате без пароля, дополняется паролем.
func (s *Service) Register(ctx context.Context, email, name, plainPassword string) (*AuthResult, error) {
	const op = "auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := password.GetHash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.RegisterUser(ctx, uuid.NewString(), email, name, hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtToken, err := s.maker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("op", op), slog.String("user_uid", user.UID))
	return &AuthResult{User: user, Token: jwtToken}, nil
}

// Login проверяет пароль и возвращает JWT.
// Неизвестный email и неверный пароль неразличимы в ответе.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*AuthResult, error) {
	const op = "auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, plainPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	jwtToken, err := s.maker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateLastLogin(ctx, user.UID); err != nil {
		s.log.Warn("failed to update last login", sl.Err(err))
	}

	return &AuthResult{User: user, Token: jwtToken}, nil
}

// Profile возвращает пользователя по его UID.
func (s *Service) Profile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "auth.Profile"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// CreateSession выпускает сессионный токен для пользователя.
func (s *Service) CreateSession(ctx context.Context, userUID string) (*models.Session, error) {
	const op = "auth.CreateSession"

	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sessionToken, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session, err := s.repo.CreateSession(ctx, sessionToken, userUID, time.Now().Add(s.sessionTTL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// ValidateSession возвращает пользователя действующей сессии.
func (s *Service) ValidateSession(ctx context.Context, sessionToken string) (*models.User, error) {
	const op = "auth.ValidateSession"

	user, err := s.repo.GetUserBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// DeleteSession завершает сессию. Повторный вызов безвреден.
func (s *Service) DeleteSession(ctx context.Context, sessionToken string) error {
	const op = "auth.DeleteSession"

	if err := s.repo.DeleteSession(ctx, sessionToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

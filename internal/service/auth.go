package service

import (
	"context"
	"errors"
	"strings"

	"github.com/recyclemart/ewaste-market/internal/events"
	"github.com/recyclemart/ewaste-market/internal/hash"
	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/repo"
	"github.com/recyclemart/ewaste-market/internal/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Producer  *events.Producer
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", ErrValidation
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, "", ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register failed", "status", 400, "reason", "email already registered")
			return nil, "", ErrEmailTaken
		}
		l.Error("register failed", "status", 500, "error", err)
		return nil, "", err
	}

	token, err := tokens.Sign(user.ID, user.Email, user.Role, s.JWTSecret)
	if err != nil {
		l.Error("register failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, "", err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID.String(),
		"email":  user.Email,
	})

	return user, token, nil
}

// Login deliberately returns the same ErrInvalidCredentials for an
// unknown email and a wrong password, so callers cannot enumerate
// accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, "", err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := tokens.Sign(user.ID, user.Email, user.Role, s.JWTSecret)
	if err != nil {
		l.Error("login failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, "", err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID.String(),
		"email":  user.Email,
	})

	return user, token, nil
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", topic, "error", err)
	}
}

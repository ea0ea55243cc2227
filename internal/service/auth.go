package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/hash"
	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/tokens"
	"github.com/kmazurov/order_service/internal/transport"
)

type AuthService struct {
	Users     *repo.UserRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

func profileOf(u *models.User) transport.UserProfile {
	return transport.UserProfile{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

func (svc *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.UserProfile, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: email invalid", ErrValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: pwHash,
		Role:         "user",
		IsActive:     true,
	}
	if err := svc.Users.CreateIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	profile := profileOf(&user)
	return &profile, nil
}

// ValidateCredentials fails closed: a missing user and a wrong password
// produce the same error.
func (svc *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*transport.UserProfile, error) {
	user, err := svc.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	profile := profileOf(user)
	return &profile, nil
}

func (svc *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	profile, err := svc.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("login_failed", "reason", "invalid credentials")
		}
		return nil, err
	}

	token, err := svc.signAccessToken(profile)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", profile.ID)
	return &transport.LoginResponse{User: *profile, AccessToken: token}, nil
}

func (svc *AuthService) signAccessToken(profile *transport.UserProfile) (string, error) {
	claims := tokens.AccessClaims{
		Email: profile.Email,
		Role:  profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(svc.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(svc.JWTSecret)
}

func (svc *AuthService) ListUsers(ctx context.Context) ([]transport.UserProfile, error) {
	users, err := svc.Users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]transport.UserProfile, len(users))
	for i := range users {
		profiles[i] = profileOf(&users[i])
	}
	return profiles, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService maps identity provider accounts onto local users and issues
// the session cookie. Profiles are created separately on first visit to
// /complete-profile.
type AuthService struct {
	users        repository.UserRepository
	jwtSecret    string
	jwtExpiry    time.Duration
	isProduction bool
}

func NewAuthService(users repository.UserRepository, jwtSecret string, jwtExpiry time.Duration, isProduction bool) *AuthService {
	return &AuthService{
		users:        users,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		isProduction: isProduction,
	}
}

// AuthenticateOAuth returns the user for a provider-verified email,
// creating it on first login.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, provider string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.ByEmail(ctx, email)
	if err == nil {
		slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	user = &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Provider:  provider,
		CreatedAt: time.Now(),
	}

	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Lost a race with a concurrent first login.
		return s.users.ByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

// User resolves the user behind a session token.
func (s *AuthService) User(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	return s.users.ByID(ctx, userID)
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Login issues a session cookie for user.
func (s *AuthService) Login(w http.ResponseWriter, user *model.User) error {
	token, err := s.GenerateJWT(user)
	if err != nil {
		return fmt.Errorf("failed to generate JWT: %w", err)
	}
	s.SetJWTCookie(w, token, time.Now().Add(s.jwtExpiry))
	return nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

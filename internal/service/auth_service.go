package service

import (
	"context"
	"strings"
	"time"

	"newwek/internal/models"
	"newwek/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the credential registry. It issues and validates the
// bearer tokens the gateway checks on secured routes.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{userRepo: userRepo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: now}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if l := len(username); l < 2 || l > 255 {
		return nil, models.NewValidationError("Username must be between 2 and 255 characters")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, models.NewValidationError("A valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewValidationError("Username is already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// Token checks the credentials and returns a signed bearer token. Missing
// users and bad passwords are indistinguishable to the caller.
func (s *AuthService) Token(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if user == nil {
		return "", models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", models.NewUnauthorizedError("Invalid credentials")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// Validate parses a bearer token and returns the username it was issued to.
func (s *AuthService) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewUnauthorizedError("Invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewUnauthorizedError("Invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", models.NewUnauthorizedError("Invalid token subject")
	}
	return sub, nil
}

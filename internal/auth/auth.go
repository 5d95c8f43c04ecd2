package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sales_management/internal/models"
)

var (
	// ErrInvalidCredentials is returned when the username or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("access token required")
	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned by a UserStore when no user has the given name.
	ErrUserNotFound = errors.New("user not found")
)

// Claims is the token payload.
type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserStore looks users up by name.
type UserStore interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
}

// GormUserStore reads users from the relational store.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Authenticator checks credentials and issues/verifies signed tokens.
type Authenticator struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthenticator creates an Authenticator signing with secret.
func NewAuthenticator(users UserStore, secret string, ttl time.Duration, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Login validates the credentials and returns a token plus the matching user.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := a.users.FindByName(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("login rejected", zap.String("username", username))
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Issue signs a token for user that expires after the configured TTL.
func (a *Authenticator) Issue(user *models.User) (string, error) {
	now := a.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

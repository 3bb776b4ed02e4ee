package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleFuncionario Role = "funcionario"
)

var Roles = []Role{RoleAdmin, RoleFuncionario}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFuncionario
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", models.NewValidationError("role", "must be one of admin funcionario")
	}
	return r, nil
}

const (
	MinPasswordLength = 4
	// MaxPasswordLength is the most bcrypt accepts.
	MaxPasswordLength = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// CredentialStore keeps one bcrypt hash per role. Get reports an unset role
// with an error matching models.ErrNotFound.
type CredentialStore interface {
	Get(ctx context.Context, role Role) (string, error)
	Set(ctx context.Context, role Role, hash string) error
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	store  CredentialStore
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

type Option func(*Authenticator)

func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithBcryptCost is meant for tests, where the default cost is slow.
func WithBcryptCost(cost int) Option {
	return func(a *Authenticator) { a.cost = cost }
}

func NewAuthenticator(store CredentialStore, secret string, ttl time.Duration, opts ...Option) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	a := &Authenticator{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Login checks the password for role and returns a signed token with its
// expiry. A role without a stored credential cannot log in.
func (a *Authenticator) Login(ctx context.Context, role Role, password string) (string, time.Time, error) {
	if !role.Valid() {
		return "", time.Time{}, ErrInvalidCredentials
	}

	hash, err := a.store.Get(ctx, role)
	if errors.Is(err, models.ErrNotFound) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("get credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expires, nil
}

func (a *Authenticator) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (a *Authenticator) ChangePassword(ctx context.Context, role Role, password string) error {
	if !role.Valid() {
		return models.NewValidationError("role", "must be one of admin funcionario")
	}
	if len(password) < MinPasswordLength {
		return models.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return models.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := a.store.Set(ctx, role, string(hash)); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

// Seed stores password for role unless the role already has a credential or
// password is empty. It reports whether a credential was written.
func (a *Authenticator) Seed(ctx context.Context, role Role, password string) (bool, error) {
	if password == "" {
		return false, nil
	}

	_, err := a.store.Get(ctx, role)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, fmt.Errorf("get credential: %w", err)
	}

	if err := a.ChangePassword(ctx, role, password); err != nil {
		return false, err
	}
	return true, nil
}

package sessions

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"filebox/internal/domain/users"
)

const tokenKeyPrefix = "auth_"

type userGetter interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// cacheStore is the expiring key-value store sessions live in. Expiry is the
// store's job; the service never checks timestamps itself.
type cacheStore interface {
	Set(key, value string, ttl time.Duration) error
	Get(key string) (string, bool, error)
	Delete(key string) error
}

// Service issues and validates opaque session tokens.
type Service struct {
	users userGetter
	cache cacheStore
	ttl   time.Duration
}

func NewService(users userGetter, cache cacheStore, ttl time.Duration) *Service {
	return &Service{users: users, cache: cache, ttl: ttl}
}

// Authenticate verifies credentials and returns a fresh session token bound
// to the account for the configured TTL.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrUnauthorized
	}

	token := uuid.New().String()
	if err := s.cache.Set(tokenKeyPrefix+token, strconv.FormatInt(u.ID, 10), s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token to its principal. An absent key means the token was
// never issued or has expired; both come back as ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, token string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if token == "" {
		return 0, ErrUnauthorized
	}

	value, ok, err := s.cache.Get(tokenKeyPrefix + token)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrUnauthorized
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return id, nil
}

// Invalidate deletes a token. Deleting an unknown token succeeds.
func (s *Service) Invalidate(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.cache.Delete(tokenKeyPrefix + token)
}

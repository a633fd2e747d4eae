package auth

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var ErrUnknownUser = errors.New("unknown user")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Operator is an account allowed to use the API.
type Operator struct {
	ID           int
	Username     string
	PasswordHash string
}

// OperatorStore looks up operators by name. It returns ErrUnknownUser when
// the name is not registered.
type OperatorStore interface {
	Lookup(ctx context.Context, username string) (*Operator, error)
}

// StaticOperators is an OperatorStore backed by configuration.
type StaticOperators struct {
	mu        sync.RWMutex
	operators map[string]*Operator
}

func NewStaticOperators() *StaticOperators {
	return &StaticOperators{operators: make(map[string]*Operator)}
}

func (s *StaticOperators) Add(username, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[username] = &Operator{
		ID:           len(s.operators) + 1,
		Username:     username,
		PasswordHash: passwordHash,
	}
}

func (s *StaticOperators) Lookup(_ context.Context, username string) (*Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.operators[username]
	if !ok {
		return nil, ErrUnknownUser
	}
	copied := *op
	return &copied, nil
}

// Authenticate returns the operator when password matches its hash.
func Authenticate(ctx context.Context, store OperatorStore, username, password string) (*Operator, error) {
	op, err := store.Lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(password, op.PasswordHash) {
		return nil, ErrUnknownUser
	}
	return op, nil
}

// ChainOperators consults each store in order and returns the first match.
type ChainOperators []OperatorStore

func (c ChainOperators) Lookup(ctx context.Context, username string) (*Operator, error) {
	for _, store := range c {
		op, err := store.Lookup(ctx, username)
		if errors.Is(err, ErrUnknownUser) {
			continue
		}
		return op, err
	}
	return nil, ErrUnknownUser
}

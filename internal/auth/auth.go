// Package auth holds the single owner's login credentials: a bcrypt password
// hash and the bearer token handed out on login.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Blob is the store key credentials live under.
const Blob = "auth"

var ErrPasswordEmpty = errors.New("password must not be empty")

// dummyHash is checked against when no credentials exist, so a failed
// login takes as long as a real one.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// Store is the blob persistence credentials need.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Put(ctx context.Context, name string, body []byte) error
}

type Credentials struct {
	PasswordHash string `json:"password_hash"`
	Token        string `json:"token"`
}

// New hashes password and issues a fresh token.
func New(password string) (Credentials, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return Credentials{}, ErrPasswordEmpty
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credentials{}, fmt.Errorf("hash password: %w", err)
	}
	return Credentials{PasswordHash: string(hash), Token: uuid.New().String()}, nil
}

// CheckPassword always runs bcrypt, even when no credentials are set.
// Surrounding spaces are trimmed the same way New trims them.
func (c Credentials) CheckPassword(password string) bool {
	password = strings.TrimSpace(password)
	hash := c.PasswordHash
	if hash == "" {
		hash = string(dummyHash)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil && c.PasswordHash != ""
}

// ValidToken compares in constant time.
func (c Credentials) ValidToken(token string) bool {
	if c.Token == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Token), []byte(token)) == 1
}

// Load reads credentials. ok is false when none were ever saved.
func Load(ctx context.Context, st Store) (Credentials, bool, error) {
	raw, ok, err := st.Get(ctx, Blob)
	if err != nil || !ok {
		return Credentials{}, false, err
	}
	var c Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		return Credentials{}, false, fmt.Errorf("decode credentials: %w", err)
	}
	return c, true, nil
}

func Save(ctx context.Context, st Store, c Credentials) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return st.Put(ctx, Blob, b)
}

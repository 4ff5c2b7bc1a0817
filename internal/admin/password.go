// Package admin holds the shared-secret admin credential check and the
// reminder-log reporting helpers. This is a capability check against a
// single configured secret, not a per-user auth system.
package admin

import (
	"crypto/subtle"
	"errors"

	"github.com/alexedwards/argon2id"

	"github.com/villa-claudia/docs-portal/pkg/config"
)

var ErrBadPassword = errors.New("invalid password")

// CheckPassword verifies the shared admin password. When a hash is
// configured it wins over the plaintext value; otherwise a constant-time
// equality check against ADMIN_PASSWORD.
func CheckPassword(cfg config.AdminConfig, password string) error {
	if cfg.PasswordHash != "" {
		match, err := argon2id.ComparePasswordAndHash(password, cfg.PasswordHash)
		if err != nil || !match {
			return ErrBadPassword
		}
		return nil
	}

	if cfg.Password == "" {
		return ErrBadPassword
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) != 1 {
		return ErrBadPassword
	}
	return nil
}

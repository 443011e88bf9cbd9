// Copyright (c) 2026 Fermata. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	// FindByID returns the account with the given identifier.
	FindByID(context context.Context, id int) (*User, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(context context.Context, username string) (*User, error)

	// Create persists a brand-new user account. The database assigns the
	// serial identifier and write timestamps back into the entity.
	Create(context context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	UpdatePassword(context context.Context, userID int, newHash string) error

	// MarkVerified flips the account to the verified state.
	MarkVerified(context context.Context, userID int) error

	// TouchLastLogin stamps the account's last successful login time.
	TouchLastLogin(context context.Context, userID int) error

	// SetPremium toggles the premium flag on the account.
	SetPremium(context context.Context, userID int, premium bool) error

	// SoftDelete marks the account as deleted without removing the row.
	SoftDelete(context context.Context, id int) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {
	// Create persists a new tracking session for an authenticated login.
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns the active, unexpired session matching the
	// given token hash.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// Revoke marks a specific session as permanently invalidated.
	Revoke(context context.Context, sessionID string) error

	// RevokeAll revokes every active session belonging to the user.
	RevokeAll(context context.Context, userID int) error

	// RevokeOthers revokes all of the user's sessions except the current one.
	RevokeOthers(context context.Context, userID int, currentSessionID string) error

	// DeleteExpired physically removes sessions whose ExpiresAt has passed.
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// ResetTokenRepository stores volatile password reset tokens.
type ResetTokenRepository interface {
	Set(context context.Context, token string, userID int, ttl time.Duration) error
	Get(context context.Context, token string) (int, error)
	Delete(context context.Context, token string) error
}

// VerificationTokenRepository stores volatile email verification tokens.
type VerificationTokenRepository interface {
	Set(context context.Context, token string, userID int, ttl time.Duration) error
	Get(context context.Context, token string) (int, error)
	Delete(context context.Context, token string) error
}

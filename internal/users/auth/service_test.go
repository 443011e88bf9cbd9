// Copyright (c) 2026 Fermata. All rights reserved.

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/internal/platform/sec"
	"github.com/fermata-app/fermata/internal/users/auth"
)

// # Test Doubles

type fakeUserRepository struct {
	users  map[int]*auth.User
	nextID int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[int]*auth.User{}, nextID: 1}
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id int) (*auth.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(ctx context.Context, user *auth.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) UpdatePassword(ctx context.Context, userID int, newHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (f *fakeUserRepository) MarkVerified(ctx context.Context, userID int) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsVerified = true
	return nil
}

func (f *fakeUserRepository) TouchLastLogin(ctx context.Context, userID int) error { return nil }

func (f *fakeUserRepository) SetPremium(ctx context.Context, userID int, premium bool) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsPremium = premium
	return nil
}

func (f *fakeUserRepository) SoftDelete(ctx context.Context, id int) error {
	delete(f.users, id)
	return nil
}

type fakeSessionRepository struct {
	sessions map[string]*auth.Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*auth.Session{}}
}

func (f *fakeSessionRepository) Create(ctx context.Context, session *auth.Session) error {
	session.CreatedAt = time.Now()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range f.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (f *fakeSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	if session, ok := f.sessions[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (f *fakeSessionRepository) RevokeAll(ctx context.Context, userID int) error {
	for _, session := range f.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepository) RevokeOthers(ctx context.Context, userID int, currentSessionID string) error {
	for _, session := range f.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepository) DeleteExpired(ctx context.Context) error { return nil }

// fakeTokenRepository serves both the reset and verification token contracts.
type fakeTokenRepository struct {
	tokens map[string]int
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{tokens: map[string]int{}}
}

func (f *fakeTokenRepository) Set(ctx context.Context, token string, userID int, ttl time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenRepository) Get(ctx context.Context, token string) (int, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, apperr.Unauthorized("Token is invalid or expired")
	}
	return userID, nil
}

func (f *fakeTokenRepository) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID int, username, role string, timeToLive time.Duration) (string, error) {
	return "access-token", nil
}

type testEnv struct {
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	resets   *fakeTokenRepository
	verifies *fakeTokenRepository
	service  *auth.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    newFakeUserRepository(),
		sessions: newFakeSessionRepository(),
		resets:   newFakeTokenRepository(),
		verifies: newFakeTokenRepository(),
	}
	env.service = auth.NewService(
		env.users,
		env.sessions,
		env.resets,
		env.verifies,
		fakeTokenProvider{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

func (env *testEnv) register(t *testing.T, username, email, password string) *auth.User {
	t.Helper()
	user, err := env.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// # Tests

/*
TestService_Register assigns the member role and leaves new accounts
unverified and non-premium.
*/
func TestService_Register(t *testing.T) {
	env := newTestEnv()

	user := env.register(t, "segovia", "andres@example.com", "correct horse battery")

	assert.NotZero(t, user.ID)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.False(t, user.IsVerified)
	assert.False(t, user.IsPremium)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	// Registration queues a verification token for the new account.
	assert.Len(t, env.verifies.tokens, 1)
}

/*
TestService_Register_Conflicts rejects duplicate identities with a 409.
*/
func TestService_Register_Conflicts(t *testing.T) {
	env := newTestEnv()
	env.register(t, "segovia", "andres@example.com", "correct horse battery")

	_, err := env.service.Register(context.Background(), auth.RegisterInput{
		Username: "other", Email: "andres@example.com", Password: "password123",
	})
	require.Error(t, err)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = env.service.Register(context.Background(), auth.RegisterInput{
		Username: "segovia", Email: "new@example.com", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_Login accepts either username or email and is generic on failure.
*/
func TestService_Login(t *testing.T) {
	env := newTestEnv()
	env.register(t, "segovia", "andres@example.com", "correct horse battery")

	byEmail, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "andres@example.com", Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, byEmail.AccessToken)
	assert.NotEmpty(t, byEmail.RefreshToken)

	byUsername, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEqual(t, byEmail.RefreshToken, byUsername.RefreshToken)

	_, err = env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "wrong password",
	})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, err = env.service.Login(context.Background(), auth.LoginInput{
		Login: "nobody", Password: "correct horse battery",
	})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_RefreshSession rotates the refresh token: the presented token is
revoked and cannot mint a second session.
*/
func TestService_RefreshSession(t *testing.T) {
	env := newTestEnv()
	env.register(t, "segovia", "andres@example.com", "correct horse battery")

	login, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := env.service.RefreshSession(context.Background(), login.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Replaying the consumed token must fail.
	_, err = env.service.RefreshSession(context.Background(), login.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_Logout_Idempotent treats an unknown refresh token as already
logged out.
*/
func TestService_Logout_Idempotent(t *testing.T) {
	env := newTestEnv()
	env.register(t, "segovia", "andres@example.com", "correct horse battery")

	login, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, env.service.Logout(context.Background(), login.RefreshToken))
	require.NoError(t, env.service.Logout(context.Background(), "never-issued"))
}

/*
TestService_PasswordReset completes the forgot-password flow and revokes all
sessions. An unknown email stays silent to block enumeration.
*/
func TestService_PasswordReset(t *testing.T) {
	env := newTestEnv()
	env.register(t, "segovia", "andres@example.com", "correct horse battery")

	login, err := env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "correct horse battery",
	})
	require.NoError(t, err)

	token, err := env.service.RequestPasswordReset(context.Background(), "andres@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, env.service.ResetPassword(context.Background(), token, "a brand new password"))

	// Old credentials and old sessions are both dead.
	_, err = env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "correct horse battery",
	})
	require.Error(t, err)
	_, err = env.service.RefreshSession(context.Background(), login.RefreshToken, "", "")
	require.Error(t, err)

	_, err = env.service.Login(context.Background(), auth.LoginInput{
		Login: "segovia", Password: "a brand new password",
	})
	require.NoError(t, err)

	// Unknown email: no error, no token.
	silent, err := env.service.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, silent)

	// A consumed token cannot be replayed.
	err = env.service.ResetPassword(context.Background(), token, "yet another password")
	require.Error(t, err)
}

/*
TestService_SetPremium flips the premium flag both ways and rejects unknown
accounts.
*/
func TestService_SetPremium(t *testing.T) {
	env := newTestEnv()
	user := env.register(t, "segovia", "andres@example.com", "correct horse battery")

	require.NoError(t, env.service.SetPremium(context.Background(), user.ID, true))
	assert.True(t, env.users.users[user.ID].IsPremium)

	require.NoError(t, env.service.SetPremium(context.Background(), user.ID, false))
	assert.False(t, env.users.users[user.ID].IsPremium)

	err := env.service.SetPremium(context.Background(), user.ID+1, true)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_VerifyEmail flips the account to verified and consumes the token.
*/
func TestService_VerifyEmail(t *testing.T) {
	env := newTestEnv()
	user := env.register(t, "segovia", "andres@example.com", "correct horse battery")

	var token string
	for issued := range env.verifies.tokens {
		token = issued
	}
	require.NotEmpty(t, token)

	require.NoError(t, env.service.VerifyEmail(context.Background(), token))
	assert.True(t, env.users.users[user.ID].IsVerified)

	err := env.service.VerifyEmail(context.Background(), token)
	require.Error(t, err)
}

// Copyright (c) 2026 Fermata. All rights reserved.

package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/internal/platform/constants"
)

// tokenStore is the shared shape of the volatile Redis-backed token
// repositories. Tokens map to integer user IDs and expire on their own.
type tokenStore struct {
	client   *redis.Client
	prefix   string
	notFound string
}

func (store *tokenStore) Set(context context.Context, token string, userID int, ttl time.Duration) error {
	key := store.prefix + token

	if err := store.client.Set(context, key, strconv.Itoa(userID), ttl).Err(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (store *tokenStore) Get(context context.Context, token string) (int, error) {
	key := store.prefix + token

	raw, err := store.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperr.Unauthorized(store.notFound)
		}
		return 0, apperr.Internal(err)
	}

	userID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return userID, nil
}

func (store *tokenStore) Delete(context context.Context, token string) error {
	key := store.prefix + token

	if err := store.client.Del(context, key).Err(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// # Reset Token Repository

// RedisResetTokenRepository implements ResetTokenRepository using Redis.
type RedisResetTokenRepository struct {
	tokenStore
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{tokenStore{
		client:   client,
		prefix:   constants.RedisPrefixResetToken,
		notFound: "Reset token is invalid or expired",
	}}
}

// # Verification Token Repository

// RedisVerificationTokenRepository implements VerificationTokenRepository using Redis.
type RedisVerificationTokenRepository struct {
	tokenStore
}

// NewVerificationTokenRepository creates a new Redis-backed VerificationTokenRepository.
func NewVerificationTokenRepository(client *redis.Client) *RedisVerificationTokenRepository {
	return &RedisVerificationTokenRepository{tokenStore{
		client:   client,
		prefix:   constants.RedisPrefixVerifyToken,
		notFound: "Verification token is invalid or expired",
	}}
}

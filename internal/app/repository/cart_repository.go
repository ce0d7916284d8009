package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/essence-za/essence-backend/internal/app/model"
	"github.com/essence-za/essence-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CartRepository stores session carts keyed by an opaque session token.
// Carts are ephemeral: every save refreshes the TTL, and an expired or
// unknown token simply reads back as no cart.
type CartRepository interface {
	Get(ctx context.Context, token string) (*model.Cart, error)
	Save(ctx context.Context, token string, cart *model.Cart) error
	Delete(ctx context.Context, token string) error
}

type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepository{client: client, ttl: ttl}
}

func cartKey(token string) string {
	return fmt.Sprintf("cart:%s", token)
}

// Get returns the cart for a session token, or (nil, nil) when the session
// has no cart yet.
func (r *redisCartRepository) Get(ctx context.Context, token string) (*model.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read session cart", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		logger.Error("Failed to decode session cart", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *redisCartRepository) Save(ctx context.Context, token string, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode session cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(token), data, r.ttl).Err(); err != nil {
		logger.Error("Failed to store session cart", err, map[string]interface{}{
			"token": token,
		})
		return err
	}

	logger.Debug("Session cart stored", map[string]interface{}{
		"token": token,
		"items": len(cart.Items),
	})
	return nil
}

func (r *redisCartRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, cartKey(token)).Err(); err != nil {
		logger.Error("Failed to delete session cart", err, map[string]interface{}{
			"token": token,
		})
		return err
	}
	return nil
}

package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cafe-pos/internal/application/cart"
	"github.com/jhoicas/cafe-pos/internal/domain/entity"
	"github.com/jhoicas/cafe-pos/pkg/logger"
)

var _ cart.Store = (*RedisStore)(nil)

// RedisStore guarda el carrito codificado en msgpack bajo una clave de Redis.
// ttl 0 significa sin expiración.
type RedisStore struct {
	decoder
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore construye el almacén sobre un cliente ya conectado.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{decoder: newDecoder(key, MsgpackCodec{}, log), client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) ([]entity.CartLine, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer carrito de redis: %w", err)
	}
	return s.decode(data)
}

func (s *RedisStore) Save(ctx context.Context, lines []entity.CartLine) error {
	data, err := s.codec.Encode(lines)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar carrito en redis: %w", err)
	}
	return nil
}

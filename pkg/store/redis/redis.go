package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rmax-ai/haze/pkg/content"
)

const (
	keyPrefix       = "haze:dataset:"
	skillsKey       = keyPrefix + "skills"
	achievementsKey = keyPrefix + "achievements"
)

// ErrMissing is returned when a dataset key has not been seeded.
var ErrMissing = errors.New("redis: dataset not seeded")

// DatasetStore keeps the visualization datasets as JSON documents.
type DatasetStore struct {
	client *redis.Client
}

func NewDatasetStore(client *redis.Client) *DatasetStore {
	return &DatasetStore{client: client}
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr string) (*DatasetStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return NewDatasetStore(client), nil
}

// Close releases the client.
func (s *DatasetStore) Close() error {
	return s.client.Close()
}

func (s *DatasetStore) Name() string { return "redis" }

// Seed writes both datasets atomically.
func (s *DatasetStore) Seed(ctx context.Context, ds *content.Datasets) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	skills, err := json.Marshal(ds.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	achievements, err := json.Marshal(ds.Achievements)
	if err != nil {
		return fmt.Errorf("failed to marshal achievements: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, skillsKey, skills, 0)
		pipe.Set(ctx, achievementsKey, achievements, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store datasets: %w", err)
	}
	return nil
}

// Datasets fetches both documents in one round trip.
func (s *DatasetStore) Datasets(ctx context.Context) (*content.Datasets, error) {
	values, err := s.client.MGet(ctx, skillsKey, achievementsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to MGET datasets: %w", err)
	}

	var ds content.Datasets
	targets := []any{&ds.Skills, &ds.Achievements}
	keys := []string{skillsKey, achievementsKey}
	for i, val := range values {
		if val == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissing, keys[i])
		}
		str, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("MGET returned non-string for key %s", keys[i])
		}
		if err := json.Unmarshal([]byte(str), targets[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keys[i], err)
		}
	}
	return &ds, nil
}

// Clear removes the stored datasets.
func (s *DatasetStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, skillsKey, achievementsKey).Err(); err != nil {
		return fmt.Errorf("failed to DEL datasets: %w", err)
	}
	return nil
}

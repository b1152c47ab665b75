package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists search history in Redis so it survives restarts
// and is shared between server instances. Recency lives in a sorted set
// keyed by last-used timestamp; use counts live in a hash.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis at the given URL.
// Returns error if connection fails.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: "issuescout:history:",
	}, nil
}

func (rs *RedisStore) recentKey() string { return rs.prefix + "recent" }
func (rs *RedisStore) countsKey() string { return rs.prefix + "counts" }

// Touch records a search of owner/repo, bumping recency and use count
// and trimming the set to MaxRecords in one pipeline.
func (rs *RedisStore) Touch(ctx context.Context, owner, repo string) error {
	member := strings.ToLower(owner + "/" + repo)

	pipe := rs.client.Pipeline()
	pipe.ZAdd(ctx, rs.recentKey(), redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: member,
	})
	pipe.HIncrBy(ctx, rs.countsKey(), member, 1)
	// Keep only the MaxRecords most recent members.
	pipe.ZRemRangeByRank(ctx, rs.recentKey(), 0, int64(-MaxRecords-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording search history: %w", err)
	}
	return nil
}

// Recent returns up to limit records, most recently used first.
func (rs *RedisStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > MaxRecords {
		limit = MaxRecords
	}

	entries, err := rs.client.ZRevRangeWithScores(ctx, rs.recentKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("loading search history: %w", err)
	}

	counts, err := rs.client.HGetAll(ctx, rs.countsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("loading use counts: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for _, z := range entries {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		owner, repo := SplitRepo(name)
		if repo == "" {
			// Skip malformed entries
			continue
		}

		useCount := 1
		if raw, ok := counts[name]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				useCount = n
			}
		}

		records = append(records, Record{
			Owner:    owner,
			Repo:     repo,
			LastUsed: time.Unix(int64(z.Score), 0),
			UseCount: useCount,
		})
	}
	return records, nil
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

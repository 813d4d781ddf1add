// Package feed publishes settled room actions to a Redis list for external
// consumers (spectator dashboards, analytics). Fire-and-forget: the engine
// never blocks on the feed and runs fine without it.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup;
// leave it nil to disable the feed.
var Rdb *redis.Client

// DefaultQueueName is the Redis list name for room action records.
var DefaultQueueName = "duelo_actions"

// ActionRecord is one settled (or rejected) room action.
type ActionRecord struct {
	RoomCode    string                 `json:"room_code"`
	ActionIndex int                    `json:"action_index"`
	ActorID     uuid.UUID              `json:"actor_id"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// Connect initializes the global Redis client from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func Connect() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// Enabled reports whether a Redis client is connected.
func Enabled() bool {
	return Rdb != nil
}

// PublishAction serializes the record and pushes it onto the feed list.
func PublishAction(ctx context.Context, record ActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	queueName := getEnv("FEED_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

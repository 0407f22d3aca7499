package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/scoring"
	"github.com/redis/go-redis/v9"
)

// QuestionCache holds question lists per course, difficulty and type set.
// Sessions and predictions are always read fresh and never pass through here.
type QuestionCache interface {
	Get(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types []scoring.TestType) ([]model.Question, bool, error)
	Set(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types []scoring.TestType, questions []model.Question) error
	InvalidateCourse(ctx context.Context, courseID uint) error
}

type questionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuestionCache works with a nil client: every Get misses and writes are dropped.
func NewQuestionCache(client *redis.Client, cfg *config.Config) QuestionCache {
	ttl := cfg.Redis.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &questionCache{client: client, ttl: ttl}
}

func (c *questionCache) key(courseID uint, difficulty scoring.Difficulty, types []scoring.TestType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	sort.Strings(names)
	if len(names) == 0 {
		names = []string{"all"}
	}
	return fmt.Sprintf("questions:%d:%s:%s", courseID, difficulty, strings.Join(names, ","))
}

func (c *questionCache) Get(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types []scoring.TestType) ([]model.Question, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, c.key(courseID, difficulty, types)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, false, err
	}
	return questions, true, nil
}

func (c *questionCache) Set(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types []scoring.TestType, questions []model.Question) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(courseID, difficulty, types), data, c.ttl).Err()
}

func (c *questionCache) InvalidateCourse(ctx context.Context, courseID uint) error {
	if c.client == nil {
		return nil
	}
	var keys []string
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("questions:%d:*", courseID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

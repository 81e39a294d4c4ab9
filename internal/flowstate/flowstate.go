// Package flowstate stores per-actor conversation steps in Redis with a
// TTL, so half-finished flows expire instead of accumulating.
package flowstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Flow step names used by the chat transport.
const (
	StepTopicSelection  = "topic_selection"
	StepDescription     = "description"
	StepRegisterName    = "register_name"
	StepRegisterBio     = "register_bio"
	StepRegisterTopics  = "register_topics"
	StepFeedbackComment = "feedback_comment"
)

// State is one actor's position in a multi-step conversation flow.
type State struct {
	Step    string            `json:"step"`
	Payload map[string]string `json:"payload,omitempty"`
	SetAt   time.Time         `json:"set_at"`
}

// Store keeps flow states keyed by chat id.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a store on the given Redis client.
func New(client *redis.Client, cfg config.RedisConfig) *Store {
	return &Store{client: client, ttl: cfg.FlowStateTTL}
}

func key(chatID int64) string {
	return fmt.Sprintf("flow:%d", chatID)
}

// Set stores the actor's flow state, restarting the TTL.
func (s *Store) Set(ctx context.Context, chatID int64, state State) error {
	state.SetAt = time.Now().UTC()

	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal flow state: %w", err)
	}

	if err := s.client.Set(ctx, key(chatID), body, s.ttl).Err(); err != nil {
		return fmt.Errorf("store flow state: %w", err)
	}
	return nil
}

// Get returns the actor's flow state.
// Returns domain.ErrNotFound when the actor has no live flow.
func (s *Store) Get(ctx context.Context, chatID int64) (*State, error) {
	body, err := s.client.Get(ctx, key(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("flow state %d: %w", chatID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load flow state: %w", err)
	}

	var state State
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("decode flow state: %w", err)
	}
	return &state, nil
}

// Clear removes the actor's flow state. Clearing an absent state is a no-op.
func (s *Store) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, key(chatID)).Err(); err != nil {
		return fmt.Errorf("clear flow state: %w", err)
	}
	return nil
}

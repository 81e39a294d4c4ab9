package flowstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, config.RedisConfig{FlowStateTTL: 30 * time.Minute}), mr
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := State{
		Step:    StepDescription,
		Payload: map[string]string{"topic": "grief"},
	}
	if err := store.Set(ctx, 555001, in); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, 555001)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Step != StepDescription {
		t.Errorf("Get() step = %q, want %q", got.Step, StepDescription)
	}
	if got.Payload["topic"] != "grief" {
		t.Errorf("Get() payload topic = %q, want grief", got.Payload["topic"])
	}
	if got.SetAt.IsZero() {
		t.Error("Get() set_at is zero")
	}
}

func TestStore_GetMiss(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), 999999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetReplacesStep(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, 555001, State{Step: StepTopicSelection}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, 555001, State{Step: StepDescription}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, 555001)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Step != StepDescription {
		t.Errorf("Get() step = %q, want %q", got.Step, StepDescription)
	}
}

func TestStore_Clear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, 555001, State{Step: StepRegisterBio}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Clear(ctx, 555001); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, err := store.Get(ctx, 555001); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after Clear error = %v, want ErrNotFound", err)
	}

	// Clearing an absent state stays a no-op.
	if err := store.Clear(ctx, 555001); err != nil {
		t.Errorf("Clear() of absent state error = %v", err)
	}
}

func TestStore_StateExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, 555001, State{Step: StepFeedbackComment}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(31 * time.Minute)

	if _, err := store.Get(ctx, 555001); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after TTL error = %v, want ErrNotFound", err)
	}
}

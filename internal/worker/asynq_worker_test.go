package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/provider"
	"github.com/vendora-next/internal/queue"

	"github.com/hibiken/asynq"
)

type fakeGuestStore struct {
	deleted      map[string][]string
	tokenDeleted []string
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{deleted: make(map[string][]string)}
}

func (f *fakeGuestStore) List(_ context.Context, _, _ string) ([]cache.GuestEntry, error) {
	return nil, nil
}

func (f *fakeGuestStore) Save(_ context.Context, _, _ string, _ []cache.GuestEntry) error {
	return nil
}

func (f *fakeGuestStore) Delete(_ context.Context, guestID, kind string) error {
	f.deleted[guestID] = append(f.deleted[guestID], kind)
	return nil
}

func (f *fakeGuestStore) GetPushToken(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (f *fakeGuestStore) SetPushToken(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeGuestStore) DelPushToken(_ context.Context, guestID string) error {
	f.tokenDeleted = append(f.tokenDeleted, guestID)
	return nil
}

func (f *fakeGuestStore) AcquireMergeFlag(_ context.Context, _ uint, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func newPurgeTask(t *testing.T, payload queue.GuestStorePurgePayload) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskGuestStorePurge, body)
}

func TestHandleGuestStorePurgeDeletesAllCollections(t *testing.T) {
	store := newFakeGuestStore()
	consumer := NewConsumer(&provider.Container{GuestStore: store})

	task := newPurgeTask(t, queue.GuestStorePurgePayload{GuestID: "guest-1"})
	if err := consumer.handleGuestStorePurge(context.Background(), task); err != nil {
		t.Fatalf("handleGuestStorePurge failed: %v", err)
	}

	kinds := store.deleted["guest-1"]
	want := map[string]bool{
		constants.GuestCollectionCart:           false,
		constants.GuestCollectionWishlist:       false,
		constants.GuestCollectionRecentlyViewed: false,
	}
	for _, kind := range kinds {
		if _, ok := want[kind]; !ok {
			t.Fatalf("unexpected collection purged: %s", kind)
		}
		want[kind] = true
	}
	for kind, purged := range want {
		if !purged {
			t.Fatalf("collection %s not purged", kind)
		}
	}
	if len(store.tokenDeleted) != 1 || store.tokenDeleted[0] != "guest-1" {
		t.Fatalf("push token not purged, got %v", store.tokenDeleted)
	}
}

func TestHandleGuestStorePurgeSkipsEmptyGuestID(t *testing.T) {
	store := newFakeGuestStore()
	consumer := NewConsumer(&provider.Container{GuestStore: store})

	task := newPurgeTask(t, queue.GuestStorePurgePayload{})
	if err := consumer.handleGuestStorePurge(context.Background(), task); err != nil {
		t.Fatalf("expected nil error for empty guest id, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no deletions, got %v", store.deleted)
	}
}

func TestHandleGuestStorePurgeBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{GuestStore: newFakeGuestStore()})

	task := asynq.NewTask(queue.TaskGuestStorePurge, []byte("{not-json"))
	if err := consumer.handleGuestStorePurge(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandleOrderStatusPushSkipsInvalidPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	body, err := json.Marshal(queue.OrderStatusPushPayload{OrderID: 0, UserID: 0})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskOrderStatusPush, body)
	if err := consumer.handleOrderStatusPush(context.Background(), task); err != nil {
		t.Fatalf("expected nil error for invalid payload, got %v", err)
	}
}

func TestHandleOrderStatusPushBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderStatusPush, []byte("???"))
	if err := consumer.handleOrderStatusPush(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

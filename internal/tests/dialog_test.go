package tests

import (
	"context"
	"testing"
	"time"

	"restaurant-directory/internal/mocks"
	"restaurant-directory/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestDialogService_StackSemantics(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewDialogService(kv, time.Hour)

	assert.Equal(t, "", svc.Active(ctx, "s1"))

	assert.NoError(t, svc.Open(ctx, "s1", "restaurant"))
	assert.Equal(t, "restaurant", svc.Active(ctx, "s1"))

	// A second dialog stacks on top instead of overlapping.
	assert.NoError(t, svc.Open(ctx, "s1", "reservation"))
	assert.Equal(t, "reservation", svc.Active(ctx, "s1"))

	// Closing the top reveals the one underneath.
	assert.NoError(t, svc.Close(ctx, "s1", "reservation"))
	assert.Equal(t, "restaurant", svc.Active(ctx, "s1"))

	assert.NoError(t, svc.Close(ctx, "s1", "restaurant"))
	assert.Equal(t, "", svc.Active(ctx, "s1"))
}

func TestDialogService_CloseMidStack(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewDialogService(kv, time.Hour)

	_ = svc.Open(ctx, "s1", "restaurant")
	_ = svc.Open(ctx, "s1", "order")

	assert.NoError(t, svc.Close(ctx, "s1", "restaurant"))
	assert.Equal(t, "order", svc.Active(ctx, "s1"))
}

func TestDialogService_ReopenMovesToTop(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewDialogService(kv, time.Hour)

	_ = svc.Open(ctx, "s1", "restaurant")
	_ = svc.Open(ctx, "s1", "order")
	_ = svc.Open(ctx, "s1", "restaurant")

	assert.Equal(t, "restaurant", svc.Active(ctx, "s1"))
	_ = svc.Close(ctx, "s1", "restaurant")
	assert.Equal(t, "order", svc.Active(ctx, "s1"))
	_ = svc.Close(ctx, "s1", "order")
	assert.Equal(t, "", svc.Active(ctx, "s1"))
}

func TestDialogService_CorruptStateReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	kv.Seed("session:s1:dialogs", "{not json")
	svc := service.NewDialogService(kv, time.Hour)

	assert.Equal(t, "", svc.Active(ctx, "s1"))
	assert.NoError(t, svc.Close(ctx, "s1", "login"))
}

func TestDialogService_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewDialogService(kv, time.Hour)

	_ = svc.Open(ctx, "s1", "login")
	assert.Equal(t, "login", svc.Active(ctx, "s1"))
	assert.Equal(t, "", svc.Active(ctx, "s2"))
}

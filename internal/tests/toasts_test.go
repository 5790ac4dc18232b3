package tests

import (
	"context"
	"testing"
	"time"

	"restaurant-directory/internal/mocks"
	"restaurant-directory/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestToastService_PushAndDrain(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewToastService(kv, time.Hour)

	svc.Push(ctx, "s1", "Reservation confirmed", service.ToastSuccess)
	svc.Push(ctx, "s1", "Restaurant removed from favorites", service.ToastInfo)

	toasts := svc.Drain(ctx, "s1")
	assert.Len(t, toasts, 2)
	assert.Equal(t, "Reservation confirmed", toasts[0].Message)
	assert.Equal(t, service.ToastSuccess, toasts[0].Kind)
	assert.Equal(t, "#4caf50", toasts[0].Color)
	assert.Equal(t, service.ToastInfo, toasts[1].Kind)

	// Drain empties the queue.
	assert.Empty(t, svc.Drain(ctx, "s1"))
}

func TestToastService_UnknownKindBecomesInfo(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewToastService(kv, time.Hour)

	svc.Push(ctx, "s1", "hello", "warning")

	toasts := svc.Drain(ctx, "s1")
	assert.Len(t, toasts, 1)
	assert.Equal(t, service.ToastInfo, toasts[0].Kind)
	assert.Equal(t, "#1976d2", toasts[0].Color)
}

func TestToastService_CorruptQueueReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	kv.Seed("session:s1:toasts", "][")
	svc := service.NewToastService(kv, time.Hour)

	assert.Empty(t, svc.Drain(ctx, "s1"))
}

func TestToastService_ExpiryStamped(t *testing.T) {
	ctx := context.Background()
	kv := mocks.NewMemoryKV()
	svc := service.NewToastService(kv, time.Hour)

	before := time.Now()
	svc.Push(ctx, "s1", "hi", service.ToastInfo)

	toasts := svc.Drain(ctx, "s1")
	assert.Len(t, toasts, 1)
	assert.True(t, toasts[0].ExpiresAt.After(before))
	assert.True(t, toasts[0].ExpiresAt.Before(before.Add(10*time.Second)))
}

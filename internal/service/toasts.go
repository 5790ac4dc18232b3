package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"restaurant-directory/internal/domain"
)

const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"

	// How long a toast stays on screen before it fades.
	toastDisplayFor = 3 * time.Second
)

var toastColors = map[string]string{
	ToastSuccess: "#4caf50",
	ToastError:   "#d32f2f",
	ToastInfo:    "#1976d2",
}

// ToastService queues transient per-session messages. Toasts stack in push
// order and expire after a fixed display delay; Drain hands out whatever is
// still alive and empties the queue.
type ToastService struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

func NewToastService(kv KV, ttl time.Duration) *ToastService {
	return &ToastService{kv: kv, ttl: ttl, now: time.Now}
}

func (s *ToastService) key(sessionID string) string {
	return "session:" + sessionID + ":toasts"
}

func (s *ToastService) Push(ctx context.Context, sessionID, message, kind string) {
	color, ok := toastColors[kind]
	if !ok {
		kind = ToastInfo
		color = toastColors[ToastInfo]
	}

	queue := s.load(ctx, sessionID)
	queue = append(queue, domain.Toast{
		Message:   message,
		Kind:      kind,
		Color:     color,
		ExpiresAt: s.now().Add(toastDisplayFor),
	})

	raw, err := json.Marshal(queue)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, s.key(sessionID), string(raw), s.ttl); err != nil {
		log.Printf("WARNING: failed to queue toast: %v", err)
	}
}

func (s *ToastService) Drain(ctx context.Context, sessionID string) []domain.Toast {
	queue := s.load(ctx, sessionID)
	_ = s.kv.Del(ctx, s.key(sessionID))

	alive := []domain.Toast{}
	now := s.now()
	for _, t := range queue {
		if t.ExpiresAt.After(now) {
			alive = append(alive, t)
		}
	}
	return alive
}

func (s *ToastService) load(ctx context.Context, sessionID string) []domain.Toast {
	raw, ok, err := s.kv.Get(ctx, s.key(sessionID))
	if err != nil || !ok {
		return nil
	}
	var queue []domain.Toast
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		return nil
	}
	return queue
}

var _ ToastServiceInterface = (*ToastService)(nil)

package service

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// DialogService keeps an explicit per-session dialog stack instead of
// independent visibility flags. The top of the stack is the one active
// dialog; opening a second dialog stacks on top of the first rather than
// leaving both "visible".
type DialogService struct {
	kv  KV
	ttl time.Duration
}

func NewDialogService(kv KV, ttl time.Duration) *DialogService {
	return &DialogService{kv: kv, ttl: ttl}
}

func (s *DialogService) key(sessionID string) string {
	return "session:" + sessionID + ":dialogs"
}

func (s *DialogService) load(ctx context.Context, sessionID string) []string {
	raw, ok, err := s.kv.Get(ctx, s.key(sessionID))
	if err != nil || !ok {
		return nil
	}
	var stack []string
	if err := json.Unmarshal([]byte(raw), &stack); err != nil {
		// Corrupt state reads as "nothing open".
		return nil
	}
	return stack
}

func (s *DialogService) save(ctx context.Context, sessionID string, stack []string) error {
	if len(stack) == 0 {
		return s.kv.Del(ctx, s.key(sessionID))
	}
	raw, err := json.Marshal(stack)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(sessionID), string(raw), s.ttl)
}

// Open pushes dialogID on the session's stack, making it the active dialog.
// Re-opening a dialog already on the stack moves it to the top.
func (s *DialogService) Open(ctx context.Context, sessionID, dialogID string) error {
	stack := remove(s.load(ctx, sessionID), dialogID)
	stack = append(stack, dialogID)
	if err := s.save(ctx, sessionID, stack); err != nil {
		log.Printf("WARNING: failed to save dialog stack: %v", err)
		return err
	}
	return nil
}

// Close removes dialogID wherever it sits on the stack; closing a dialog
// that is not open is a no-op.
func (s *DialogService) Close(ctx context.Context, sessionID, dialogID string) error {
	stack := s.load(ctx, sessionID)
	trimmed := remove(stack, dialogID)
	if len(trimmed) == len(stack) {
		return nil
	}
	if err := s.save(ctx, sessionID, trimmed); err != nil {
		log.Printf("WARNING: failed to save dialog stack: %v", err)
		return err
	}
	return nil
}

// Active returns the top of the stack, or "" when nothing is open.
func (s *DialogService) Active(ctx context.Context, sessionID string) string {
	stack := s.load(ctx, sessionID)
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}

func remove(stack []string, dialogID string) []string {
	out := stack[:0]
	for _, id := range stack {
		if id != dialogID {
			out = append(out, id)
		}
	}
	return out
}

var _ DialogServiceInterface = (*DialogService)(nil)

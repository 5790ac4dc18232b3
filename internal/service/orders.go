package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
)

var (
	ErrDraftNotFound = errors.New("no open order for this restaurant")
	ErrItemNotFound  = errors.New("menu item not found")
	ErrEmptyOrder    = errors.New("add at least one item to the order")
)

// OrdersService manages per-session order drafts. A draft lives in the KV
// store from the moment the order dialog opens until the order is placed or
// the dialog is closed; checkout itself is simulated and writes nothing
// durable, it only emits an analytics event.
type OrdersService struct {
	catalog   *catalog.Catalog
	kv        KV
	publisher EventPublisher
	draftTTL  time.Duration
}

func NewOrdersService(c *catalog.Catalog, kv KV, publisher EventPublisher, draftTTL time.Duration) *OrdersService {
	return &OrdersService{catalog: c, kv: kv, publisher: publisher, draftTTL: draftTTL}
}

func (s *OrdersService) draftKey(sessionID string, restaurantID int) string {
	return fmt.Sprintf("session:%s:order:%d", sessionID, restaurantID)
}

// Open starts a fresh draft with every menu item at quantity zero.
func (s *OrdersService) Open(ctx context.Context, sessionID string, restaurantID int) (*domain.OrderView, error) {
	r, ok := s.catalog.Get(restaurantID)
	if !ok {
		return nil, ErrRestaurantNotFound
	}

	draft := &domain.OrderDraft{
		RestaurantID: restaurantID,
		Quantities:   make(map[int]int, len(r.Menu)),
	}
	for _, item := range r.Menu {
		draft.Quantities[item.ID] = 0
	}

	if err := s.save(ctx, sessionID, draft); err != nil {
		return nil, fmt.Errorf("failed to save order draft: %w", err)
	}
	return s.view(r, draft), nil
}

// Adjust changes one item's quantity by delta. Quantities clamp at zero on
// the way down and are unbounded on the way up; the view's total is
// recomputed on every call.
func (s *OrdersService) Adjust(ctx context.Context, sessionID string, restaurantID, itemID, delta int) (*domain.OrderView, error) {
	r, ok := s.catalog.Get(restaurantID)
	if !ok {
		return nil, ErrRestaurantNotFound
	}

	draft, err := s.load(ctx, sessionID, restaurantID)
	if err != nil {
		return nil, err
	}
	if _, ok := draft.Quantities[itemID]; !ok {
		return nil, ErrItemNotFound
	}

	qty := draft.Quantities[itemID] + delta
	if qty < 0 {
		qty = 0
	}
	draft.Quantities[itemID] = qty

	if err := s.save(ctx, sessionID, draft); err != nil {
		return nil, fmt.Errorf("failed to save order draft: %w", err)
	}
	return s.view(r, draft), nil
}

// Place finalizes the draft: with all quantities at zero it fails and keeps
// the draft; otherwise it computes the total, emits an order_placed event
// and discards the draft.
func (s *OrdersService) Place(ctx context.Context, sessionID string, restaurantID int) (float64, error) {
	r, ok := s.catalog.Get(restaurantID)
	if !ok {
		return 0, ErrRestaurantNotFound
	}

	draft, err := s.load(ctx, sessionID, restaurantID)
	if err != nil {
		return 0, err
	}

	total := 0.0
	items := 0
	for _, item := range r.Menu {
		if qty := draft.Quantities[item.ID]; qty > 0 {
			total += item.Price * float64(qty)
			items++
		}
	}
	if items == 0 {
		return 0, ErrEmptyOrder
	}

	if s.publisher != nil {
		event := domain.Event{
			Type:         "order_placed",
			SessionID:    sessionID,
			RestaurantID: restaurantID,
			Total:        total,
			Timestamp:    time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("WARNING: failed to emit order event: %v", err)
		}
	}

	if err := s.kv.Del(ctx, s.draftKey(sessionID, restaurantID)); err != nil {
		log.Printf("WARNING: failed to discard placed order draft: %v", err)
	}
	return total, nil
}

// Discard drops the draft, mirroring the dialog being closed unplaced.
func (s *OrdersService) Discard(ctx context.Context, sessionID string, restaurantID int) error {
	return s.kv.Del(ctx, s.draftKey(sessionID, restaurantID))
}

func (s *OrdersService) load(ctx context.Context, sessionID string, restaurantID int) (*domain.OrderDraft, error) {
	raw, ok, err := s.kv.Get(ctx, s.draftKey(sessionID, restaurantID))
	if err != nil {
		return nil, fmt.Errorf("failed to load order draft: %w", err)
	}
	if !ok {
		return nil, ErrDraftNotFound
	}
	var draft domain.OrderDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, ErrDraftNotFound
	}
	if draft.Quantities == nil {
		draft.Quantities = map[int]int{}
	}
	return &draft, nil
}

func (s *OrdersService) save(ctx context.Context, sessionID string, draft *domain.OrderDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.draftKey(sessionID, draft.RestaurantID), string(raw), s.draftTTL)
}

func (s *OrdersService) view(r domain.Restaurant, draft *domain.OrderDraft) *domain.OrderView {
	view := &domain.OrderView{
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
	}
	for _, section := range catalog.GroupMenu(r) {
		out := domain.OrderSection{Category: section.Category}
		for _, item := range section.Items {
			qty := draft.Quantities[item.ID]
			out.Lines = append(out.Lines, domain.OrderLine{Item: item, Quantity: qty})
			if qty > 0 {
				view.Total += item.Price * float64(qty)
			}
		}
		view.Sections = append(view.Sections, out)
	}
	return view
}

var _ OrdersServiceInterface = (*OrdersService)(nil)

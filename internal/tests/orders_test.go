package tests

import (
	"context"
	"testing"
	"time"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/mocks"
	"restaurant-directory/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrdersService(t *testing.T) (*service.OrdersService, *mocks.MemoryKV, *mocks.EventPublisher) {
	kv := mocks.NewMemoryKV()
	publisher := mocks.NewEventPublisher(t)
	svc := service.NewOrdersService(catalog.Default(), kv, publisher, time.Hour)
	return svc, kv, publisher
}

func TestOrdersService_OpenStartsAtZero(t *testing.T) {
	svc, _, _ := newOrdersService(t)

	view, err := svc.Open(context.Background(), "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, "Milano Italiano", view.RestaurantName)
	assert.Equal(t, 0.0, view.Total)

	// Menu grouped by category, first-seen order.
	assert.Equal(t, "Pizzas", view.Sections[0].Category)
	assert.Equal(t, "Pastas", view.Sections[1].Category)
	assert.Equal(t, "Postres", view.Sections[2].Category)
	for _, section := range view.Sections {
		for _, line := range section.Lines {
			assert.Equal(t, 0, line.Quantity)
		}
	}
}

func TestOrdersService_OpenUnknownRestaurant(t *testing.T) {
	svc, _, _ := newOrdersService(t)

	_, err := svc.Open(context.Background(), "s1", 99)
	assert.ErrorIs(t, err, service.ErrRestaurantNotFound)
}

func TestOrdersService_RunningTotal(t *testing.T) {
	svc, _, publisher := newOrdersService(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", 1)
	assert.NoError(t, err)

	// Pizza Margherita (item 1, $12) twice, Tiramisú (item 3, $8) once.
	view, err := svc.Adjust(ctx, "s1", 1, 1, +1)
	assert.NoError(t, err)
	assert.Equal(t, 12.0, view.Total)

	view, err = svc.Adjust(ctx, "s1", 1, 1, +1)
	assert.NoError(t, err)
	assert.Equal(t, 24.0, view.Total)

	view, err = svc.Adjust(ctx, "s1", 1, 3, +1)
	assert.NoError(t, err)
	assert.Equal(t, 32.0, view.Total)

	publisher.On("Publish", ctx, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == "order_placed" && e.Total == 32.0
	})).Return(nil).Once()

	total, err := svc.Place(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, 32.0, total)

	// The draft is gone after placing.
	_, err = svc.Adjust(ctx, "s1", 1, 1, +1)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestOrdersService_DecrementClampsAtZero(t *testing.T) {
	svc, _, _ := newOrdersService(t)
	ctx := context.Background()

	_, _ = svc.Open(ctx, "s1", 1)

	view, err := svc.Adjust(ctx, "s1", 1, 1, -1)
	assert.NoError(t, err)
	assert.Equal(t, 0, view.Sections[0].Lines[0].Quantity)
	assert.Equal(t, 0.0, view.Total)

	// Up then down twice still floors at zero.
	_, _ = svc.Adjust(ctx, "s1", 1, 1, +1)
	_, _ = svc.Adjust(ctx, "s1", 1, 1, -1)
	view, _ = svc.Adjust(ctx, "s1", 1, 1, -1)
	assert.Equal(t, 0, view.Sections[0].Lines[0].Quantity)
}

func TestOrdersService_PlaceEmptyOrder(t *testing.T) {
	svc, _, _ := newOrdersService(t)
	ctx := context.Background()

	_, _ = svc.Open(ctx, "s1", 1)

	_, err := svc.Place(ctx, "s1", 1)
	assert.ErrorIs(t, err, service.ErrEmptyOrder)

	// The draft survives a rejected placement.
	view, err := svc.Adjust(ctx, "s1", 1, 1, +1)
	assert.NoError(t, err)
	assert.Equal(t, 12.0, view.Total)
}

func TestOrdersService_AdjustUnknownItem(t *testing.T) {
	svc, _, _ := newOrdersService(t)
	ctx := context.Background()

	_, _ = svc.Open(ctx, "s1", 1)

	_, err := svc.Adjust(ctx, "s1", 1, 42, +1)
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestOrdersService_AdjustWithoutOpenDraft(t *testing.T) {
	svc, _, _ := newOrdersService(t)

	_, err := svc.Adjust(context.Background(), "s1", 1, 1, +1)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestOrdersService_DiscardDropsDraft(t *testing.T) {
	svc, _, _ := newOrdersService(t)
	ctx := context.Background()

	_, _ = svc.Open(ctx, "s1", 1)
	assert.NoError(t, svc.Discard(ctx, "s1", 1))

	_, err := svc.Adjust(ctx, "s1", 1, 1, +1)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestOrdersService_SamePriceItemsAreDistinct(t *testing.T) {
	kv := mocks.NewMemoryKV()
	c := catalog.New([]domain.Restaurant{
		{
			ID: 1,
			Menu: []domain.MenuItem{
				{Name: "Soup", Price: 9, Category: "Starters"},
				{Name: "Salad", Price: 9, Category: "Starters"},
			},
		},
	})
	svc := service.NewOrdersService(c, kv, nil, time.Hour)
	ctx := context.Background()

	_, _ = svc.Open(ctx, "s1", 1)
	view, err := svc.Adjust(ctx, "s1", 1, 2, +1)
	assert.NoError(t, err)
	assert.Equal(t, 0, view.Sections[0].Lines[0].Quantity)
	assert.Equal(t, 1, view.Sections[0].Lines[1].Quantity)
	assert.Equal(t, 9.0, view.Total)
}

func TestOrdersService_DraftsAreScopedPerSession(t *testing.T) {
	svc, _, _ := newOrdersService(t)
	ctx := context.Background()

	_, _ = svc.Open(ctx, "s1", 1)
	_, _ = svc.Open(ctx, "s2", 1)

	_, _ = svc.Adjust(ctx, "s1", 1, 1, +2)

	view, err := svc.Adjust(ctx, "s2", 1, 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, view.Total)
}

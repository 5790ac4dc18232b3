package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
	"restaurant-directory/internal/mocks"
	"restaurant-directory/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newReservationService(t *testing.T) (*service.ReservationService, *mocks.ReservationRepository, *mocks.QRGenerator, *mocks.EventPublisher) {
	repo := mocks.NewReservationRepository(t)
	qr := mocks.NewQRGenerator(t)
	publisher := mocks.NewEventPublisher(t)
	svc := service.NewReservationService(catalog.Default(), repo, qr, publisher)
	return svc, repo, qr, publisher
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestReservationService_CreateSuccess(t *testing.T) {
	svc, repo, qr, publisher := newReservationService(t)
	ctx := context.Background()

	repo.On("InsertReservation", mock.Anything).Run(func(args mock.Arguments) {
		res := args.Get(0).(*domain.Reservation)
		res.ID = 7
	}).Return(nil).Once()
	qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	repo.On("SaveQRCode", mock.Anything, []byte("png")).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	res, err := svc.Create(ctx, "s1", service.ReservationRequest{
		RestaurantID:    1,
		Date:            tomorrow(),
		TimeSlot:        "19:00",
		Guests:          4,
		SpecialRequests: "  window table ",
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, res.ID)
	assert.Equal(t, 4, res.Guests)
	assert.Equal(t, "window table", res.SpecialRequests)
	assert.Contains(t, res.Code, "RES-")
}

func TestReservationService_DefaultGuests(t *testing.T) {
	svc, repo, qr, publisher := newReservationService(t)
	ctx := context.Background()

	var saved *domain.Reservation
	repo.On("InsertReservation", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*domain.Reservation)
	}).Return(nil).Once()
	qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	repo.On("SaveQRCode", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.Create(ctx, "s1", service.ReservationRequest{
		RestaurantID: 2,
		Date:         tomorrow(),
		TimeSlot:     "12:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, saved.Guests)
}

func TestReservationService_Validation(t *testing.T) {
	svc, _, _, _ := newReservationService(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		req           service.ReservationRequest
		expectedError error
	}{
		{
			name:          "unknown_restaurant",
			req:           service.ReservationRequest{RestaurantID: 99, Date: tomorrow(), TimeSlot: "19:00"},
			expectedError: service.ErrRestaurantNotFound,
		},
		{
			name:          "unparseable_date",
			req:           service.ReservationRequest{RestaurantID: 1, Date: "next friday", TimeSlot: "19:00"},
			expectedError: service.ErrInvalidDate,
		},
		{
			name:          "past_date",
			req:           service.ReservationRequest{RestaurantID: 1, Date: "2020-01-01", TimeSlot: "19:00"},
			expectedError: service.ErrInvalidDate,
		},
		{
			name:          "time_outside_slot_set",
			req:           service.ReservationRequest{RestaurantID: 1, Date: tomorrow(), TimeSlot: "17:30"},
			expectedError: service.ErrInvalidTime,
		},
		{
			name:          "too_many_guests",
			req:           service.ReservationRequest{RestaurantID: 1, Date: tomorrow(), TimeSlot: "19:00", Guests: 21},
			expectedError: service.ErrInvalidGuests,
		},
		{
			name:          "negative_guests",
			req:           service.ReservationRequest{RestaurantID: 1, Date: tomorrow(), TimeSlot: "19:00", Guests: -1},
			expectedError: service.ErrInvalidGuests,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "s1", testCase.req)
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}
}

func TestReservationService_TodayIsBookable(t *testing.T) {
	svc, repo, qr, publisher := newReservationService(t)
	ctx := context.Background()

	repo.On("InsertReservation", mock.Anything).Return(nil).Once()
	qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	repo.On("SaveQRCode", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.Create(ctx, "s1", service.ReservationRequest{
		RestaurantID: 1,
		Date:         time.Now().Format("2006-01-02"),
		TimeSlot:     "22:00",
		Guests:       2,
	})
	assert.NoError(t, err)
}

func TestReservationService_QRFailureIsNonFatal(t *testing.T) {
	svc, repo, qr, publisher := newReservationService(t)
	ctx := context.Background()

	repo.On("InsertReservation", mock.Anything).Return(nil).Once()
	qr.On("Generate", mock.Anything).Return(nil, errors.New("encoder broken")).Once()
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.Create(ctx, "s1", service.ReservationRequest{
		RestaurantID: 1, Date: tomorrow(), TimeSlot: "20:00", Guests: 2,
	})
	assert.NoError(t, err)
}

func TestReservationService_PublishFailureIsNonFatal(t *testing.T) {
	svc, repo, qr, publisher := newReservationService(t)
	ctx := context.Background()

	repo.On("InsertReservation", mock.Anything).Return(nil).Once()
	qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	repo.On("SaveQRCode", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := svc.Create(ctx, "s1", service.ReservationRequest{
		RestaurantID: 1, Date: tomorrow(), TimeSlot: "21:00", Guests: 2,
	})
	assert.NoError(t, err)
}

func TestReservationService_InsertFailure(t *testing.T) {
	svc, repo, _, _ := newReservationService(t)

	repo.On("InsertReservation", mock.Anything).Return(errors.New("db down")).Once()

	_, err := svc.Create(context.Background(), "s1", service.ReservationRequest{
		RestaurantID: 1, Date: tomorrow(), TimeSlot: "19:00", Guests: 2,
	})
	assert.Error(t, err)
}

func TestReservationService_SubmitInFlightRejected(t *testing.T) {
	svc, repo, qr, publisher := newReservationService(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	repo.On("InsertReservation", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(nil).Once()
	qr.On("Generate", mock.Anything).Return([]byte("png"), nil).Once()
	repo.On("SaveQRCode", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	req := service.ReservationRequest{RestaurantID: 1, Date: tomorrow(), TimeSlot: "19:00", Guests: 2}

	go func() {
		defer close(done)
		_, err := svc.Create(ctx, "s1", req)
		assert.NoError(t, err)
	}()

	<-started
	_, err := svc.Create(ctx, "s1", req)
	assert.ErrorIs(t, err, service.ErrSubmitInFlight)

	close(release)
	<-done
}

func TestReservationService_QRCodeRegenerates(t *testing.T) {
	svc, repo, qr, _ := newReservationService(t)

	repo.On("GetQRCode", "RES-AAAA1111").Return([]byte{}, nil).Once()
	qr.On("Generate", "RES-AAAA1111").Return([]byte("fresh"), nil).Once()
	repo.On("SaveQRCode", "RES-AAAA1111", []byte("fresh")).Return(nil).Once()

	png, err := svc.QRCode("RES-AAAA1111")
	assert.NoError(t, err)
	assert.Equal(t, []byte("fresh"), png)
}

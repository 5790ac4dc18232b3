package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"restaurant-directory/internal/catalog"
	"restaurant-directory/internal/domain"
)

var (
	ErrInvalidDate    = errors.New("reservation date must be today or later")
	ErrInvalidTime    = errors.New("reservation time is not an available slot")
	ErrInvalidGuests  = errors.New("guest count must be between 1 and 20")
	ErrSubmitInFlight = errors.New("a reservation for this restaurant is already being processed")
)

// TimeSlots is the fixed set of bookable slots spanning lunch and dinner.
var TimeSlots = []string{
	"12:00", "13:00", "14:00", "15:00",
	"19:00", "20:00", "21:00", "22:00",
}

const defaultGuests = 2

type ReservationRequest struct {
	RestaurantID    int
	Date            string
	TimeSlot        string
	Guests          int
	SpecialRequests string
}

type ReservationService struct {
	catalog   *catalog.Catalog
	repo      ReservationRepository
	qr        QRGenerator
	publisher EventPublisher
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]bool
}

func NewReservationService(c *catalog.Catalog, repo ReservationRepository, qr QRGenerator, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		catalog:   c,
		repo:      repo,
		qr:        qr,
		publisher: publisher,
		now:       time.Now,
		inflight:  make(map[string]bool),
	}
}

// Create validates and persists a booking. While a submission for the same
// (session, restaurant) is in flight, further ones are rejected — the
// server-side counterpart of the disabled submit button.
func (s *ReservationService) Create(ctx context.Context, sessionID string, req ReservationRequest) (*domain.Reservation, error) {
	if _, ok := s.catalog.Get(req.RestaurantID); !ok {
		return nil, ErrRestaurantNotFound
	}

	guard := fmt.Sprintf("%s:%d", sessionID, req.RestaurantID)
	if !s.acquire(guard) {
		return nil, ErrSubmitInFlight
	}
	defer s.release(guard)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	today := s.now().Format("2006-01-02")
	if req.Date < today {
		return nil, ErrInvalidDate
	}

	if !validSlot(req.TimeSlot) {
		return nil, ErrInvalidTime
	}

	guests := req.Guests
	if guests == 0 {
		guests = defaultGuests
	}
	if guests < 1 || guests > 20 {
		return nil, ErrInvalidGuests
	}

	res := &domain.Reservation{
		Code:            generateBookingCode(),
		SessionID:       sessionID,
		RestaurantID:    req.RestaurantID,
		Date:            date.Format("2006-01-02"),
		TimeSlot:        req.TimeSlot,
		Guests:          guests,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}

	if err := s.repo.InsertReservation(res); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	if s.qr != nil {
		if png, err := s.qr.Generate(res.Code); err == nil {
			if err := s.repo.SaveQRCode(res.Code, png); err != nil {
				log.Printf("WARNING: failed to store QR code for reservation %s: %v", res.Code, err)
			}
		} else {
			log.Printf("WARNING: failed to generate QR code for reservation %s: %v", res.Code, err)
		}
	}

	if s.publisher != nil {
		event := domain.Event{
			Type:         "reservation_created",
			SessionID:    sessionID,
			RestaurantID: req.RestaurantID,
			Code:         res.Code,
			Timestamp:    time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("WARNING: failed to emit reservation event: %v", err)
		}
	}

	return res, nil
}

// QRCode returns the stored confirmation PNG, regenerating it when the
// stored copy is missing.
func (s *ReservationService) QRCode(code string) ([]byte, error) {
	png, err := s.repo.GetQRCode(code)
	if err != nil {
		return nil, err
	}
	if len(png) == 0 && s.qr != nil {
		if regenerated, err := s.qr.Generate(code); err == nil {
			_ = s.repo.SaveQRCode(code, regenerated)
			return regenerated, nil
		}
	}
	return png, nil
}

func validSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func generateBookingCode() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "RES-" + strings.ToUpper(hex.EncodeToString(buf))
}

func (s *ReservationService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *ReservationService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

var _ ReservationServiceInterface = (*ReservationService)(nil)

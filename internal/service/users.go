package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant-directory/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("incorrect credentials")
	ErrMissingFields      = errors.New("name, email and password are required")
)

type RegisterRequest struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

type UsersService struct {
	repo       UserRepository
	kv         KV
	sessionTTL time.Duration
}

func NewUsersService(repo UserRepository, kv KV, sessionTTL time.Duration) *UsersService {
	return &UsersService{repo: repo, kv: kv, sessionTTL: sessionTTL}
}

func (s *UsersService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	taken, err := s.repo.EmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UsersService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UsersService) sessionKey(sessionID string) string {
	return "session:" + sessionID + ":user"
}

// Bind attaches the user to the session so later requests can greet them.
func (s *UsersService) Bind(ctx context.Context, sessionID string, user *domain.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, s.sessionKey(sessionID), string(raw), s.sessionTTL); err != nil {
		log.Printf("WARNING: failed to bind user to session: %v", err)
	}
}

func (s *UsersService) Unbind(ctx context.Context, sessionID string) {
	_ = s.kv.Del(ctx, s.sessionKey(sessionID))
}

func (s *UsersService) Current(ctx context.Context, sessionID string) (*domain.User, bool) {
	raw, ok, err := s.kv.Get(ctx, s.sessionKey(sessionID))
	if err != nil || !ok {
		return nil, false
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

var _ UsersServiceInterface = (*UsersService)(nil)

package storage

import (
	"database/sql"
	"fmt"

	"restaurant-directory/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// EnsureSchema creates the tables the directory needs. The catalog itself
// stays in memory; only favorites, reservations and users are durable.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
			id SERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			restaurant_id INT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, restaurant_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id SERIAL PRIMARY KEY,
			code TEXT UNIQUE NOT NULL,
			session_id TEXT NOT NULL,
			restaurant_id INT NOT NULL,
			date DATE NOT NULL,
			time_slot TEXT NOT NULL,
			guests INT NOT NULL,
			special_requests TEXT,
			qr_code BYTEA,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			city TEXT,
			postal_code TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) IsFavorite(sessionID string, restaurantID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM favorites
			WHERE session_id = $1 AND restaurant_id = $2
		)
	`, sessionID, restaurantID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) AddFavorite(sessionID string, restaurantID int) error {
	_, err := r.DB.Exec(`
		INSERT INTO favorites (session_id, restaurant_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, restaurant_id) DO NOTHING
	`, sessionID, restaurantID)
	return err
}

func (r *PostgresRepository) RemoveFavorite(sessionID string, restaurantID int) error {
	_, err := r.DB.Exec(`
		DELETE FROM favorites
		WHERE session_id = $1 AND restaurant_id = $2
	`, sessionID, restaurantID)
	return err
}

func (r *PostgresRepository) ListFavorites(sessionID string) ([]int, error) {
	rows, err := r.DB.Query(`
		SELECT restaurant_id FROM favorites
		WHERE session_id = $1
		ORDER BY created_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *PostgresRepository) InsertReservation(res *domain.Reservation) error {
	return r.DB.QueryRow(`
		INSERT INTO reservations (code, session_id, restaurant_id, date, time_slot, guests, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, res.Code, res.SessionID, res.RestaurantID, res.Date, res.TimeSlot, res.Guests, res.SpecialRequests).
		Scan(&res.ID, &res.CreatedAt)
}

func (r *PostgresRepository) SaveQRCode(code string, png []byte) error {
	_, err := r.DB.Exec(`
		UPDATE reservations SET qr_code = $1 WHERE code = $2
	`, png, code)
	return err
}

func (r *PostgresRepository) GetQRCode(code string) ([]byte, error) {
	var png []byte
	err := r.DB.QueryRow(`
		SELECT qr_code FROM reservations WHERE code = $1
	`, code).Scan(&png)
	if err != nil {
		return nil, err
	}
	return png, nil
}

func (r *PostgresRepository) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) CreateUser(user *domain.User) error {
	return r.DB.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password_hash, phone, address, city, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Phone, user.Address, user.City, user.PostalCode).
		Scan(&user.ID, &user.CreatedAt)
}

func (r *PostgresRepository) GetUserByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRow(`
		SELECT id, first_name, COALESCE(last_name, ''), email, password_hash,
			COALESCE(phone, ''), COALESCE(address, ''), COALESCE(city, ''),
			COALESCE(postal_code, ''), created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.Phone, &user.Address, &user.City, &user.PostalCode, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

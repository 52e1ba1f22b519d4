package store

import (
	"database/sql"
	"fmt"

	"carrotlist/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var hatID, accID, bgID sql.NullInt64

	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.CarrotBalance,
		&hatID, &accID, &bgID, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if hatID.Valid {
		u.EquippedHatID = &hatID.Int64
	}
	if accID.Valid {
		u.EquippedAccessoryID = &accID.Int64
	}
	if bgID.Valid {
		u.EquippedBackgroundID = &bgID.Int64
	}
	return &u, nil
}

const userCols = `id, email, password_hash, carrot_balance, equipped_hat_id, equipped_accessory_id, equipped_background_id, created_at`

// Create inserts a new user. Balance starts at zero with nothing equipped.
func (s *UserStore) Create(email, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email, passwordHash,
	)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

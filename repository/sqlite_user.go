package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
)

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
//
// Go'da struct field'ları küçük harfle başlarsa → private.
// Repository'nin DB bağlantısı dışarıya açık olmamalı — bu yüzden küçük harf.
type sqliteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo, constructor — interface döner (Dependency Inversion).
func NewSQLiteUserRepo(db *sql.DB) UserRepository {
	return &sqliteUserRepo{db: db}
}

// userColumns, tüm SELECT sorgularında aynı sırayla kullanılan kolon listesi.
const userColumns = `id, username, email, name, password_hash, contact_number, avatar_url, bio,
	location_city, location_state, location_country, location_zipcode, location_landmark,
	account_status, response_time, rating, created_at, updated_at`

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, name, password_hash, contact_number,
			location_city, location_state, location_country)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, account_status, response_time, created_at, updated_at`

	var city, state, country *string
	if user.Location != nil {
		if user.Location.City != "" {
			city = &user.Location.City
		}
		if user.Location.State != "" {
			state = &user.Location.State
		}
		if user.Location.Country != "" {
			country = &user.Location.Country
		}
	}

	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.ContactNumber,
		city, state, country,
	).Scan(&user.ID, &user.AccountStatus, &user.ResponseTime, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// UNIQUE constraint violation → email veya username zaten var
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "users.email") {
				return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
			}
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), "id")
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), "email")
}

// scanUser, tek satırlık user sorgusunun sonucunu modele aktarır.
// Location kolonları ayrı nullable kolonlardır — en az biri doluysa
// Location struct'ı oluşturulur.
func (r *sqliteUserRepo) scanUser(row *sql.Row, by string) (*models.User, error) {
	user := &models.User{}
	var city, state, country, zipcode, landmark sql.NullString

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash,
		&user.ContactNumber, &user.AvatarURL, &user.Bio,
		&city, &state, &country, &zipcode, &landmark,
		&user.AccountStatus, &user.ResponseTime, &user.Rating,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}

	if city.Valid || state.Valid || country.Valid || zipcode.Valid || landmark.Valid {
		user.Location = &models.Location{
			City:     city.String,
			State:    state.String,
			Country:  country.String,
			Zipcode:  zipcode.String,
			Landmark: landmark.String,
		}
	}

	return user, nil
}

// Update, nil olmayan alanları günceller (partial update).
// SET clause'u dinamik kurulur — gelen her alan için bir "kolon = ?" eklenir.
func (r *sqliteUserRepo) Update(ctx context.Context, userID string, req *models.UpdateUserRequest) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Username != nil {
		add("username", *req.Username)
	}
	if req.Password != nil {
		// Buraya gelen değer service katmanında hash'lenmiş olmalı —
		// repository asla plaintext şifre görmez.
		add("password_hash", *req.Password)
	}
	if req.ContactNumber != nil {
		add("contact_number", *req.ContactNumber)
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.ResponseTime != nil {
		add("response_time", *req.ResponseTime)
	}
	if req.AvatarURL != nil {
		add("avatar_url", *req.AvatarURL)
	}
	if req.Location != nil {
		add("location_city", req.Location.City)
		add("location_state", req.Location.State)
		add("location_country", req.Location.Country)
		add("location_zipcode", req.Location.Zipcode)
		add("location_landmark", req.Location.Landmark)
	}

	if len(sets) == 0 {
		return nil // Güncellenecek alan yok — no-op
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

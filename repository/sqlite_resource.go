package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
)

// sqliteResourceRepo, ResourceRepository'nin SQLite implementasyonu.
//
// Tags, image URL listeleri ve specifications JSON-encoded TEXT
// kolonlarında tutulur. SQLite'ın Mixed tip desteği olmadığı için
// marshal/unmarshal bu katmanda yapılır — service ve üstü katmanlar
// her zaman Go tipleriyle çalışır.
type sqliteResourceRepo struct {
	db *sql.DB
}

// NewSQLiteResourceRepo, constructor.
func NewSQLiteResourceRepo(db *sql.DB) ResourceRepository {
	return &sqliteResourceRepo{db: db}
}

func (r *sqliteResourceRepo) Create(ctx context.Context, res *models.Resource) error {
	licenseFiles, err := marshalJSON(res.LicenseFiles, "[]")
	if err != nil {
		return err
	}
	coverImages, err := marshalJSON(res.CoverImageURLs, "[]")
	if err != nil {
		return err
	}
	resourceImages, err := marshalJSON(res.ResourceImages, "[]")
	if err != nil {
		return err
	}
	tags, err := marshalJSON(res.Tags, "[]")
	if err != nil {
		return err
	}
	specs, err := marshalJSON(res.Specifications, "{}")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (id, uploader_id, resource_type, author, title, format, license,
			license_files, description, short_description, cover_image_urls, resource_image_urls,
			tags, specifications, stock, rent_price, sell_price,
			rent_period_min, rent_period_max, rent_period_value,
			free_shipping, estimated_days, return_policy)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, status, is_active, views, rating, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		res.UploaderID, res.ResourceType, res.Author, res.Title, res.Format, res.License,
		licenseFiles, res.Description, res.ShortDescription, coverImages, resourceImages,
		tags, specs, res.Stock, res.RentPrice, res.SellPrice,
		res.RentPeriod.Min, res.RentPeriod.Max, res.RentPeriod.Value,
		res.Shipping.FreeShipping, res.Shipping.EstimatedDays, res.Shipping.ReturnPolicy,
	).Scan(&res.ID, &res.Status, &res.IsActive, &res.Views, &res.Rating, &res.CreatedAt, &res.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	return nil
}

// resourceSelect, uploader JOIN'li ortak SELECT gövdesi.
// LEFT JOIN — kullanıcı silinmiş olsa bile kaynak görünür kalır.
const resourceSelect = `
	SELECT r.id, r.uploader_id, r.resource_type, r.author, r.title, r.format, r.license,
	       r.license_files, r.description, r.short_description, r.cover_image_urls,
	       r.resource_image_urls, r.tags, r.specifications, r.stock, r.rating,
	       r.rent_price, r.sell_price, r.rent_period_min, r.rent_period_max, r.rent_period_value,
	       r.free_shipping, r.estimated_days, r.return_policy, r.status, r.is_active, r.views,
	       r.created_at, r.updated_at,
	       u.id, u.username, u.email, u.name, u.avatar_url, u.rating, u.response_time
	FROM resources r
	LEFT JOIN users u ON r.uploader_id = u.id`

func (r *sqliteResourceRepo) GetAll(ctx context.Context, resourceType models.ResourceType) ([]models.Resource, error) {
	query := resourceSelect + ` WHERE r.is_active = 1`
	var args []any

	if resourceType != "" {
		query += ` AND r.resource_type = ?`
		args = append(args, resourceType)
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get resources: %w", err)
	}
	defer rows.Close() // rows'u kapatmayı ASLA unutma — aksi halde bağlantı sızar

	var resources []models.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}

	return resources, nil
}

func (r *sqliteResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	rows, err := r.db.QueryContext(ctx, resourceSelect+` WHERE r.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get resource by id: %w", err)
		}
		return nil, pkg.ErrNotFound
	}

	return scanResource(rows)
}

func (r *sqliteResourceRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE resources SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// scanResource, JOIN'li bir satırı Resource modeline aktarır.
func scanResource(rows *sql.Rows) (*models.Resource, error) {
	res := &models.Resource{}
	var license sql.NullString
	var licenseFiles, coverImages, resourceImages, tags, specs string
	var uploader models.User
	var uploaderID sql.NullString
	var uploaderResponseTime sql.NullString
	var uploaderRating sql.NullFloat64

	err := rows.Scan(
		&res.ID, &res.UploaderID, &res.ResourceType, &res.Author, &res.Title, &res.Format, &license,
		&licenseFiles, &res.Description, &res.ShortDescription, &coverImages,
		&resourceImages, &tags, &specs, &res.Stock, &res.Rating,
		&res.RentPrice, &res.SellPrice, &res.RentPeriod.Min, &res.RentPeriod.Max, &res.RentPeriod.Value,
		&res.Shipping.FreeShipping, &res.Shipping.EstimatedDays, &res.Shipping.ReturnPolicy,
		&res.Status, &res.IsActive, &res.Views,
		&res.CreatedAt, &res.UpdatedAt,
		&uploaderID, &uploader.Username, &uploader.Email, &uploader.Name,
		&uploader.AvatarURL, &uploaderRating, &uploaderResponseTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan resource row: %w", err)
	}

	if license.Valid {
		lt := models.LicenseType(license.String)
		res.License = &lt
	}

	if err := unmarshalJSON(licenseFiles, &res.LicenseFiles); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(coverImages, &res.CoverImageURLs); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(resourceImages, &res.ResourceImages); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(tags, &res.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(specs, &res.Specifications); err != nil {
		return nil, err
	}

	if uploaderID.Valid {
		uploader.ID = uploaderID.String
		uploader.Rating = uploaderRating.Float64
		uploader.ResponseTime = uploaderResponseTime.String
		uploader.PasswordHash = "" // Güvenlik: API'ye asla şifre hash'i gönderme
		res.Uploader = &uploader
	}

	return res, nil
}

// marshalJSON / unmarshalJSON — nil-safe JSON kolon yardımcıları.
// json.Marshal nil slice/map için "null" üretir — kolonda tip'e uygun
// boş değer ("[]" veya "{}") tutulur ki unmarshal tarafı şaşırmasın.
func marshalJSON(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json column: %w", err)
	}
	s := string(b)
	if s == "null" {
		return empty, nil
	}
	return s, nil
}

func unmarshalJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("failed to unmarshal json column: %w", err)
	}
	return nil
}

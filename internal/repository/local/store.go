// Package local implements the catalogue stores on an embedded SQLite file.
// It backs local mode, where the service runs on the seeded mock catalogue
// without a Postgres server.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carstok-backend/internal/database"
	"carstok-backend/internal/mockdata"
	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

// Store implements CarStore, MediaStore, OwnerStore and SettingsStore.
type Store struct {
	db *sqlx.DB
}

// Open opens the SQLite file at path and seeds the mock catalogue on first use.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := database.OpenLocal(path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.seed(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed mock catalogue: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) seed(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM owners`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, o := range mockdata.Owners() {
		if err := s.UpsertOwner(ctx, &o); err != nil {
			return err
		}
	}
	for _, c := range mockdata.Cars() {
		media := c.Media
		if _, err := s.insertCar(ctx, &c); err != nil {
			return err
		}
		for _, m := range media {
			if _, err := s.AddMedia(ctx, &m); err != nil {
				return err
			}
		}
	}
	return nil
}

type carRow struct {
	ID            string         `db:"id"`
	Brand         string         `db:"brand"`
	Model         string         `db:"model"`
	Year          int            `db:"year"`
	Price         int64          `db:"price"`
	OriginalPrice sql.NullInt64  `db:"original_price"`
	Mileage       int64          `db:"mileage"`
	FuelType      string         `db:"fuel_type"`
	Transmission  string         `db:"transmission"`
	Color         string         `db:"color"`
	Description   string         `db:"description"`
	Location      string         `db:"location"`
	SellerType    string         `db:"seller_type"`
	SellerPhone   sql.NullString `db:"seller_phone"`
	Features      string         `db:"features"`
	OwnerID       string         `db:"owner_id"`
	Views         int64          `db:"views"`
	TrendScore    int            `db:"trend_score"`
	IsActive      bool           `db:"is_active"`
	CreatedAt     int64          `db:"created_at"`
	UpdatedAt     int64          `db:"updated_at"`
}

func toCarRow(c *model.Car) (carRow, error) {
	features := c.Features
	if features == nil {
		features = []string{}
	}
	encoded, err := json.Marshal(features)
	if err != nil {
		return carRow{}, fmt.Errorf("encode features: %w", err)
	}
	row := carRow{
		ID:           c.ID,
		Brand:        c.Brand,
		Model:        c.Model,
		Year:         c.Year,
		Price:        c.Price,
		Mileage:      c.Mileage,
		FuelType:     string(c.FuelType),
		Transmission: string(c.Transmission),
		Color:        c.Color,
		Description:  c.Description,
		Location:     c.Location,
		SellerType:   string(c.SellerType),
		Features:     string(encoded),
		OwnerID:      c.OwnerID,
		Views:        c.Views,
		TrendScore:   c.TrendScore,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt.UTC().UnixMilli(),
		UpdatedAt:    c.UpdatedAt.UTC().UnixMilli(),
	}
	if c.OriginalPrice != nil {
		row.OriginalPrice = sql.NullInt64{Int64: *c.OriginalPrice, Valid: true}
	}
	if c.SellerPhone != nil {
		row.SellerPhone = sql.NullString{String: *c.SellerPhone, Valid: true}
	}
	return row, nil
}

func (r carRow) toModel() (model.Car, error) {
	c := model.Car{
		ID:           r.ID,
		Brand:        r.Brand,
		Model:        r.Model,
		Year:         r.Year,
		Price:        r.Price,
		Mileage:      r.Mileage,
		FuelType:     model.FuelType(r.FuelType),
		Transmission: model.Transmission(r.Transmission),
		Color:        r.Color,
		Description:  r.Description,
		Location:     r.Location,
		SellerType:   model.SellerType(r.SellerType),
		OwnerID:      r.OwnerID,
		Views:        r.Views,
		TrendScore:   r.TrendScore,
		IsActive:     r.IsActive,
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(r.UpdatedAt).UTC(),
		Media:        []model.CarMedia{},
	}
	if r.OriginalPrice.Valid {
		v := r.OriginalPrice.Int64
		c.OriginalPrice = &v
	}
	if r.SellerPhone.Valid {
		v := r.SellerPhone.String
		c.SellerPhone = &v
	}
	if err := json.Unmarshal([]byte(r.Features), &c.Features); err != nil {
		return model.Car{}, fmt.Errorf("decode features of car %s: %w", r.ID, err)
	}
	if c.Features == nil {
		c.Features = []string{}
	}
	return c, nil
}

const insertCarQuery = `
	INSERT INTO cars (
		id, brand, model, year, price, original_price, mileage, fuel_type, transmission,
		color, description, location, seller_type, seller_phone, features, owner_id,
		views, trend_score, is_active, created_at, updated_at
	) VALUES (
		:id, :brand, :model, :year, :price, :original_price, :mileage, :fuel_type, :transmission,
		:color, :description, :location, :seller_type, :seller_phone, :features, :owner_id,
		:views, :trend_score, :is_active, :created_at, :updated_at
	)`

func (s *Store) insertCar(ctx context.Context, car *model.Car) (*model.Car, error) {
	if car.CreatedAt.IsZero() {
		car.CreatedAt = time.Now().UTC()
	}
	if car.UpdatedAt.IsZero() {
		car.UpdatedAt = car.CreatedAt
	}
	if err := s.checkOwner(ctx, car.OwnerID); err != nil {
		return nil, err
	}
	row, err := toCarRow(car)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.NamedExecContext(ctx, insertCarQuery, row); err != nil {
		return nil, fmt.Errorf("insert car: %w", err)
	}
	car.Media = []model.CarMedia{}
	return car, nil
}

func (s *Store) Create(ctx context.Context, car *model.Car) (*model.Car, error) {
	car.Views = 0
	car.CreatedAt = time.Now().UTC()
	car.UpdatedAt = car.CreatedAt
	return s.insertCar(ctx, car)
}

func (s *Store) GetByID(ctx context.Context, id string) (*model.Car, error) {
	var row carRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM cars WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car: %w", err)
	}
	car, err := row.toModel()
	if err != nil {
		return nil, err
	}
	if car.Media, err = s.ListMedia(ctx, id); err != nil {
		return nil, err
	}
	return &car, nil
}

func (s *Store) List(ctx context.Context, opts model.ListOptions) ([]model.Car, error) {
	var conditions []string
	var args []interface{}
	if opts.ActiveOnly {
		conditions = append(conditions, "is_active = 1")
	}
	if opts.OwnerID != "" {
		conditions = append(conditions, "owner_id = ?")
		args = append(args, opts.OwnerID)
	}
	if opts.BrandLike != "" {
		conditions = append(conditions, "brand LIKE ?")
		args = append(args, "%"+opts.BrandLike+"%")
	}

	query := `SELECT * FROM cars`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	} else if opts.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", opts.Offset)
	}

	var rows []carRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}

	cars := make([]model.Car, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
		ids = append(ids, c.ID)
	}
	if len(ids) == 0 {
		return cars, nil
	}

	media, err := s.mediaFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range cars {
		if m := media[cars[i].ID]; m != nil {
			cars[i].Media = m
		}
	}
	return cars, nil
}

func (s *Store) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	if err := s.checkOwner(ctx, car.OwnerID); err != nil {
		return nil, err
	}
	car.UpdatedAt = time.Now().UTC()
	row, err := toCarRow(car)
	if err != nil {
		return nil, err
	}
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE cars SET
			brand = :brand, model = :model, year = :year, price = :price,
			original_price = :original_price, mileage = :mileage, fuel_type = :fuel_type,
			transmission = :transmission, color = :color, description = :description,
			location = :location, seller_type = :seller_type, seller_phone = :seller_phone,
			features = :features, owner_id = :owner_id, trend_score = :trend_score,
			is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	if err := expectOne(res); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, car.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return expectOne(res)
}

func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE cars SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return expectOne(res)
}

func (s *Store) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := s.db.GetContext(ctx, &views, `UPDATE cars SET views = views + 1 WHERE id = ? RETURNING views`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

func (s *Store) Stats(ctx context.Context) (*model.CatalogStats, error) {
	var row struct {
		Total  int64 `db:"total"`
		Active int64 `db:"active"`
		Views  int64 `db:"views"`
		Media  int64 `db:"media"`
	}
	err := s.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(is_active), 0) AS active,
			COALESCE(SUM(views), 0) AS views,
			(SELECT COUNT(*) FROM car_media) AS media
		FROM cars`)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &model.CatalogStats{
		TotalCars:  row.Total,
		ActiveCars: row.Active,
		TotalViews: row.Views,
		TotalMedia: row.Media,
	}, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carstok-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the SQLSTATE Postgres reports for a broken REFERENCES constraint.
const foreignKeyViolation = "23503"

const carColumns = `
	id, brand, model, year, price, original_price, mileage, fuel_type, transmission,
	color, description, location, seller_type, seller_phone, features, owner_id,
	views, trend_score, is_active, created_at, updated_at`

type CarRepository struct {
	pool *pgxpool.Pool
}

func NewCarRepository(pool *pgxpool.Pool) *CarRepository {
	return &CarRepository{pool: pool}
}

func scanCar(row pgx.Row) (*model.Car, error) {
	c := &model.Car{}
	err := row.Scan(
		&c.ID, &c.Brand, &c.Model, &c.Year, &c.Price, &c.OriginalPrice, &c.Mileage, &c.FuelType, &c.Transmission,
		&c.Color, &c.Description, &c.Location, &c.SellerType, &c.SellerPhone, &c.Features, &c.OwnerID,
		&c.Views, &c.TrendScore, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Features == nil {
		c.Features = []string{}
	}
	return c, nil
}

func (r *CarRepository) Create(ctx context.Context, car *model.Car) (*model.Car, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cars (
			id, brand, model, year, price, original_price, mileage, fuel_type, transmission,
			color, description, location, seller_type, seller_phone, features, owner_id,
			trend_score, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING views, created_at, updated_at
	`,
		car.ID, car.Brand, car.Model, car.Year, car.Price, car.OriginalPrice, car.Mileage, car.FuelType, car.Transmission,
		car.Color, car.Description, car.Location, car.SellerType, car.SellerPhone, car.Features, car.OwnerID,
		car.TrendScore, car.IsActive,
	).Scan(&car.Views, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return nil, ownerError(err)
	}
	car.Media = []model.CarMedia{}
	return car, nil
}

func (r *CarRepository) GetByID(ctx context.Context, id string) (*model.Car, error) {
	c, err := scanCar(r.pool.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	media, err := r.mediaFor(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	c.Media = media[c.ID]
	if c.Media == nil {
		c.Media = []model.CarMedia{}
	}
	return c, nil
}

func (r *CarRepository) List(ctx context.Context, opts model.ListOptions) ([]model.Car, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if opts.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if opts.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIdx))
		args = append(args, opts.OwnerID)
		argIdx++
	}
	if opts.BrandLike != "" {
		conditions = append(conditions, fmt.Sprintf("brand ILIKE $%d", argIdx))
		args = append(args, "%"+opts.BrandLike+"%")
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM cars %s ORDER BY created_at DESC`, carColumns, where)
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []model.Car{}
	var ids []string
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return cars, nil
	}

	media, err := r.mediaFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range cars {
		cars[i].Media = media[cars[i].ID]
		if cars[i].Media == nil {
			cars[i].Media = []model.CarMedia{}
		}
	}
	return cars, nil
}

func (r *CarRepository) mediaFor(ctx context.Context, carIDs []string) (map[string][]model.CarMedia, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, car_id, url, media_type, is_primary, created_at
		FROM car_media
		WHERE car_id = ANY($1)
		ORDER BY is_primary DESC, created_at ASC
	`, carIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]model.CarMedia, len(carIDs))
	for rows.Next() {
		var m model.CarMedia
		if err := rows.Scan(&m.ID, &m.CarID, &m.URL, &m.MediaType, &m.IsPrimary, &m.CreatedAt); err != nil {
			return nil, err
		}
		result[m.CarID] = append(result[m.CarID], m)
	}
	return result, rows.Err()
}

func (r *CarRepository) Update(ctx context.Context, car *model.Car) (*model.Car, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cars SET
			brand = $2, model = $3, year = $4, price = $5, original_price = $6, mileage = $7,
			fuel_type = $8, transmission = $9, color = $10, description = $11, location = $12,
			seller_type = $13, seller_phone = $14, features = $15, owner_id = $16,
			trend_score = $17, is_active = $18, updated_at = NOW()
		WHERE id = $1
	`,
		car.ID, car.Brand, car.Model, car.Year, car.Price, car.OriginalPrice, car.Mileage,
		car.FuelType, car.Transmission, car.Color, car.Description, car.Location,
		car.SellerType, car.SellerPhone, car.Features, car.OwnerID,
		car.TrendScore, car.IsActive,
	)
	if err != nil {
		return nil, ownerError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, car.ID)
}

// ownerError maps a foreign key violation on cars.owner_id to ErrUnknownOwner.
func ownerError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrUnknownOwner, pgErr.Detail)
	}
	return err
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CarRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cars SET is_active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CarRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx, `
		UPDATE cars SET views = views + 1 WHERE id = $1
		RETURNING views
	`, id).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return views, err
}

func (r *CarRepository) Stats(ctx context.Context) (*model.CatalogStats, error) {
	s := &model.CatalogStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COALESCE(SUM(views), 0)::bigint,
			(SELECT COUNT(*) FROM car_media)
		FROM cars
	`).Scan(&s.TotalCars, &s.ActiveCars, &s.TotalViews, &s.TotalMedia)
	if err != nil {
		return nil, err
	}
	return s, nil
}

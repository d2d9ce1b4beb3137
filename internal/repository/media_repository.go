package repository

import (
	"context"
	"errors"

	"carstok-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) AddMedia(ctx context.Context, m *model.CarMedia) (*model.CarMedia, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO car_media (id, car_id, url, media_type, is_primary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, m.ID, m.CarID, m.URL, m.MediaType, m.IsPrimary).Scan(&m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MediaRepository) ListMedia(ctx context.Context, carID string) ([]model.CarMedia, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, car_id, url, media_type, is_primary, created_at
		FROM car_media
		WHERE car_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []model.CarMedia{}
	for rows.Next() {
		var m model.CarMedia
		if err := rows.Scan(&m.ID, &m.CarID, &m.URL, &m.MediaType, &m.IsPrimary, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *MediaRepository) GetMedia(ctx context.Context, id string) (*model.CarMedia, error) {
	m := &model.CarMedia{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, car_id, url, media_type, is_primary, created_at
		FROM car_media WHERE id = $1
	`, id).Scan(&m.ID, &m.CarID, &m.URL, &m.MediaType, &m.IsPrimary, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MediaRepository) DeleteMedia(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM car_media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

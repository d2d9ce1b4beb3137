package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

type mediaRow struct {
	ID        string `db:"id"`
	CarID     string `db:"car_id"`
	URL       string `db:"url"`
	MediaType string `db:"media_type"`
	IsPrimary bool   `db:"is_primary"`
	CreatedAt int64  `db:"created_at"`
}

func (r mediaRow) toModel() model.CarMedia {
	return model.CarMedia{
		ID:        r.ID,
		CarID:     r.CarID,
		URL:       r.URL,
		MediaType: r.MediaType,
		IsPrimary: r.IsPrimary,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}
}

func (s *Store) AddMedia(ctx context.Context, m *model.CarMedia) (*model.CarMedia, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO car_media (id, car_id, url, media_type, is_primary, created_at)
		VALUES (:id, :car_id, :url, :media_type, :is_primary, :created_at)`,
		mediaRow{
			ID:        m.ID,
			CarID:     m.CarID,
			URL:       m.URL,
			MediaType: m.MediaType,
			IsPrimary: m.IsPrimary,
			CreatedAt: m.CreatedAt.UTC().UnixMilli(),
		})
	if err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}
	return m, nil
}

func (s *Store) ListMedia(ctx context.Context, carID string) ([]model.CarMedia, error) {
	var rows []mediaRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM car_media WHERE car_id = ?
		ORDER BY is_primary DESC, created_at ASC, id ASC`, carID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	media := make([]model.CarMedia, 0, len(rows))
	for _, r := range rows {
		media = append(media, r.toModel())
	}
	return media, nil
}

func (s *Store) mediaFor(ctx context.Context, carIDs []string) (map[string][]model.CarMedia, error) {
	query, args, err := sqlx.In(`
		SELECT * FROM car_media WHERE car_id IN (?)
		ORDER BY is_primary DESC, created_at ASC, id ASC`, carIDs)
	if err != nil {
		return nil, err
	}
	var rows []mediaRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	result := make(map[string][]model.CarMedia, len(carIDs))
	for _, r := range rows {
		result[r.CarID] = append(result[r.CarID], r.toModel())
	}
	return result, nil
}

func (s *Store) GetMedia(ctx context.Context, id string) (*model.CarMedia, error) {
	var row mediaRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM car_media WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM car_media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return expectOne(res)
}

package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carstok-backend/internal/model"
	"carstok-backend/internal/repository"
)

type ownerRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Phone     string          `db:"phone"`
	Email     string          `db:"email"`
	AvatarURL string          `db:"avatar_url"`
	IsDealer  bool            `db:"is_dealer"`
	Location  string          `db:"location"`
	Rating    sql.NullFloat64 `db:"rating"`
	JoinedAt  int64           `db:"joined_at"`
}

func (r ownerRow) toModel() model.Owner {
	o := model.Owner{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		AvatarURL: r.AvatarURL,
		IsDealer:  r.IsDealer,
		Location:  r.Location,
		JoinedAt:  time.UnixMilli(r.JoinedAt).UTC(),
	}
	if r.Rating.Valid {
		v := r.Rating.Float64
		o.Rating = &v
	}
	return o
}

func (s *Store) GetOwner(ctx context.Context, id string) (*model.Owner, error) {
	var row ownerRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM owners WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	o := row.toModel()
	return &o, nil
}

func (s *Store) ListOwners(ctx context.Context) ([]model.Owner, error) {
	var rows []ownerRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM owners ORDER BY is_dealer DESC, name ASC`); err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	owners := make([]model.Owner, 0, len(rows))
	for _, r := range rows {
		owners = append(owners, r.toModel())
	}
	return owners, nil
}

func (s *Store) UpsertOwner(ctx context.Context, o *model.Owner) error {
	joined := o.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}
	row := ownerRow{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		Email:     o.Email,
		AvatarURL: o.AvatarURL,
		IsDealer:  o.IsDealer,
		Location:  o.Location,
		JoinedAt:  joined.UTC().UnixMilli(),
	}
	if o.Rating != nil {
		row.Rating = sql.NullFloat64{Float64: *o.Rating, Valid: true}
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO owners (id, name, phone, email, avatar_url, is_dealer, location, rating, joined_at)
		VALUES (:id, :name, :phone, :email, :avatar_url, :is_dealer, :location, :rating, :joined_at)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			email = excluded.email,
			avatar_url = excluded.avatar_url,
			is_dealer = excluded.is_dealer,
			location = excluded.location,
			rating = excluded.rating`, row)
	if err != nil {
		return fmt.Errorf("upsert owner: %w", err)
	}
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT setting_value FROM admin_settings WHERE setting_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_settings (setting_key, setting_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value = excluded.setting_value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// checkOwner stands in for the owners foreign key the SQLite schema lacks.
func (s *Store) checkOwner(ctx context.Context, id string) error {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM owners WHERE id = ?)`, id); err != nil {
		return fmt.Errorf("check owner: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", repository.ErrUnknownOwner, id)
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"carstok-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OwnerRepository struct {
	pool *pgxpool.Pool
}

func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{pool: pool}
}

func (r *OwnerRepository) GetOwner(ctx context.Context, id string) (*model.Owner, error) {
	o := &model.Owner{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, avatar_url, is_dealer, location, rating, joined_at
		FROM owners WHERE id = $1
	`, id).Scan(&o.ID, &o.Name, &o.Phone, &o.Email, &o.AvatarURL, &o.IsDealer, &o.Location, &o.Rating, &o.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OwnerRepository) ListOwners(ctx context.Context) ([]model.Owner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, email, avatar_url, is_dealer, location, rating, joined_at
		FROM owners
		ORDER BY is_dealer DESC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := []model.Owner{}
	for rows.Next() {
		var o model.Owner
		if err := rows.Scan(&o.ID, &o.Name, &o.Phone, &o.Email, &o.AvatarURL, &o.IsDealer, &o.Location, &o.Rating, &o.JoinedAt); err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

func (r *OwnerRepository) UpsertOwner(ctx context.Context, o *model.Owner) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO owners (id, name, phone, email, avatar_url, is_dealer, location, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url,
			is_dealer = EXCLUDED.is_dealer,
			location = EXCLUDED.location,
			rating = EXCLUDED.rating
	`, o.ID, o.Name, o.Phone, o.Email, o.AvatarURL, o.IsDealer, o.Location, o.Rating)
	return err
}

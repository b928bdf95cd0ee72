package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propdesk/property-service/internal/domain"
)

// ProfileRepository defines persistence access for application profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT id, name, email, phone, role, created_at, updated_at
        FROM profiles WHERE id=$1`

	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Phone,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	const query = `
        SELECT id, name, email, phone, role, created_at, updated_at
        FROM profiles WHERE email=$1`

	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Phone,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (id, name, email, phone, role)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            name=EXCLUDED.name,
            email=EXCLUDED.email,
            phone=EXCLUDED.phone,
            role=EXCLUDED.role,
            updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.Role,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	const query = `
        SELECT id, name, email, phone, role, created_at, updated_at
        FROM profiles WHERE role=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.Name,
			&profile.Email,
			&profile.Phone,
			&profile.Role,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}

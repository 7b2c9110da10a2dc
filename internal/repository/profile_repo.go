package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"resume-ragu/internal/domain"
)

// ProfileRepository guarda un documento de perfil por usuario.
// Save debe reemplazar el documento completo de forma atomica.
type ProfileRepository interface {
	Load(ctx context.Context, userID string) (domain.Profile, error)
	Save(ctx context.Context, userID string, profile domain.Profile) error
	Delete(ctx context.Context, userID string) error
}

// pgDB es el subconjunto de pgxpool.Pool que usa el repositorio.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgProfileRepository implementa ProfileRepository sobre una columna JSONB.
type PgProfileRepository struct {
	db pgDB
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{db: pool}
}

func (r *PgProfileRepository) Load(ctx context.Context, userID string) (domain.Profile, error) {
	const query = `
		SELECT document
		FROM profiles
		WHERE user_id = $1
	`
	var raw []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: select profile: %w", domain.ErrStorage, err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: decode profile: %w", domain.ErrStorage, err)
	}
	profile.Normalize()
	return profile, nil
}

// Save hace upsert de la fila; una sola sentencia, asi que los lectores nunca ven un documento parcial.
func (r *PgProfileRepository) Save(ctx context.Context, userID string, profile domain.Profile) error {
	profile.Normalize()
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProfileSerialization, err)
	}

	const query = `
		INSERT INTO profiles (user_id, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, userID, doc, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: upsert profile: %w", domain.ErrStorage, err)
	}
	return nil
}

func (r *PgProfileRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM profiles WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%w: delete profile: %w", domain.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

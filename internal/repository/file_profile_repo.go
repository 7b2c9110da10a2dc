package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"resume-ragu/internal/domain"
)

const profileFileName = "profile.json"

// FileProfileRepository guarda cada perfil en <dataDir>/<userID>/profile.json.
type FileProfileRepository struct {
	dataDir string
	rename  func(oldpath, newpath string) error
}

func NewFileProfileRepository(dataDir string) *FileProfileRepository {
	return &FileProfileRepository{
		dataDir: dataDir,
		rename:  os.Rename,
	}
}

func (r *FileProfileRepository) profilePath(userID string) (string, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return "", err
	}
	return filepath.Join(r.dataDir, userID, profileFileName), nil
}

func (r *FileProfileRepository) Load(_ context.Context, userID string) (domain.Profile, error) {
	path, err := r.profilePath(userID)
	if err != nil {
		return domain.Profile{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: read profile: %w", domain.ErrStorage, err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: invalid json in profile: %w", domain.ErrStorage, err)
	}
	profile.Normalize()
	return profile, nil
}

// Save escribe en un archivo temporal del mismo directorio y lo renombra sobre el destino.
// Si algo falla, la version anterior queda intacta y el temporal se borra.
func (r *FileProfileRepository) Save(_ context.Context, userID string, profile domain.Profile) error {
	path, err := r.profilePath(userID)
	if err != nil {
		return err
	}

	profile.Normalize()
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProfileSerialization, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create user dir: %w", domain.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, profileFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrStorage, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp file: %w", domain.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp file: %w", domain.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", domain.ErrStorage, err)
	}
	if err := r.rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: replace profile: %w", domain.ErrStorage, err)
	}
	committed = true
	return nil
}

func (r *FileProfileRepository) Delete(_ context.Context, userID string) error {
	path, err := r.profilePath(userID)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: delete profile: %w", domain.ErrStorage, err)
	}
	return nil
}

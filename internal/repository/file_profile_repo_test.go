package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resume-ragu/internal/domain"
)

func sampleProfile(userID string) domain.Profile {
	years := 5
	return domain.Profile{
		User: domain.User{ID: userID, Name: "Ada", Contact: domain.Contact{Email: "ada@example.com"}},
		Jobs: []domain.Job{{ID: "job-1", Company: "Acme", Title: "Engineer", StartDate: "2020-01"}},
		Skills: []domain.Skill{
			{ID: "skill-1", Name: "Go", Category: "language", Proficiency: domain.ProficiencyExpert, YearsOfExperience: &years},
		},
		Accomplishments: []domain.Accomplishment{
			{ID: "acc-1", Statement: "Cut p99 latency by 40%", JobIDs: []string{"job-1"}},
		},
	}
}

func TestFileProfileRepositorySaveLoadRoundTrip(t *testing.T) {
	repo := NewFileProfileRepository(t.TempDir())
	ctx := context.Background()

	want := sampleProfile("u1")
	if err := repo.Save(ctx, "u1", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.User.Name != "Ada" || len(got.Jobs) != 1 || got.Jobs[0].Company != "Acme" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if got.Skills[0].YearsOfExperience == nil || *got.Skills[0].YearsOfExperience != 5 {
		t.Fatalf("expected years of experience to survive, got %+v", got.Skills[0])
	}
	if got.Projects == nil || got.Jobs[0].Highlights == nil {
		t.Fatalf("expected nil slices to be normalized")
	}
}

func TestFileProfileRepositoryLoadMissing(t *testing.T) {
	repo := NewFileProfileRepository(t.TempDir())
	_, err := repo.Load(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestFileProfileRepositoryLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "u1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "u1", "profile.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	repo := NewFileProfileRepository(dir)
	_, err := repo.Load(context.Background(), "u1")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestFileProfileRepositoryRejectsUnsafeUserID(t *testing.T) {
	repo := NewFileProfileRepository(t.TempDir())
	for _, id := range []string{"", "../etc", "a/b", strings.Repeat("x", 65)} {
		if _, err := repo.Load(context.Background(), id); !errors.Is(err, domain.ErrInvalidUserID) {
			t.Fatalf("id %q: expected ErrInvalidUserID, got %v", id, err)
		}
		if err := repo.Save(context.Background(), id, domain.Profile{}); !errors.Is(err, domain.ErrInvalidUserID) {
			t.Fatalf("id %q: expected ErrInvalidUserID on save, got %v", id, err)
		}
	}
}

func TestFileProfileRepositoryFailedRenameKeepsPreviousVersion(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileProfileRepository(dir)
	ctx := context.Background()

	if err := repo.Save(ctx, "u1", sampleProfile("u1")); err != nil {
		t.Fatalf("first save: %v", err)
	}

	repo.rename = func(string, string) error { return errors.New("disk full") }
	changed := sampleProfile("u1")
	changed.User.Name = "Grace"
	err := repo.Save(ctx, "u1", changed)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	got, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load after failed save: %v", err)
	}
	if got.User.Name != "Ada" {
		t.Fatalf("expected previous version, got name %q", got.User.Name)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "u1"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "profile.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only profile.json, found %v", names)
	}
}

func TestFileProfileRepositoryDelete(t *testing.T) {
	repo := NewFileProfileRepository(t.TempDir())
	ctx := context.Background()

	if err := repo.Delete(ctx, "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := repo.Save(ctx, "u1", sampleProfile("u1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Load(ctx, "u1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound after delete, got %v", err)
	}
}

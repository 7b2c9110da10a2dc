package main

import (
	"context"
	"sync"

	"resume-ragu/internal/domain"
)

// --- REPOSITORIO EN MEMORIA ---

type memoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.Profile
}

func newMemoryProfileRepo(userID string, profile domain.Profile) *memoryProfileRepo {
	return &memoryProfileRepo{profiles: map[string]domain.Profile{userID: profile}}
}

func (m *memoryProfileRepo) Load(ctx context.Context, userID string) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *memoryProfileRepo) Save(ctx context.Context, userID string, profile domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = profile
	return nil
}

func (m *memoryProfileRepo) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[userID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(m.profiles, userID)
	return nil
}

func intPtr(v int) *int { return &v }

// sampleProfile es el perfil fijo contra el que se evalua el asistente.
func sampleProfile() domain.Profile {
	p := domain.Profile{
		User: domain.User{
			ID:      "grounding-check",
			Name:    "Jordan Rivera",
			Contact: domain.Contact{Email: "jordan@example.com", Location: "Buenos Aires"},
			Summary: "Backend engineer focused on payments and data pipelines.",
		},
		Jobs: []domain.Job{
			{ID: "job-1", Company: "Paylane", Title: "Senior Backend Engineer", StartDate: "2021-03",
				Highlights: []string{"Led migration of settlement batch to streaming"}},
			{ID: "job-2", Company: "DataHarbor", Title: "Software Engineer", StartDate: "2017-06", EndDate: "2021-02"},
		},
		Skills: []domain.Skill{
			{ID: "skill-1", Name: "Go", Category: "language", Proficiency: domain.ProficiencyExpert, YearsOfExperience: intPtr(6)},
			{ID: "skill-2", Name: "PostgreSQL", Category: "database", Proficiency: domain.ProficiencyAdvanced},
			{ID: "skill-3", Name: "Kafka", Category: "messaging", Proficiency: domain.ProficiencyIntermediate},
		},
		Projects: []domain.Project{
			{ID: "proj-1", Name: "Streaming settlements", JobIDs: []string{"job-1"}, SkillIDs: []string{"skill-1", "skill-3"},
				Outcome: "Settlement latency dropped from 24h to 15 minutes"},
		},
		Accomplishments: []domain.Accomplishment{
			{ID: "acc-1", Statement: "Cut settlement latency from 24 hours to 15 minutes", Impact: "Merchants paid same day",
				JobIDs: []string{"job-1"}, ProjectIDs: []string{"proj-1"}, SkillIDs: []string{"skill-1", "skill-3"}},
			{ID: "acc-2", Statement: "Reduced monthly database costs by 30%", JobIDs: []string{"job-2"}, SkillIDs: []string{"skill-2"}},
		},
	}
	p.Normalize()
	return p
}

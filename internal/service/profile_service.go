package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-ragu/internal/domain"
	"resume-ragu/internal/repository"
)

// ProfileService expone el CRUD del perfil de carrera. Cada mutacion es load, cambio en memoria y save del documento completo.
type ProfileService struct {
	logger *zap.Logger
	store  repository.ProfileRepository
	mu     sync.Mutex
	newID  func(prefix string) string
}

func NewProfileService(logger *zap.Logger, store repository.ProfileRepository) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		logger: logger,
		store:  store,
		newID:  generateID,
	}
}

// generateID devuelve <prefix>-<8 hex>.
func generateID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Profile{}, err
	}
	return s.store.Load(ctx, userID)
}

// ReplaceProfile crea o reemplaza el perfil completo. user.id siempre queda igual al userID.
func (s *ProfileService) ReplaceProfile(ctx context.Context, userID string, profile domain.Profile) (domain.Profile, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Profile{}, err
	}
	profile.User.ID = userID
	if err := validateUser(profile.User); err != nil {
		return domain.Profile{}, err
	}
	if err := validateCollections(&profile); err != nil {
		return domain.Profile{}, err
	}
	if err := profile.CheckUniqueIDs(); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %w", domain.ErrInvalidEntity, err)
	}
	s.assignMissingIDs(&profile)
	profile.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, userID, profile); err != nil {
		return domain.Profile{}, err
	}
	s.logger.Info("profile replaced", zap.String("user_id", userID))
	return profile, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, userID string) error {
	if err := domain.ValidateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("profile deleted", zap.String("user_id", userID))
	return nil
}

func (s *ProfileService) assignMissingIDs(p *domain.Profile) {
	for i := range p.Jobs {
		if p.Jobs[i].ID == "" {
			p.Jobs[i].ID = s.newID(jobsCollection.prefix)
		}
	}
	for i := range p.Skills {
		if p.Skills[i].ID == "" {
			p.Skills[i].ID = s.newID(skillsCollection.prefix)
		}
	}
	for i := range p.Projects {
		if p.Projects[i].ID == "" {
			p.Projects[i].ID = s.newID(projectsCollection.prefix)
		}
	}
	for i := range p.Accomplishments {
		if p.Accomplishments[i].ID == "" {
			p.Accomplishments[i].ID = s.newID(accomplishmentsCollection.prefix)
		}
	}
}

// collection describe una lista del perfil para las operaciones genericas.
type collection[T any] struct {
	kind     string
	prefix   string
	items    func(p *domain.Profile) *[]T
	id       func(item *T) *string
	validate func(item T) error
	fill     func(item *T)
}

var jobsCollection = collection[domain.Job]{
	kind:     "job",
	prefix:   "job",
	items:    func(p *domain.Profile) *[]domain.Job { return &p.Jobs },
	id:       func(j *domain.Job) *string { return &j.ID },
	validate: validateJob,
	fill:     (*domain.Job).Normalize,
}

var skillsCollection = collection[domain.Skill]{
	kind:     "skill",
	prefix:   "skill",
	items:    func(p *domain.Profile) *[]domain.Skill { return &p.Skills },
	id:       func(s *domain.Skill) *string { return &s.ID },
	validate: validateSkill,
	fill:     func(*domain.Skill) {},
}

var projectsCollection = collection[domain.Project]{
	kind:     "project",
	prefix:   "project",
	items:    func(p *domain.Profile) *[]domain.Project { return &p.Projects },
	id:       func(pr *domain.Project) *string { return &pr.ID },
	validate: validateProject,
	fill:     (*domain.Project).Normalize,
}

var accomplishmentsCollection = collection[domain.Accomplishment]{
	kind:     "accomplishment",
	prefix:   "accomplishment",
	items:    func(p *domain.Profile) *[]domain.Accomplishment { return &p.Accomplishments },
	id:       func(a *domain.Accomplishment) *string { return &a.ID },
	validate: validateAccomplishment,
	fill:     (*domain.Accomplishment).Normalize,
}

func addEntity[T any](ctx context.Context, s *ProfileService, userID string, c collection[T], item T) (T, error) {
	var zero T
	if err := c.validate(item); err != nil {
		return zero, err
	}
	if err := domain.ValidateUserID(userID); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.Load(ctx, userID)
	if err != nil {
		return zero, err
	}
	list := c.items(&profile)
	id := c.id(&item)
	if *id == "" {
		*id = s.newID(c.prefix)
	}
	c.fill(&item)
	for i := range *list {
		if *c.id(&(*list)[i]) == *id {
			return zero, &domain.DuplicateIDError{Kind: c.kind, ID: *id}
		}
	}
	*list = append(*list, item)

	if err := s.store.Save(ctx, userID, profile); err != nil {
		return zero, err
	}
	s.logger.Info("profile entity added", zap.String("user_id", userID), zap.String("kind", c.kind), zap.String("id", *id))
	return item, nil
}

func updateEntity[T any](ctx context.Context, s *ProfileService, userID, entityID string, c collection[T], item T) (T, error) {
	var zero T
	if err := c.validate(item); err != nil {
		return zero, err
	}
	if err := domain.ValidateUserID(userID); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.Load(ctx, userID)
	if err != nil {
		return zero, err
	}
	list := c.items(&profile)
	for i := range *list {
		if *c.id(&(*list)[i]) != entityID {
			continue
		}
		*c.id(&item) = entityID
		c.fill(&item)
		(*list)[i] = item
		if err := s.store.Save(ctx, userID, profile); err != nil {
			return zero, err
		}
		s.logger.Info("profile entity updated", zap.String("user_id", userID), zap.String("kind", c.kind), zap.String("id", entityID))
		return item, nil
	}
	return zero, fmt.Errorf("%w: %s %s", domain.ErrEntityNotFound, c.kind, entityID)
}

func deleteEntity[T any](ctx context.Context, s *ProfileService, userID, entityID string, c collection[T]) error {
	if err := domain.ValidateUserID(userID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.Load(ctx, userID)
	if err != nil {
		return err
	}
	list := c.items(&profile)
	kept := make([]T, 0, len(*list))
	for i := range *list {
		if *c.id(&(*list)[i]) != entityID {
			kept = append(kept, (*list)[i])
		}
	}
	if len(kept) == len(*list) {
		return fmt.Errorf("%w: %s %s", domain.ErrEntityNotFound, c.kind, entityID)
	}
	*list = kept

	if err := s.store.Save(ctx, userID, profile); err != nil {
		return err
	}
	s.logger.Info("profile entity deleted", zap.String("user_id", userID), zap.String("kind", c.kind), zap.String("id", entityID))
	return nil
}

func (s *ProfileService) AddJob(ctx context.Context, userID string, job domain.Job) (domain.Job, error) {
	return addEntity(ctx, s, userID, jobsCollection, job)
}

func (s *ProfileService) UpdateJob(ctx context.Context, userID, jobID string, job domain.Job) (domain.Job, error) {
	return updateEntity(ctx, s, userID, jobID, jobsCollection, job)
}

func (s *ProfileService) DeleteJob(ctx context.Context, userID, jobID string) error {
	return deleteEntity(ctx, s, userID, jobID, jobsCollection)
}

func (s *ProfileService) AddSkill(ctx context.Context, userID string, skill domain.Skill) (domain.Skill, error) {
	return addEntity(ctx, s, userID, skillsCollection, skill)
}

func (s *ProfileService) UpdateSkill(ctx context.Context, userID, skillID string, skill domain.Skill) (domain.Skill, error) {
	return updateEntity(ctx, s, userID, skillID, skillsCollection, skill)
}

func (s *ProfileService) DeleteSkill(ctx context.Context, userID, skillID string) error {
	return deleteEntity(ctx, s, userID, skillID, skillsCollection)
}

func (s *ProfileService) AddProject(ctx context.Context, userID string, project domain.Project) (domain.Project, error) {
	return addEntity(ctx, s, userID, projectsCollection, project)
}

func (s *ProfileService) UpdateProject(ctx context.Context, userID, projectID string, project domain.Project) (domain.Project, error) {
	return updateEntity(ctx, s, userID, projectID, projectsCollection, project)
}

func (s *ProfileService) DeleteProject(ctx context.Context, userID, projectID string) error {
	return deleteEntity(ctx, s, userID, projectID, projectsCollection)
}

func (s *ProfileService) AddAccomplishment(ctx context.Context, userID string, a domain.Accomplishment) (domain.Accomplishment, error) {
	return addEntity(ctx, s, userID, accomplishmentsCollection, a)
}

func (s *ProfileService) UpdateAccomplishment(ctx context.Context, userID, accomplishmentID string, a domain.Accomplishment) (domain.Accomplishment, error) {
	return updateEntity(ctx, s, userID, accomplishmentID, accomplishmentsCollection, a)
}

func (s *ProfileService) DeleteAccomplishment(ctx context.Context, userID, accomplishmentID string) error {
	return deleteEntity(ctx, s, userID, accomplishmentID, accomplishmentsCollection)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidEntity, fmt.Sprintf(format, args...))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func validateUser(u domain.User) error {
	if blank(u.Name) {
		return invalid("user.name is required")
	}
	if blank(u.Contact.Email) {
		return invalid("user.contact.email is required")
	}
	return nil
}

func validateCollections(p *domain.Profile) error {
	for _, j := range p.Jobs {
		if err := validateJob(j); err != nil {
			return err
		}
	}
	for _, sk := range p.Skills {
		if err := validateSkill(sk); err != nil {
			return err
		}
	}
	for _, pr := range p.Projects {
		if err := validateProject(pr); err != nil {
			return err
		}
	}
	for _, a := range p.Accomplishments {
		if err := validateAccomplishment(a); err != nil {
			return err
		}
	}
	return nil
}

func validateJob(j domain.Job) error {
	switch {
	case blank(j.Company):
		return invalid("job.company is required")
	case blank(j.Title):
		return invalid("job.title is required")
	case blank(j.StartDate):
		return invalid("job.startDate is required")
	}
	return nil
}

func validateSkill(s domain.Skill) error {
	switch {
	case blank(s.Name):
		return invalid("skill.name is required")
	case blank(s.Category):
		return invalid("skill.category is required")
	case !domain.ValidProficiency(s.Proficiency):
		return invalid("skill.proficiency %q is not one of beginner, intermediate, advanced, expert", s.Proficiency)
	case s.YearsOfExperience != nil && *s.YearsOfExperience < 0:
		return invalid("skill.yearsOfExperience must not be negative")
	}
	return nil
}

func validateProject(p domain.Project) error {
	if blank(p.Name) {
		return invalid("project.name is required")
	}
	return nil
}

func validateAccomplishment(a domain.Accomplishment) error {
	if blank(a.Statement) {
		return invalid("accomplishment.statement is required")
	}
	return nil
}

package domain

import (
	"errors"
	"regexp"
)

// Profile es el agregado raiz con toda la informacion de carrera de un usuario.
type Profile struct {
	User            User             `json:"user"`
	Jobs            []Job            `json:"jobs"`
	Skills          []Skill          `json:"skills"`
	Projects        []Project        `json:"projects"`
	Accomplishments []Accomplishment `json:"accomplishments"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type User struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Contact Contact `json:"contact"`
	Summary string  `json:"summary,omitempty"`
}

type Job struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights"`
}

const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

type Skill struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Proficiency       string `json:"proficiency,omitempty"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	JobIDs      []string `json:"jobIds"`
	SkillIDs    []string `json:"skillIds"`
	Outcome     string   `json:"outcome,omitempty"`
}

// Accomplishment es el bloque basico del resume; referencia jobs/projects/skills por id.
type Accomplishment struct {
	ID         string   `json:"id"`
	Statement  string   `json:"statement"`
	Context    string   `json:"context,omitempty"`
	Impact     string   `json:"impact,omitempty"`
	JobIDs     []string `json:"jobIds"`
	ProjectIDs []string `json:"projectIds"`
	SkillIDs   []string `json:"skillIds"`
	Tags       []string `json:"tags"`
}

// Normalize reemplaza slices nil por vacios para que el documento serializado sea estable.
func (p *Profile) Normalize() {
	if p.Jobs == nil {
		p.Jobs = []Job{}
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Accomplishments == nil {
		p.Accomplishments = []Accomplishment{}
	}
	for i := range p.Jobs {
		p.Jobs[i].Normalize()
	}
	for i := range p.Projects {
		p.Projects[i].Normalize()
	}
	for i := range p.Accomplishments {
		p.Accomplishments[i].Normalize()
	}
}

// Clone devuelve una copia profunda; ningun slice queda compartido con p.
func (p Profile) Clone() Profile {
	out := p
	out.Jobs = cloneSlice(p.Jobs)
	for i := range out.Jobs {
		out.Jobs[i].Highlights = cloneSlice(out.Jobs[i].Highlights)
	}
	out.Skills = cloneSlice(p.Skills)
	for i := range out.Skills {
		if y := out.Skills[i].YearsOfExperience; y != nil {
			v := *y
			out.Skills[i].YearsOfExperience = &v
		}
	}
	out.Projects = cloneSlice(p.Projects)
	for i := range out.Projects {
		out.Projects[i].JobIDs = cloneSlice(out.Projects[i].JobIDs)
		out.Projects[i].SkillIDs = cloneSlice(out.Projects[i].SkillIDs)
	}
	out.Accomplishments = cloneSlice(p.Accomplishments)
	for i := range out.Accomplishments {
		a := &out.Accomplishments[i]
		a.JobIDs = cloneSlice(a.JobIDs)
		a.ProjectIDs = cloneSlice(a.ProjectIDs)
		a.SkillIDs = cloneSlice(a.SkillIDs)
		a.Tags = cloneSlice(a.Tags)
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

func (j *Job) Normalize() {
	if j.Highlights == nil {
		j.Highlights = []string{}
	}
}

func (p *Project) Normalize() {
	if p.JobIDs == nil {
		p.JobIDs = []string{}
	}
	if p.SkillIDs == nil {
		p.SkillIDs = []string{}
	}
}

func (a *Accomplishment) Normalize() {
	if a.JobIDs == nil {
		a.JobIDs = []string{}
	}
	if a.ProjectIDs == nil {
		a.ProjectIDs = []string{}
	}
	if a.SkillIDs == nil {
		a.SkillIDs = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
}

// CheckUniqueIDs verifica que cada id sea unico dentro de su coleccion.
func (p *Profile) CheckUniqueIDs() error {
	check := func(kind string, ids []string) error {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				return &DuplicateIDError{Kind: kind, ID: id}
			}
			seen[id] = struct{}{}
		}
		return nil
	}

	ids := make([]string, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		ids = append(ids, j.ID)
	}
	if err := check("job", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, s := range p.Skills {
		ids = append(ids, s.ID)
	}
	if err := check("skill", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, pr := range p.Projects {
		ids = append(ids, pr.ID)
	}
	if err := check("project", ids); err != nil {
		return err
	}
	ids = ids[:0]
	for _, a := range p.Accomplishments {
		ids = append(ids, a.ID)
	}
	return check("accomplishment", ids)
}

// ValidProficiency acepta vacio o uno de los niveles conocidos.
func ValidProficiency(p string) bool {
	switch p {
	case "", ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateUserID evita ids que no sirvan como segmento de ruta o clave.
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return ErrInvalidUserID
	}
	return nil
}

// ErrInvalidUserID se devuelve cuando el id de usuario no cumple el formato permitido.
var ErrInvalidUserID = errors.New("invalid user id")

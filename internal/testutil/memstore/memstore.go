// Package memstore is an in-memory implementation of the repository ports
// used by service and HTTP tests. It enforces the same uniqueness and
// foreign-key rules as the real stores and reports them as
// *domain.StoreError.
package memstore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

var (
	_ ports.UserRepository    = (*Users)(nil)
	_ ports.ProjectRepository = (*Projects)(nil)
)

// Store holds users and projects behind a single mutex.
type Store struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*domain.User
	projects map[string]*domain.Project

	// Err, when set, is returned by every call.
	Err error
	// TouchErr, when set, is returned by Touch only.
	TouchErr error
}

func New() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		projects: make(map[string]*domain.Project),
	}
}

// Users returns the users repository view.
func (s *Store) Users() *Users { return &Users{s: s} }

// Projects returns the projects repository view.
func (s *Store) Projects() *Projects { return &Projects{s: s} }

func (s *Store) nextID(prefix string) string {
	s.seq++
	return prefix + "-" + strconv.Itoa(s.seq)
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	return &c
}

// Users implements ports.UserRepository.
type Users struct{ s *Store }

// Count returns the number of stored users.
func (r *Users) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users)
}

func (r *Users) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, &domain.StoreError{Kind: domain.StoreErrUnique, Field: "email"}
		}
		if u.Username == user.Username {
			return nil, &domain.StoreError{Kind: domain.StoreErrUnique, Field: "username"}
		}
	}
	c := cloneUser(user)
	c.ID = r.s.nextID("user")
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *Users) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNoRecord
}

func (r *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *Users) FindActiveByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id && u.IsActive })
}

func (r *Users) FindActiveByHandle(_ context.Context, handle string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.IsActive && (strings.EqualFold(u.Email, handle) || u.Username == handle)
	})
}

func (r *Users) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return strings.EqualFold(u.Email, email) || u.Username == username
	})
}

func (r *Users) update(id string, apply func(*domain.User)) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNoRecord
	}
	apply(u)
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *Users) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	return r.update(id, update.Apply)
}

func (r *Users) UpdatePassword(_ context.Context, id, passwordHash string) error {
	_, err := r.update(id, func(u *domain.User) { u.PasswordHash = passwordHash })
	return err
}

func (r *Users) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Role = role })
}

func (r *Users) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.IsActive = active })
}

func (r *Users) Touch(_ context.Context, id string) error {
	if r.s.TouchErr != nil {
		return r.s.TouchErr
	}
	_, err := r.update(id, func(*domain.User) {})
	return err
}

func (r *Users) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Projects implements ports.ProjectRepository.
type Projects struct{ s *Store }

func (r *Projects) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, p := range r.s.projects {
		if p.Code == project.Code {
			return nil, &domain.StoreError{Kind: domain.StoreErrUnique, Field: "code"}
		}
	}
	if _, ok := r.s.users[project.CreatedByID]; !ok {
		return nil, &domain.StoreError{Kind: domain.StoreErrForeignKey, Field: "created_by_id"}
	}
	if project.ManagerID != "" {
		if _, ok := r.s.users[project.ManagerID]; !ok {
			return nil, &domain.StoreError{Kind: domain.StoreErrForeignKey, Field: "manager_id"}
		}
	}
	c := cloneProject(project)
	c.ID = r.s.nextID("project")
	r.s.projects[c.ID] = c
	return cloneProject(c), nil
}

func (r *Projects) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrNoRecord
	}
	return cloneProject(p), nil
}

func (r *Projects) IsOwnedBy(_ context.Context, projectID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	p, ok := r.s.projects[projectID]
	return ok && p.IsOwnedBy(userID), nil
}

package users

import (
	"context"
	"fmt"
	"sync"

	"eskimo_admin/internal/api"

	"go.uber.org/zap"
)

type Backend interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, u api.User) (api.User, error)
	UpdateUser(ctx context.Context, u api.User) (api.User, error)
	DeleteUser(ctx context.Context, id api.ID) error
}

// Service runs user administration against the backend, checking every
// change against the last fetched list first.
type Service struct {
	backend Backend
	logger  *zap.Logger

	mu    sync.Mutex
	users []api.User
}

func NewService(backend *api.Client, logger *zap.Logger) *Service {
	return newService(backend, logger)
}

func newService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger.Named("users")}
}

func (s *Service) List(ctx context.Context) ([]api.User, error) {
	list, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.users = list
	s.mu.Unlock()
	return append([]api.User(nil), list...), nil
}

// Cached returns the last fetched list.
func (s *Service) Cached() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.User(nil), s.users...)
}

func (s *Service) Find(id api.ID) (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return api.User{}, false
}

func (s *Service) Create(ctx context.Context, u api.User) (api.User, error) {
	created, err := s.backend.CreateUser(ctx, u)
	if err != nil {
		return api.User{}, err
	}
	s.refresh(ctx)
	return created, nil
}

func (s *Service) Save(ctx context.Context, u api.User) (api.User, error) {
	if err := s.check(u.ID, Change{Op: OpSave, Updated: u}); err != nil {
		return api.User{}, err
	}
	saved, err := s.backend.UpdateUser(ctx, u)
	if err != nil {
		return api.User{}, err
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *Service) SetEnabled(ctx context.Context, id api.ID, enabled bool) (api.User, error) {
	u, ok := s.Find(id)
	if !ok {
		return api.User{}, fmt.Errorf("user %s: %w", id, api.ErrNotFound)
	}
	if err := s.check(id, Change{Op: OpToggle, Enabled: enabled}); err != nil {
		return api.User{}, err
	}
	u.IsEnabled = enabled
	u.Password = ""
	saved, err := s.backend.UpdateUser(ctx, u)
	if err != nil {
		return api.User{}, err
	}
	s.refresh(ctx)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id api.ID) error {
	if err := s.check(id, Change{Op: OpDelete}); err != nil {
		return err
	}
	if err := s.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *Service) check(id api.ID, change Change) error {
	if err := CheckLastAdmin(s.Cached(), id, change); err != nil {
		s.logger.Warn("user change rejected", zap.String("user_id", id.String()), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) refresh(ctx context.Context) {
	if _, err := s.List(ctx); err != nil {
		s.logger.Warn("refresh users failed", zap.Error(err))
	}
}

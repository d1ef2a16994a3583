package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	KeyToken       = "token"
	KeyRole        = "role"
	KeyPermissions = "permissions"
	KeyStore       = "store"
)

// Manager is the session context handed to every consumer that needs the
// token, the role or the permission map.
type Manager struct {
	store  Store
	logger *zap.Logger
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.Named("session"),
	}
}

func (m *Manager) Current() Session {
	role, _ := m.store.Get(KeyRole)
	perms, _ := m.store.Get(KeyPermissions)
	s := Derive(role, perms)
	s.Token = m.Token()
	s.Store = m.SelectedStore()
	return s
}

func (m *Manager) Token() string {
	token, _ := m.store.Get(KeyToken)
	return strings.TrimSpace(token)
}

func (m *Manager) SelectedStore() string {
	store, _ := m.store.Get(KeyStore)
	return strings.TrimSpace(store)
}

// Begin replaces the stored session. The permission payload is kept exactly
// as the backend sent it.
func (m *Manager) Begin(token, role string, permissions json.RawMessage) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("begin session: %w", ErrLoginRequired)
	}
	if err := m.store.Delete(KeyStore); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	perms := strings.TrimSpace(string(permissions))
	if perms == "" || perms == "null" {
		perms = "{}"
	}
	if err := m.store.Set(map[string]string{
		KeyToken:       token,
		KeyRole:        role,
		KeyPermissions: perms,
	}); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	m.logger.Info("session started", zap.String("role", string(ParseRole(role))))
	return nil
}

func (m *Manager) End() error {
	if err := m.store.Delete(KeyToken, KeyRole, KeyPermissions, KeyStore); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	m.logger.Info("session ended")
	return nil
}

func (m *Manager) SelectStore(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return m.store.Delete(KeyStore)
	}
	if !IsStoreKey(key) {
		return fmt.Errorf("%w: %q", ErrUnknownStore, key)
	}
	return m.store.Set(map[string]string{KeyStore: key})
}

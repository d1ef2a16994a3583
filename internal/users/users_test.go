package users

import (
	"context"
	"sync"
	"testing"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu      sync.Mutex
	users   []api.User
	updates []api.User
	deletes []api.ID
}

func (f *fakeBackend) ListUsers(context.Context) ([]api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.User(nil), f.users...), nil
}

func (f *fakeBackend) CreateUser(_ context.Context, u api.User) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = "new"
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeBackend) UpdateUser(_ context.Context, u api.User) (api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	return u, nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, id api.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func admin(id string) api.User {
	return api.User{ID: api.ID(id), Name: id, Role: "admin", IsEnabled: true}
}

func operator(id string) api.User {
	return api.User{ID: api.ID(id), Name: id, Role: "operator", IsEnabled: true}
}

func TestCheckLastAdmin(t *testing.T) {
	single := []api.User{admin("a"), operator("o"), {ID: "off", Role: "ADMIN", IsEnabled: false}}
	demoted := admin("a")
	demoted.Role = "operator"
	disabled := admin("a")
	disabled.IsEnabled = false
	renamed := admin("a")
	renamed.Name = "Ana"

	tests := []struct {
		name   string
		list   []api.User
		target api.ID
		change Change
		want   error
	}{
		{"delete last admin", single, "a", Change{Op: OpDelete}, ErrLastAdmin},
		{"disable last admin", single, "a", Change{Op: OpToggle, Enabled: false}, ErrLastAdmin},
		{"enable last admin", single, "a", Change{Op: OpToggle, Enabled: true}, nil},
		{"demote last admin", single, "a", Change{Op: OpSave, Updated: demoted}, ErrLastAdmin},
		{"save disabled last admin", single, "a", Change{Op: OpSave, Updated: disabled}, ErrLastAdmin},
		{"rename last admin", single, "a", Change{Op: OpSave, Updated: renamed}, nil},
		{"delete operator", single, "o", Change{Op: OpDelete}, nil},
		{"delete disabled admin", single, "off", Change{Op: OpDelete}, nil},
		{"unknown target", single, "zzz", Change{Op: OpDelete}, nil},
		{"two admins delete", []api.User{admin("a"), admin("b")}, "a", Change{Op: OpDelete}, nil},
		{"two admins demote", []api.User{admin("a"), admin("b")}, "b", Change{Op: OpSave, Updated: operator("b")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLastAdmin(tt.list, tt.target, tt.change)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_LastAdminRejectedBeforeRequest(t *testing.T) {
	backend := &fakeBackend{users: []api.User{admin("a"), operator("o")}}
	svc := newService(backend, nil)
	ctx := context.Background()
	_, err := svc.List(ctx)
	require.NoError(t, err)

	_, err = svc.SetEnabled(ctx, "a", false)
	assert.ErrorIs(t, err, ErrLastAdmin)
	assert.ErrorIs(t, svc.Delete(ctx, "a"), ErrLastAdmin)
	_, err = svc.Save(ctx, operator("a"))
	assert.ErrorIs(t, err, ErrLastAdmin)

	assert.Empty(t, backend.updates)
	assert.Empty(t, backend.deletes)
}

func TestService_TwoAdminsRequestSent(t *testing.T) {
	backend := &fakeBackend{users: []api.User{admin("a"), admin("b")}}
	svc := newService(backend, nil)
	ctx := context.Background()
	_, err := svc.List(ctx)
	require.NoError(t, err)

	saved, err := svc.SetEnabled(ctx, "a", false)
	require.NoError(t, err)
	assert.False(t, saved.IsEnabled)
	require.NoError(t, svc.Delete(ctx, "b"))

	require.Len(t, backend.updates, 1)
	assert.Equal(t, api.ID("a"), backend.updates[0].ID)
	assert.Equal(t, []api.ID{"b"}, backend.deletes)
}

func TestService_SetEnabledUnknownUser(t *testing.T) {
	svc := newService(&fakeBackend{}, nil)
	_, err := svc.SetEnabled(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestService_CreateRefreshesCache(t *testing.T) {
	backend := &fakeBackend{}
	svc := newService(backend, nil)

	created, err := svc.Create(context.Background(), operator(""))
	require.NoError(t, err)
	assert.Equal(t, api.ID("new"), created.ID)
	assert.Len(t, svc.Cached(), 1)
}

func TestPresetPermissions(t *testing.T) {
	perms, err := PresetPermissions(PresetOrdersAllStores)
	require.NoError(t, err)
	assert.True(t, perms.AnyOrders())
	assert.False(t, perms.AnyEditStock())
	assert.False(t, perms.CanManageProducts)

	perms, err = PresetPermissions("pedidos_estoque_passo")
	require.NoError(t, err)
	assert.Equal(t, session.StorePermissions{Orders: true, EditStock: true}, perms.Stores[session.StorePasso])
	assert.Equal(t, session.StorePermissions{}, perms.Stores[session.StoreEfapi])

	perms, err = PresetPermissions(PresetProductsNoDelete)
	require.NoError(t, err)
	assert.True(t, perms.CanManageProducts)
	assert.False(t, perms.CanDeleteProducts)
	assert.False(t, perms.AnyOrders())

	_, err = PresetPermissions("ROOT")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestPresets_AllResolve(t *testing.T) {
	for _, p := range Presets() {
		_, err := PresetPermissions(p.ID)
		assert.NoError(t, err, p.ID)
	}
}

func TestApplyPreset(t *testing.T) {
	u := operator("o")
	u.Permissions = session.Permissions{CanManageProducts: true}

	got, err := ApplyPreset(u, PresetOrdersStockEfapi)
	require.NoError(t, err)
	assert.Equal(t, "operator", got.Role)
	assert.False(t, got.Permissions.CanManageProducts, "preset replaces the whole structure")
	assert.True(t, got.Permissions.Stores[session.StoreEfapi].EditStock)

	got, err = ApplyPreset(u, PresetAdminTotal)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)

	_, err = ApplyPreset(u, "nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

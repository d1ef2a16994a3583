package session

// Session is a snapshot of the stored session, derived once per command.
type Session struct {
	Token       string
	Role        Role
	Permissions Permissions
	Store       string
}

func Derive(role, permissions string) Session {
	return Session{
		Role:        ParseRole(role),
		Permissions: ParsePermissions(permissions),
	}
}

func (s Session) LoggedIn() bool {
	return s.Token != ""
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s Session) CanManageProducts() bool {
	return s.Permissions.CanManageProducts
}

func (s Session) AnyEditStock() bool {
	return s.Permissions.AnyEditStock()
}

func (s Session) AnyOrders() bool {
	return s.Permissions.AnyOrders()
}

// The Allows* helpers gate commands. Admins pass every check; the permission
// map is not consulted for them.

func (s Session) AllowsProducts() bool {
	return s.IsAdmin() || s.Permissions.CanManageProducts
}

func (s Session) AllowsProductDelete() bool {
	return s.IsAdmin() || (s.Permissions.CanManageProducts && s.Permissions.CanDeleteProducts)
}

func (s Session) AllowsOrders() bool {
	return s.IsAdmin() || s.Permissions.AnyOrders()
}

func (s Session) AllowsStoreOrders(store string) bool {
	return s.IsAdmin() || s.Permissions.Store(store).Orders
}

func (s Session) AllowsStock() bool {
	return s.IsAdmin() || s.Permissions.AnyEditStock()
}

func (s Session) AllowsStockEdit(store string) bool {
	return s.IsAdmin() || s.Permissions.Store(store).EditStock
}

// OrderStores lists the stores whose orders the session may see.
func (s Session) OrderStores() []string {
	var stores []string
	for _, key := range StoreKeys {
		if s.AllowsStoreOrders(key) {
			stores = append(stores, key)
		}
	}
	return stores
}

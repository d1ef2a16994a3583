package session

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// Store keys. The set is closed: anything else found in a permission map is
// ignored.
const (
	StoreEfapi    = "efapi"
	StorePalmital = "palmital"
	StorePasso    = "passo"
)

var StoreKeys = []string{StoreEfapi, StorePalmital, StorePasso}

func IsStoreKey(key string) bool {
	for _, k := range StoreKeys {
		if k == key {
			return true
		}
	}
	return false
}

type StorePermissions struct {
	Orders    bool `json:"orders"`
	EditStock bool `json:"edit_stock"`
}

type Permissions struct {
	CanManageProducts bool                        `json:"can_manage_products"`
	CanDeleteProducts bool                        `json:"can_delete_products"`
	Stores            map[string]StorePermissions `json:"stores,omitempty"`
}

// ParseRole falls back to operator for anything that is not "admin".
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleOperator
}

// ParsePermissions never fails: missing or malformed data yields the empty
// map, which grants nothing to an operator.
func ParsePermissions(raw string) Permissions {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Permissions{}
	}
	var perms Permissions
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return Permissions{}
	}
	return perms
}

func (p Permissions) Store(key string) StorePermissions {
	if !IsStoreKey(key) {
		return StorePermissions{}
	}
	return p.Stores[key]
}

func (p Permissions) AnyEditStock() bool {
	for _, key := range StoreKeys {
		if p.Stores[key].EditStock {
			return true
		}
	}
	return false
}

func (p Permissions) AnyOrders() bool {
	for _, key := range StoreKeys {
		if p.Stores[key].Orders {
			return true
		}
	}
	return false
}

func (p Permissions) Marshal() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

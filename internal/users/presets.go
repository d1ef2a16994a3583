package users

import (
	"errors"
	"fmt"
	"strings"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/session"
)

var ErrUnknownPreset = errors.New("unknown permission preset")

const (
	PresetAdminTotal       = "ADMIN_TOTAL"
	PresetOrdersAllStores  = "PEDIDOS_TODAS_LOJAS"
	PresetOrdersStockEfapi = "PEDIDOS_ESTOQUE_EFAPI"
	PresetOrdersStockPalm  = "PEDIDOS_ESTOQUE_PALMITAL"
	PresetOrdersStockPasso = "PEDIDOS_ESTOQUE_PASSO"
	PresetProductsNoDelete = "PRODUTOS_SEM_EXCLUIR"
	PresetProductsFull     = "PRODUTOS_TOTAL"
	PresetNoAccess         = "SEM_ACESSO"
)

type Preset struct {
	ID    string
	Label string
}

var presets = []Preset{
	{PresetAdminTotal, "Administrador total"},
	{PresetOrdersAllStores, "Pedidos de todas as lojas (sem estoque)"},
	{PresetOrdersStockEfapi, "Pedidos e estoque da EFAPI"},
	{PresetOrdersStockPalm, "Pedidos e estoque do Palmital"},
	{PresetOrdersStockPasso, "Pedidos e estoque do Passo"},
	{PresetProductsNoDelete, "Gerenciar produtos sem excluir"},
	{PresetProductsFull, "Gerenciar produtos"},
	{PresetNoAccess, "Sem acesso"},
}

func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

func storesWith(perm func(store string) session.StorePermissions) map[string]session.StorePermissions {
	out := make(map[string]session.StorePermissions, len(session.StoreKeys))
	for _, key := range session.StoreKeys {
		out[key] = perm(key)
	}
	return out
}

// PresetPermissions builds the complete capability structure of a preset.
func PresetPermissions(id string) (session.Permissions, error) {
	switch strings.ToUpper(strings.TrimSpace(id)) {
	case PresetAdminTotal:
		return session.Permissions{
			CanManageProducts: true,
			CanDeleteProducts: true,
			Stores: storesWith(func(string) session.StorePermissions {
				return session.StorePermissions{Orders: true, EditStock: true}
			}),
		}, nil
	case PresetOrdersAllStores:
		return session.Permissions{
			Stores: storesWith(func(string) session.StorePermissions {
				return session.StorePermissions{Orders: true}
			}),
		}, nil
	case PresetOrdersStockEfapi:
		return singleStore(session.StoreEfapi), nil
	case PresetOrdersStockPalm:
		return singleStore(session.StorePalmital), nil
	case PresetOrdersStockPasso:
		return singleStore(session.StorePasso), nil
	case PresetProductsNoDelete:
		return session.Permissions{CanManageProducts: true, Stores: storesWith(noAccess)}, nil
	case PresetProductsFull:
		return session.Permissions{CanManageProducts: true, CanDeleteProducts: true, Stores: storesWith(noAccess)}, nil
	case PresetNoAccess:
		return session.Permissions{Stores: storesWith(noAccess)}, nil
	default:
		return session.Permissions{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
}

func noAccess(string) session.StorePermissions {
	return session.StorePermissions{}
}

func singleStore(store string) session.Permissions {
	return session.Permissions{
		Stores: storesWith(func(key string) session.StorePermissions {
			if key == store {
				return session.StorePermissions{Orders: true, EditStock: true}
			}
			return session.StorePermissions{}
		}),
	}
}

// ApplyPreset overwrites the permissions of u. ADMIN_TOTAL also makes u an
// admin.
func ApplyPreset(u api.User, id string) (api.User, error) {
	perms, err := PresetPermissions(id)
	if err != nil {
		return u, err
	}
	u.Permissions = perms
	if strings.EqualFold(strings.TrimSpace(id), PresetAdminTotal) {
		u.Role = string(session.RoleAdmin)
	}
	return u, nil
}

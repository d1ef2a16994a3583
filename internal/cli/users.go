package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/session"
	"eskimo_admin/internal/users"
)

type userForm struct {
	preset      string
	permissions string
}

func userFlags(fs *flag.FlagSet, u *api.User, form *userForm) {
	fs.StringVar(&u.Name, "name", u.Name, "Name")
	fs.StringVar(&u.Email, "email", u.Email, "E-mail")
	fs.StringVar(&u.Password, "password", "", "New password")
	fs.StringVar(&u.Role, "role", u.Role, "Role: admin or operator")
	fs.BoolVar(&u.IsEnabled, "enabled", u.IsEnabled, "Account enabled")
	fs.StringVar(&form.preset, "preset", "", "Permission preset (see users presets)")
	fs.StringVar(&form.permissions, "permissions", "", "Permissions as JSON")
}

// applyForm resolves role and permissions. A preset wins over raw JSON.
func applyForm(u api.User, form userForm, set map[string]bool) (api.User, error) {
	if set["role"] {
		u.Role = string(session.ParseRole(u.Role))
	}
	if set["permissions"] {
		u.Permissions = session.ParsePermissions(form.permissions)
	}
	if set["preset"] {
		return users.ApplyPreset(u, form.preset)
	}
	return u, nil
}

func (r *Runner) cmdUsers(ctx context.Context, args []string) error {
	if _, err := r.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "presets":
		list := users.Presets()
		return r.emit(list, func() {
			tw := r.table("PERFIL", "DESCRIÇÃO")
			for _, p := range list {
				fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Label)
			}
			_ = tw.Flush()
		})
	case "list":
		list, err := r.users.List(ctx)
		if err != nil {
			return err
		}
		return r.writeUsers(list)
	case "create":
		u := api.User{Role: string(session.RoleOperator), IsEnabled: true}
		var form userForm
		fs := r.subFlags("users create")
		userFlags(fs, &u, &form)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if strings.TrimSpace(u.Email) == "" || u.Password == "" {
			return fmt.Errorf("%w: --email and --password are required", errUsage)
		}
		u, err := applyForm(u, form, setFlags(fs))
		if err != nil {
			return err
		}
		created, err := r.users.Create(ctx, u)
		if err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Usuário #%s criado.", created.ID))
	case "update":
		id, rest, err := parseID(args[1:])
		if err != nil {
			return err
		}
		u, err := r.cachedUser(ctx, id)
		if err != nil {
			return err
		}
		var form userForm
		fs := r.subFlags("users update")
		userFlags(fs, &u, &form)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if u, err = applyForm(u, form, setFlags(fs)); err != nil {
			return err
		}
		if _, err := r.users.Save(ctx, u); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Usuário #%s atualizado.", id))
	case "enable", "disable":
		id, _, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if _, err := r.users.List(ctx); err != nil {
			return err
		}
		enabled := args[0] == "enable"
		if _, err := r.users.SetEnabled(ctx, id, enabled); err != nil {
			return err
		}
		if enabled {
			return r.done(fmt.Sprintf("Usuário #%s ativado.", id))
		}
		return r.done(fmt.Sprintf("Usuário #%s desativado.", id))
	case "delete":
		id, _, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if _, err := r.cachedUser(ctx, id); err != nil {
			return err
		}
		if !r.confirmer().Confirm(fmt.Sprintf("Excluir o usuário #%s?", id)) {
			return orders.ErrNotConfirmed
		}
		if err := r.users.Delete(ctx, id); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Usuário #%s excluído.", id))
	default:
		return fmt.Errorf("%w: users %s", errUsage, args[0])
	}
}

// cachedUser fetches the user list and returns the record of id from it.
func (r *Runner) cachedUser(ctx context.Context, id api.ID) (api.User, error) {
	if _, err := r.users.List(ctx); err != nil {
		return api.User{}, err
	}
	u, ok := r.users.Find(id)
	if !ok {
		return api.User{}, fmt.Errorf("user %s: %w", id, api.ErrNotFound)
	}
	return u, nil
}

func (r *Runner) writeUsers(list []api.User) error {
	return r.emit(list, func() {
		tw := r.table("ID", "NOME", "E-MAIL", "PERFIL", "ATIVO", "PEDIDOS", "ESTOQUE")
		for _, u := range list {
			var ordersIn, stockIn []string
			for _, key := range session.StoreKeys {
				if u.Permissions.Store(key).Orders {
					ordersIn = append(ordersIn, key)
				}
				if u.Permissions.Store(key).EditStock {
					stockIn = append(stockIn, key)
				}
			}
			fmt.Fprintf(tw, "#%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				u.ID, orDash(u.Name), u.Email, session.ParseRole(u.Role), yesNo(u.IsEnabled),
				orDash(strings.Join(ordersIn, ",")), orDash(strings.Join(stockIn, ",")))
		}
		_ = tw.Flush()
	})
}

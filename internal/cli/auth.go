package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"eskimo_admin/internal/session"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func (r *Runner) subFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(appName+" "+name, flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	return fs
}

func (r *Runner) cmdLogin(ctx context.Context, args []string) error {
	var email, password string
	fs := r.subFlags("login")
	fs.StringVar(&email, "email", "", "E-mail")
	fs.StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if password == "" && email != "" {
		password = r.promptPassword()
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	resp, err := r.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := r.sessions.Begin(resp.Token, resp.ResolvedRole(), resp.ResolvedPermissions()); err != nil {
		return err
	}
	r.guard.Check()

	s := r.sessions.Current()
	r.logger.Info("logged in", zap.String("role", string(s.Role)))
	return r.emit(whoamiView(s, true), func() {
		fmt.Fprintf(r.out, "Bem-vindo! Perfil: %s\n", s.Role)
	})
}

// promptPassword reads the password without echo when stdin is a terminal
// and falls back to a plain line otherwise.
func (r *Runner) promptPassword() string {
	fmt.Fprint(r.errOut, "Senha: ")
	if r.stdinFd >= 0 && term.IsTerminal(r.stdinFd) {
		raw, err := term.ReadPassword(r.stdinFd)
		fmt.Fprintln(r.errOut)
		if err == nil {
			return string(raw)
		}
		r.logger.Warn("no-echo password read failed", zap.Error(err))
	}
	line, _ := r.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func (r *Runner) cmdLogout(_ context.Context, _ []string) error {
	if err := r.sessions.End(); err != nil {
		return err
	}
	r.guard.Check()
	return r.done("Sessão encerrada.")
}

type whoami struct {
	LoggedIn    bool                `json:"logged_in"`
	Role        session.Role        `json:"role,omitempty"`
	Store       string              `json:"store,omitempty"`
	OrderStores []string            `json:"order_stores,omitempty"`
	Products    bool                `json:"manage_products"`
	Delete      bool                `json:"delete_products"`
	Stock       bool                `json:"edit_stock"`
	Permissions session.Permissions `json:"permissions"`
}

func whoamiView(s session.Session, usable bool) whoami {
	if !usable {
		return whoami{}
	}
	return whoami{
		LoggedIn:    true,
		Role:        s.Role,
		Store:       s.Store,
		OrderStores: s.OrderStores(),
		Products:    s.AllowsProducts(),
		Delete:      s.AllowsProductDelete(),
		Stock:       s.AllowsStock(),
		Permissions: s.Permissions,
	}
}

func (r *Runner) cmdWhoami(_ context.Context, _ []string) error {
	view := whoamiView(r.sessions.Current(), r.guard.Check())
	return r.emit(view, func() {
		if !view.LoggedIn {
			fmt.Fprintln(r.out, "Nenhuma sessão ativa.")
			return
		}
		fmt.Fprintf(r.out, "Perfil: %s\n", view.Role)
		fmt.Fprintf(r.out, "Loja selecionada: %s\n", orDash(view.Store))
		fmt.Fprintf(r.out, "Pedidos das lojas: %s\n", orDash(strings.Join(view.OrderStores, ", ")))
		fmt.Fprintf(r.out, "Gerenciar produtos: %s\n", yesNo(view.Products))
		fmt.Fprintf(r.out, "Excluir produtos: %s\n", yesNo(view.Delete))
		fmt.Fprintf(r.out, "Editar estoque: %s\n", yesNo(view.Stock))
	})
}

func (r *Runner) cmdStore(_ context.Context, args []string) error {
	if _, err := r.protected(); err != nil {
		return err
	}
	if len(args) == 0 {
		store := r.sessions.SelectedStore()
		return r.emit(map[string]string{"store": store}, func() {
			fmt.Fprintf(r.out, "Loja selecionada: %s\n", orDash(store))
		})
	}

	switch args[0] {
	case "select":
		if len(args) < 2 {
			return fmt.Errorf("%w: store select <efapi|palmital|passo>", errUsage)
		}
		if err := r.sessions.SelectStore(args[1]); err != nil {
			return err
		}
		return r.done("Loja selecionada: " + r.sessions.SelectedStore())
	case "clear":
		if err := r.sessions.SelectStore(""); err != nil {
			return err
		}
		return r.done("Seleção de loja removida.")
	default:
		return fmt.Errorf("%w: store %s", errUsage, args[0])
	}
}

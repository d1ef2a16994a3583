package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/printer"
	"eskimo_admin/internal/session"
)

func (r *Runner) cmdSettings(ctx context.Context, args []string) error {
	if _, err := r.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"show"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	current, err := r.api.GetSettings(ctx)
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
		return r.writeSettings(current)
	case "set":
		fs := r.subFlags("settings set")
		fs.Var(decimalFlag{&current.DeliveryFee}, "delivery-fee", "Delivery fee")
		fs.Var(decimalFlag{&current.FreeDeliveryFrom}, "free-from", "Order total with free delivery")
		fs.BoolVar(&current.DeliveryEnabled, "delivery", current.DeliveryEnabled, "Delivery enabled")
		fs.StringVar(&current.OpeningHours, "hours", current.OpeningHours, "Opening hours")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if current.DeliveryFee.IsNegative() || current.FreeDeliveryFrom.IsNegative() {
			return fmt.Errorf("%w: values must not be negative", errUsage)
		}
		saved, err := r.api.UpdateSettings(ctx, current)
		if err != nil {
			return err
		}
		return r.writeSettings(saved)
	default:
		return fmt.Errorf("%w: settings %s", errUsage, args[0])
	}
}

func (r *Runner) writeSettings(s api.Settings) error {
	return r.emit(s, func() {
		fmt.Fprintf(r.out, "Entrega ativa: %s\n", yesNo(s.DeliveryEnabled))
		fmt.Fprintf(r.out, "Taxa de entrega: %s\n", money(s.DeliveryFee))
		fmt.Fprintf(r.out, "Entrega grátis a partir de: %s\n", money(s.FreeDeliveryFrom))
		fmt.Fprintf(r.out, "Horário: %s\n", orDash(s.OpeningHours))
	})
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

func storeArg(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", args, fmt.Errorf("%w: store is required", errUsage)
	}
	store := orders.NormalizeStore(args[0])
	if !session.IsStoreKey(store) {
		return "", args, fmt.Errorf("%w: %q", session.ErrUnknownStore, args[0])
	}
	return store, args[1:], nil
}

func (r *Runner) cmdPayments(ctx context.Context, args []string) error {
	if _, err := r.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "list":
		list, err := r.api.ListPaymentConfigs(ctx)
		if err != nil {
			return err
		}
		return r.emit(maskedConfigs(list), func() {
			tw := r.table("LOJA", "PROVEDOR", "ATIVO", "PUBLIC KEY", "ACCESS TOKEN")
			for _, c := range maskedConfigs(list) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Store, orDash(c.Provider), yesNo(c.Enabled), orDash(c.PublicKey), orDash(c.AccessToken))
			}
			_ = tw.Flush()
		})
	case "show":
		store, _, err := storeArg(args[1:])
		if err != nil {
			return err
		}
		pc, err := r.api.GetPaymentConfig(ctx, store)
		if err != nil {
			return err
		}
		return r.writePaymentConfig(maskedConfigs([]api.PaymentConfig{pc})[0])
	case "set":
		store, rest, err := storeArg(args[1:])
		if err != nil {
			return err
		}
		pc, err := r.api.GetPaymentConfig(ctx, store)
		if err != nil && !errors.Is(err, api.ErrNotFound) {
			return err
		}
		pc.Store = store
		if pc.Provider == "" {
			pc.Provider = orders.MethodMercadoPago
		}
		fs := r.subFlags("payments set")
		fs.StringVar(&pc.Provider, "provider", pc.Provider, "Provider")
		fs.StringVar(&pc.PublicKey, "public-key", pc.PublicKey, "Public key")
		fs.StringVar(&pc.AccessToken, "access-token", pc.AccessToken, "Access token")
		fs.BoolVar(&pc.Enabled, "enabled", pc.Enabled, "Enabled")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		saved, err := r.api.SavePaymentConfig(ctx, pc)
		if err != nil {
			return err
		}
		return r.writePaymentConfig(maskedConfigs([]api.PaymentConfig{saved})[0])
	case "delete":
		store, _, err := storeArg(args[1:])
		if err != nil {
			return err
		}
		if !r.confirmer().Confirm(fmt.Sprintf("Remover a configuração de pagamento da loja %s?", store)) {
			return orders.ErrNotConfirmed
		}
		if err := r.api.DeletePaymentConfig(ctx, store); err != nil {
			return err
		}
		return r.done("Configuração removida: " + store)
	case "verify":
		store, _, err := storeArg(args[1:])
		if err != nil {
			return err
		}
		pc, err := r.api.GetPaymentConfig(ctx, store)
		if err != nil {
			return err
		}
		res, err := r.payments.Verify(ctx, pc)
		if err != nil {
			return err
		}
		return r.emit(res, func() {
			if res.Valid {
				fmt.Fprintf(r.out, "Credenciais do Mercado Pago válidas para %s.\n", store)
				return
			}
			fmt.Fprintf(r.out, "Credenciais recusadas para %s: %s\n", store, res.Message)
		})
	default:
		return fmt.Errorf("%w: payments %s", errUsage, args[0])
	}
}

func maskedConfigs(list []api.PaymentConfig) []api.PaymentConfig {
	out := make([]api.PaymentConfig, len(list))
	for i, c := range list {
		c.AccessToken = maskSecret(c.AccessToken)
		out[i] = c
	}
	return out
}

func (r *Runner) writePaymentConfig(pc api.PaymentConfig) error {
	return r.emit(pc, func() {
		fmt.Fprintf(r.out, "Loja: %s\n", pc.Store)
		fmt.Fprintf(r.out, "Provedor: %s\n", orDash(pc.Provider))
		fmt.Fprintf(r.out, "Ativo: %s\n", yesNo(pc.Enabled))
		fmt.Fprintf(r.out, "Public key: %s\n", orDash(pc.PublicKey))
		fmt.Fprintf(r.out, "Access token: %s\n", orDash(pc.AccessToken))
	})
}

func (r *Runner) cmdKeepalive(ctx context.Context, args []string) error {
	if _, err := r.requireAdmin(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"status"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "status":
		st, err := r.api.KeepaliveStatus(ctx)
		if err != nil {
			return err
		}
		return r.emit(st, func() {
			fmt.Fprintf(r.out, "Keepalive ativo: %s\n", yesNo(st.Enabled))
		})
	case "enable", "disable":
		enabled := args[0] == "enable"
		if err := r.api.SetKeepalive(ctx, enabled); err != nil {
			return err
		}
		return r.done("Keepalive ativo: " + yesNo(enabled))
	default:
		return fmt.Errorf("%w: keepalive %s", errUsage, args[0])
	}
}

func (r *Runner) cmdPrinter(ctx context.Context, args []string) error {
	if _, err := r.protected(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"status"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "status":
		st := r.printer.Status(ctx)
		return r.emit(st, func() {
			if !st.Online {
				fmt.Fprintf(r.out, "Impressora offline (%s)\n", r.printer.BaseURL())
				return
			}
			fmt.Fprintf(r.out, "Impressora online: %s\n", orDash(st.Printer))
		})
	case "config":
		cfg, err := r.printer.Config(ctx)
		if err != nil {
			return err
		}
		return r.emit(cfg, func() { r.writePrinterConfig(cfg) })
	case "set":
		cfg, err := r.printer.Config(ctx)
		if err != nil {
			return err
		}
		fs := r.subFlags("printer set")
		fs.StringVar(&cfg.PrinterName, "name", cfg.PrinterName, "Printer name")
		fs.StringVar(&cfg.Host, "host", cfg.Host, "Printer host")
		fs.IntVar(&cfg.Port, "port", cfg.Port, "Printer port")
		fs.IntVar(&cfg.PaperWidth, "paper", cfg.PaperWidth, "Paper width in mm")
		fs.BoolVar(&cfg.AutoPrint, "auto", cfg.AutoPrint, "Print new orders automatically")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		saved, err := r.printer.SaveConfig(ctx, cfg)
		if err != nil {
			return err
		}
		return r.emit(saved, func() { r.writePrinterConfig(saved) })
	case "test":
		if err := r.printer.TestPrint(ctx); err != nil {
			return err
		}
		return r.done("Impressão de teste enviada.")
	default:
		return fmt.Errorf("%w: printer %s", errUsage, args[0])
	}
}

func (r *Runner) writePrinterConfig(cfg printer.Config) {
	fmt.Fprintf(r.out, "Impressora: %s\n", orDash(cfg.PrinterName))
	fmt.Fprintf(r.out, "Endereço: %s:%d\n", orDash(cfg.Host), cfg.Port)
	fmt.Fprintf(r.out, "Papel: %d mm\n", cfg.PaperWidth)
	fmt.Fprintf(r.out, "Impressão automática: %s\n", yesNo(cfg.AutoPrint))
}

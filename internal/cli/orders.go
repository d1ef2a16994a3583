package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/pdf"
	"eskimo_admin/internal/session"

	"go.uber.org/zap"
)

func (r *Runner) cmdOrders(ctx context.Context, args []string) error {
	s, err := r.protected()
	if err != nil {
		return err
	}
	if !s.AllowsOrders() {
		return fmt.Errorf("%w: orders", errForbidden)
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		return r.ordersList(ctx, s, args[1:])
	case "watch":
		return r.ordersWatch(ctx, s, args[1:])
	case "confirm":
		return r.orderAction(ctx, s, args[1:], "Pagamento confirmado.", func(ctx context.Context, id api.ID) error {
			return r.orders.ConfirmPayment(ctx, id)
		})
	case "deliver":
		return r.orderAction(ctx, s, args[1:], "Pedido marcado como entregue.", func(ctx context.Context, id api.ID) error {
			return r.orders.MarkDelivered(ctx, id)
		})
	case "cancel":
		return r.orderAction(ctx, s, args[1:], "Pedido cancelado.", func(ctx context.Context, id api.ID) error {
			return r.orders.Cancel(ctx, id, r.confirmer())
		})
	case "delete":
		return r.orderAction(ctx, s, args[1:], "Pedido excluído.", func(ctx context.Context, id api.ID) error {
			return r.orders.Delete(ctx, id, r.confirmer())
		})
	case "clear":
		return r.ordersClear(ctx, s)
	case "report":
		return r.ordersReport(ctx, s, args[1:])
	case "export":
		return r.ordersExport(ctx, s, args[1:])
	default:
		return fmt.Errorf("%w: orders %s", errUsage, args[0])
	}
}

func filterFlags(fs *flag.FlagSet, f *orders.Filter) {
	fs.StringVar(&f.Status, "status", "", "Status: pendente, pago, entregue, cancelado")
	fs.StringVar(&f.Store, "store", "", "Store: efapi, palmital, passo")
}

// scopedFilter limits operators to the stores they may see. An operator
// without order stores gets an empty, non-nil scope that matches nothing.
func scopedFilter(s session.Session, f orders.Filter) orders.Filter {
	if !s.IsAdmin() {
		f.Stores = append([]string{}, s.OrderStores()...)
	}
	return f
}

func (r *Runner) ordersList(ctx context.Context, s session.Session, args []string) error {
	var filter orders.Filter
	fs := r.subFlags("orders list")
	filterFlags(fs, &filter)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.orders.Poll(ctx); err != nil {
		return err
	}
	return r.writeOrders(scopedFilter(s, filter))
}

func (r *Runner) writeOrders(filter orders.Filter) error {
	groups := orders.GroupByDate(orders.Apply(r.orders.Orders(), filter), time.Local)
	if r.options.JSON {
		return r.writeJSON(groupsView(groups))
	}

	if len(groups) == 0 {
		fmt.Fprintln(r.out, "Nenhum pedido.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(r.out, "\n%s  (%d pedido(s), %s)\n", g.Date, len(g.Orders), money(g.Total()))
		tw := r.table("ID", "LOJA", "STATUS", "PAGAMENTO", "CLIENTE", "TOTAL")
		for _, o := range g.Orders {
			fmt.Fprintf(tw, "#%s\t%s\t%s\t%s\t%s\t%s\n",
				o.ID,
				orDash(orders.NormalizeStore(o.Store)),
				orDash(orders.NormalizeStatus(o.Status)),
				orDash(orders.NormalizePaymentMethod(o.PaymentMethod)),
				orDash(o.CustomerName),
				money(o.Total),
			)
		}
		_ = tw.Flush()
	}
	return nil
}

type dateGroupView struct {
	Date   string      `json:"date"`
	Total  string      `json:"total"`
	Orders []api.Order `json:"orders"`
}

func groupsView(groups []orders.DateGroup) []dateGroupView {
	out := make([]dateGroupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, dateGroupView{Date: g.Date, Total: g.Total().StringFixed(2), Orders: g.Orders})
	}
	return out
}

// ordersWatch keeps the view-model polling until interrupted or until the
// session stops being usable.
func (r *Runner) ordersWatch(ctx context.Context, s session.Session, args []string) error {
	var filter orders.Filter
	fs := r.subFlags("orders watch")
	filterFlags(fs, &filter)
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter = scopedFilter(s, filter)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	usable, unsubscribe := r.guard.Subscribe()
	defer unsubscribe()
	go r.guard.Run(ctx)
	go r.orders.Run(ctx)

	fmt.Fprintln(r.errOut, "Acompanhando pedidos. Ctrl+C para sair.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ok := <-usable:
			if !ok {
				r.logger.Info("session no longer usable, stopping watch")
				return session.ErrLoginRequired
			}
		case <-r.orders.Updated():
			if err := r.writeOrders(filter); err != nil {
				r.logger.Warn("render orders failed", zap.Error(err))
			}
		}
	}
}

func (r *Runner) orderAction(ctx context.Context, s session.Session, args []string, message string, action func(context.Context, api.ID) error) error {
	id, _, err := parseID(args)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if !s.IsAdmin() {
		if err := r.orders.Poll(ctx); err != nil {
			return err
		}
		o, ok := findOrder(r.orders.Orders(), id)
		if !ok {
			return fmt.Errorf("order %s: %w", id, api.ErrNotFound)
		}
		if !s.AllowsStoreOrders(orders.NormalizeStore(o.Store)) {
			return fmt.Errorf("%w: orders of %s", errForbidden, o.Store)
		}
	}

	if err := action(ctx, id); err != nil {
		return err
	}
	return r.done(message)
}

func findOrder(list []api.Order, id api.ID) (api.Order, bool) {
	for _, o := range list {
		if o.ID == id {
			return o, true
		}
	}
	return api.Order{}, false
}

func (r *Runner) ordersClear(ctx context.Context, s session.Session) error {
	if !s.IsAdmin() {
		return fmt.Errorf("%w: clear orders", errForbidden)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.orders.DeleteAll(ctx, r.confirmer()); err != nil {
		return err
	}
	return r.done("Todos os pedidos foram excluídos.")
}

func (r *Runner) ordersReport(ctx context.Context, s session.Session, args []string) error {
	var scope, from, to, dir string
	fs := r.subFlags("orders report")
	fs.StringVar(&scope, "store", orders.ScopeAll, "Store or 'all'")
	fs.StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	fs.StringVar(&dir, "dir", r.cfg.ReportDir, "Output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stores, err := orders.ReportStores(scope)
	if err != nil {
		return err
	}
	for _, store := range stores {
		if !s.AllowsStoreOrders(store) {
			return fmt.Errorf("%w: report of %s", errForbidden, store)
		}
	}

	files, err := r.orders.DownloadReports(ctx, scope, from, to, orders.DirSink{Dir: dir})
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, filepath.Join(dir, f))
	}
	if len(paths) > 0 {
		_ = r.emit(map[string][]string{"files": paths}, func() {
			for _, p := range paths {
				fmt.Fprintf(r.out, "Relatório salvo: %s\n", p)
			}
		})
	}
	return err
}

func (r *Runner) ordersExport(ctx context.Context, s session.Session, args []string) error {
	var filter orders.Filter
	var out string
	fs := r.subFlags("orders export")
	filterFlags(fs, &filter)
	fs.StringVar(&out, "out", "pedidos.pdf", "Output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter = scopedFilter(s, filter)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.orders.Poll(ctx); err != nil {
		return err
	}

	groups := orders.GroupByDate(orders.Apply(r.orders.Orders(), filter), time.Local)
	data, err := pdf.OrdersSheet(groups, pdf.SheetInfo{Filter: filter, GeneratedAt: time.Now()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write orders sheet: %w", err)
	}
	return r.done("Planilha de pedidos salva: " + out)
}

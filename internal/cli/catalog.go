package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/session"

	"github.com/shopspring/decimal"
)

// decimalFlag lets flag.FlagSet parse money values.
type decimalFlag struct {
	value *decimal.Decimal
}

func (f decimalFlag) String() string {
	if f.value == nil {
		return ""
	}
	return f.value.String()
}

func (f decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return err
	}
	*f.value = d
	return nil
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func (r *Runner) requireProducts(del bool) (session.Session, error) {
	s, err := r.protected()
	if err != nil {
		return s, err
	}
	if !s.AllowsProducts() || (del && !s.AllowsProductDelete()) {
		return s, fmt.Errorf("%w: products", errForbidden)
	}
	return s, nil
}

func (r *Runner) cmdProducts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "list":
		if _, err := r.protected(); err != nil {
			return err
		}
		list, err := r.api.ListProducts(ctx)
		if err != nil {
			return err
		}
		return r.writeProducts(list)
	case "page":
		if _, err := r.protected(); err != nil {
			return err
		}
		var page, size int
		var name string
		fs := r.subFlags("products page")
		fs.IntVar(&page, "page", 1, "Page number")
		fs.IntVar(&size, "size", 20, "Page size")
		fs.StringVar(&name, "name", "", "Name filter")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		p, err := r.api.ProductsPage(ctx, page, size, name)
		if err != nil {
			return err
		}
		if r.options.JSON {
			return r.writeJSON(p)
		}
		if err := r.writeProducts(p.Items); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Página %d (%d por página), %d produto(s) no total\n", p.Page, p.PageSize, p.Total)
		return nil
	case "create":
		if _, err := r.requireProducts(false); err != nil {
			return err
		}
		p := api.Product{Active: true}
		fs := productFlags(r.subFlags("products create"), &p)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: --name is required", errUsage)
		}
		created, err := r.api.CreateProduct(ctx, p)
		if err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Produto #%s criado.", created.ID))
	case "update":
		if _, err := r.requireProducts(false); err != nil {
			return err
		}
		id, rest, err := parseID(args[1:])
		if err != nil {
			return err
		}
		list, err := r.api.ListProducts(ctx)
		if err != nil {
			return err
		}
		current, ok := findProduct(list, id)
		if !ok {
			return fmt.Errorf("product %s: %w", id, api.ErrNotFound)
		}
		fs := productFlags(r.subFlags("products update"), &current)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if _, err := r.api.UpdateProduct(ctx, current); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Produto #%s atualizado.", id))
	case "delete":
		if _, err := r.requireProducts(true); err != nil {
			return err
		}
		id, _, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !r.confirmer().Confirm(fmt.Sprintf("Excluir o produto #%s?", id)) {
			return orders.ErrNotConfirmed
		}
		if err := r.api.DeleteProduct(ctx, id); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Produto #%s excluído.", id))
	default:
		return fmt.Errorf("%w: products %s", errUsage, args[0])
	}
}

func productFlags(fs *flag.FlagSet, p *api.Product) *flag.FlagSet {
	fs.StringVar(&p.Name, "name", p.Name, "Name")
	fs.StringVar(&p.Description, "description", p.Description, "Description")
	fs.Var(decimalFlag{&p.Price}, "price", "Price")
	fs.Func("category", "Category id", func(s string) error { p.CategoryID = api.ID(s); return nil })
	fs.Func("subcategory", "Subcategory id", func(s string) error { p.SubcategoryID = api.ID(s); return nil })
	fs.StringVar(&p.ImageURL, "image", p.ImageURL, "Image URL")
	fs.BoolVar(&p.Active, "active", p.Active, "Visible in the shop")
	return fs
}

func findProduct(list []api.Product, id api.ID) (api.Product, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return api.Product{}, false
}

func (r *Runner) writeProducts(list []api.Product) error {
	return r.emit(list, func() {
		tw := r.table("ID", "NOME", "PREÇO", "CATEGORIA", "ATIVO")
		for _, p := range list {
			fmt.Fprintf(tw, "#%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.Price), orDash(p.CategoryID.String()), yesNo(p.Active))
		}
		_ = tw.Flush()
	})
}

func (r *Runner) cmdCategories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "list":
		if _, err := r.protected(); err != nil {
			return err
		}
		list, err := r.api.ListCategories(ctx)
		if err != nil {
			return err
		}
		return r.emit(list, func() {
			tw := r.table("ID", "NOME")
			for _, c := range list {
				fmt.Fprintf(tw, "#%s\t%s\n", c.ID, c.Name)
			}
			_ = tw.Flush()
		})
	case "create", "update":
		if _, err := r.requireProducts(false); err != nil {
			return err
		}
		var cat api.Category
		rest := args[1:]
		if args[0] == "update" {
			id, more, err := parseID(rest)
			if err != nil {
				return err
			}
			cat.ID, rest = id, more
		}
		fs := r.subFlags("categories " + args[0])
		fs.StringVar(&cat.Name, "name", "", "Name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: --name is required", errUsage)
		}
		if args[0] == "create" {
			created, err := r.api.CreateCategory(ctx, cat)
			if err != nil {
				return err
			}
			return r.done(fmt.Sprintf("Categoria #%s criada.", created.ID))
		}
		if _, err := r.api.UpdateCategory(ctx, cat); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Categoria #%s atualizada.", cat.ID))
	case "delete":
		if _, err := r.requireProducts(true); err != nil {
			return err
		}
		id, _, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !r.confirmer().Confirm(fmt.Sprintf("Excluir a categoria #%s?", id)) {
			return orders.ErrNotConfirmed
		}
		if err := r.api.DeleteCategory(ctx, id); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Categoria #%s excluída.", id))
	default:
		return fmt.Errorf("%w: categories %s", errUsage, args[0])
	}
}

func (r *Runner) cmdSubcategories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "list":
		if _, err := r.protected(); err != nil {
			return err
		}
		list, err := r.api.ListSubcategories(ctx)
		if err != nil {
			return err
		}
		return r.emit(list, func() {
			tw := r.table("ID", "NOME", "CATEGORIA")
			for _, s := range list {
				fmt.Fprintf(tw, "#%s\t%s\t#%s\n", s.ID, s.Name, s.CategoryID)
			}
			_ = tw.Flush()
		})
	case "create", "update":
		if _, err := r.requireProducts(false); err != nil {
			return err
		}
		var sub api.Subcategory
		rest := args[1:]
		if args[0] == "update" {
			id, more, err := parseID(rest)
			if err != nil {
				return err
			}
			sub.ID, rest = id, more
		}
		fs := r.subFlags("subcategories " + args[0])
		fs.StringVar(&sub.Name, "name", "", "Name")
		fs.Func("category", "Category id", func(s string) error { sub.CategoryID = api.ID(s); return nil })
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if strings.TrimSpace(sub.Name) == "" || sub.CategoryID.IsZero() {
			return fmt.Errorf("%w: --name and --category are required", errUsage)
		}
		if args[0] == "create" {
			created, err := r.api.CreateSubcategory(ctx, sub)
			if err != nil {
				return err
			}
			return r.done(fmt.Sprintf("Subcategoria #%s criada.", created.ID))
		}
		if _, err := r.api.UpdateSubcategory(ctx, sub); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Subcategoria #%s atualizada.", sub.ID))
	case "delete":
		if _, err := r.requireProducts(true); err != nil {
			return err
		}
		id, _, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if !r.confirmer().Confirm(fmt.Sprintf("Excluir a subcategoria #%s?", id)) {
			return orders.ErrNotConfirmed
		}
		if err := r.api.DeleteSubcategory(ctx, id); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Subcategoria #%s excluída.", id))
	default:
		return fmt.Errorf("%w: subcategories %s", errUsage, args[0])
	}
}

func (r *Runner) cmdStock(ctx context.Context, args []string) error {
	s, err := r.protected()
	if err != nil {
		return err
	}
	if !s.AllowsStock() {
		return fmt.Errorf("%w: stock", errForbidden)
	}
	if len(args) == 0 {
		args = []string{"list"}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	switch args[0] {
	case "list":
		list, err := r.api.ListStock(ctx)
		if err != nil {
			return err
		}
		visible := make([]api.StockEntry, 0, len(list))
		for _, e := range list {
			if s.AllowsStockEdit(orders.NormalizeStore(e.Store)) {
				visible = append(visible, e)
			}
		}
		return r.emit(visible, func() {
			tw := r.table("PRODUTO", "NOME", "LOJA", "QTD")
			for _, e := range visible {
				fmt.Fprintf(tw, "#%s\t%s\t%s\t%d\n", e.ProductID, orDash(e.ProductName), orders.NormalizeStore(e.Store), e.Quantity)
			}
			_ = tw.Flush()
		})
	case "set":
		id, rest, err := parseID(args[1:])
		if err != nil {
			return err
		}
		var store string
		qty := -1
		fs := r.subFlags("stock set")
		fs.StringVar(&store, "store", s.Store, "Store (defaults to the selected store)")
		fs.IntVar(&qty, "qty", -1, "Quantity")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		store = orders.NormalizeStore(store)
		if !session.IsStoreKey(store) {
			return fmt.Errorf("%w: %q", session.ErrUnknownStore, store)
		}
		if qty < 0 {
			return fmt.Errorf("%w: --qty must be zero or more", errUsage)
		}
		if !s.AllowsStockEdit(store) {
			return fmt.Errorf("%w: stock of %s", errForbidden, store)
		}
		if err := r.api.SetStock(ctx, id, store, qty); err != nil {
			return err
		}
		return r.done(fmt.Sprintf("Estoque de #%s em %s: %d", id, store, qty))
	default:
		return fmt.Errorf("%w: stock %s", errUsage, args[0])
	}
}

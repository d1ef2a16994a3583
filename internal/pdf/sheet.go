// Package pdf renders the local orders sheet: the filtered orders view
// grouped by creation date, with per-day and grand totals.
package pdf

import (
	"fmt"
	"strings"
	"time"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 140}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// SheetInfo describes the view the sheet was taken from.
type SheetInfo struct {
	Filter      orders.Filter
	GeneratedAt time.Time
}

// OrdersSheet renders groups as an A4 PDF and returns its bytes.
func OrdersSheet(groups []orders.DateGroup, info SheetInfo) ([]byte, error) {
	if info.GeneratedAt.IsZero() {
		info.GeneratedAt = time.Now()
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedidos Eskimo", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(info))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	grand := decimal.Zero
	count := 0
	for _, g := range groups {
		m.AddRows(dateRow(g))
		m.AddRows(tableHeaderRow())
		for _, o := range g.Orders {
			m.AddRows(orderRow(o))
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
		grand = grand.Add(g.Total())
		count += len(g.Orders)
	}
	if len(groups) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Nenhum pedido para os filtros selecionados.", props.Text{Size: 9, Top: 3, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalRow(count, grand))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate orders sheet: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(info SheetInfo) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Eskimo Sorvetes", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Relatorio de pedidos", props.Text{Size: 9, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(filterLabel(info.Filter), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Gerado em "+info.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func filterLabel(f orders.Filter) string {
	status := f.Status
	if status == "" {
		status = "todos"
	}
	store := f.Store
	if store == "" {
		store = "todas"
	}
	return fmt.Sprintf("Status: %s | Loja: %s", status, store)
}

func dateRow(g orders.DateGroup) core.Row {
	label := g.Date
	if label == orders.UnknownDate {
		label = "Sem data"
	} else if d, err := time.Parse(time.DateOnly, g.Date); err == nil {
		label = d.Format("02/01/2006")
	}
	return row.New(9).Add(
		col.New(8).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3,
		})),
		col.New(4).Add(text.New(formatBRL(g.Total()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Pedido", 2, align.Left),
		h("Cliente", 4, align.Left),
		h("Loja", 2, align.Left),
		h("Status", 2, align.Left),
		h("Total", 2, align.Right),
	)
}

func orderRow(o api.Order) core.Row {
	c := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		c("#"+o.ID.String(), 2, align.Left),
		c(nonEmpty(o.CustomerName, "-"), 4, align.Left),
		c(nonEmpty(orders.NormalizeStore(o.Store), "-"), 2, align.Left),
		c(nonEmpty(orders.NormalizeStatus(o.Status), "-"), 2, align.Left),
		c(formatBRL(o.Total), 2, align.Right),
	)
}

func totalRow(count int, total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New(fmt.Sprintf("%d pedido(s)", count), props.Text{
			Size: 9, Top: 3, Color: colorGray,
		})),
		col.New(4).Add(text.New("TOTAL "+formatBRL(total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 3,
		})),
	)
}

// formatBRL formats d as "R$ 1.234,50".
func formatBRL(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

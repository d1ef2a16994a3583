package orders

import (
	"sort"
	"strings"
	"time"

	"eskimo_admin/internal/api"

	"github.com/shopspring/decimal"
)

// UnknownDate is the bucket of orders without a usable createdAt.
const UnknownDate = "unknown"

var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type Filter struct {
	Status string
	Store  string
	// Stores restricts the result to these store keys; nil means no
	// restriction.
	Stores []string
}

func (f Filter) Match(o api.Order) bool {
	if status := NormalizeStatus(f.Status); status != "" && status != "all" && NormalizeStatus(o.Status) != status {
		return false
	}
	store := NormalizeStore(o.Store)
	if want := strings.TrimSpace(f.Store); want != "" && want != "all" && NormalizeStore(want) != store {
		return false
	}
	if f.Stores != nil {
		allowed := false
		for _, s := range f.Stores {
			if s == store {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}

func Apply(list []api.Order, f Filter) []api.Order {
	out := make([]api.Order, 0, len(list))
	for _, o := range list {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

type DateGroup struct {
	Date   string
	Orders []api.Order
}

func (g DateGroup) Total() decimal.Decimal {
	total := decimal.Zero
	for _, o := range g.Orders {
		total = total.Add(o.Total)
	}
	return total
}

// CreatedDate returns the calendar date of the order in loc, or UnknownDate.
func CreatedDate(o api.Order, loc *time.Location) string {
	raw := strings.TrimSpace(o.CreatedAt)
	if raw == "" {
		return UnknownDate
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc).Format(time.DateOnly)
		}
	}
	return UnknownDate
}

// GroupByDate buckets orders by creation date, most recent date first and
// the unknown bucket last. Orders keep their relative order inside a bucket.
func GroupByDate(list []api.Order, loc *time.Location) []DateGroup {
	index := map[string]int{}
	var groups []DateGroup
	for _, o := range list {
		date := CreatedDate(o, loc)
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, DateGroup{Date: date})
		}
		groups[i].Orders = append(groups[i].Orders, o)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Date, groups[j].Date
		if a == UnknownDate || b == UnknownDate {
			return b == UnknownDate && a != UnknownDate
		}
		return a > b
	})
	return groups
}

// NewOrders returns the fetched orders whose id is not in seen.
func NewOrders(seen map[api.ID]struct{}, fetched []api.Order) []api.Order {
	var fresh []api.Order
	for _, o := range fetched {
		if _, ok := seen[o.ID]; !ok {
			fresh = append(fresh, o)
		}
	}
	return fresh
}

// PendingOnlinePayments picks, in list order, at most limit Mercado Pago
// orders still waiting for payment.
func PendingOnlinePayments(list []api.Order, limit int) []api.Order {
	var picked []api.Order
	for _, o := range list {
		if limit > 0 && len(picked) >= limit {
			break
		}
		if NormalizePaymentMethod(o.PaymentMethod) == MethodMercadoPago && NormalizeStatus(o.Status) == StatusPending {
			picked = append(picked, o)
		}
	}
	return picked
}

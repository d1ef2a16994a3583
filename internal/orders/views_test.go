package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStore(t *testing.T) {
	tests := map[string]string{
		"Passo dos Fortes": "passo",
		"EFAPI":            "efapi",
		"Palmital":         "palmital",
		"unknown":          "unknown",
		"Loja EFAPI":       "efapi",
		"  Centro ":        "centro",
		"PÁSSO":            "passo",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got := NormalizeStore(in)
			assert.Equal(t, want, got)
			assert.Equal(t, got, NormalizeStore(got), "must be idempotent")
		})
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	for _, in := range []string{"mercado_pago", "Mercado Pago", "MERCADO-PAGO", "mercadopago"} {
		assert.Equal(t, MethodMercadoPago, NormalizePaymentMethod(in), in)
	}
	assert.Equal(t, "pix", NormalizePaymentMethod(" PIX "))
}

func TestGroupByDate(t *testing.T) {
	list := []api.Order{
		{ID: "old", CreatedAt: "2025-01-01T08:00:00Z", Total: decimal.NewFromInt(10)},
		{ID: "none"},
		{ID: "new", CreatedAt: "2025-01-02T10:00:00Z", Total: decimal.NewFromInt(5)},
		{ID: "new2", CreatedAt: "2025-01-02T23:00:00Z", Total: decimal.RequireFromString("2.5")},
		{ID: "bad", CreatedAt: "yesterday"},
	}

	groups := GroupByDate(list, time.UTC)

	require.Len(t, groups, 3)
	assert.Equal(t, "2025-01-02", groups[0].Date)
	assert.Equal(t, "2025-01-01", groups[1].Date)
	assert.Equal(t, UnknownDate, groups[2].Date)

	assert.Equal(t, []api.ID{"new", "new2"}, ids(groups[0].Orders))
	assert.Equal(t, []api.ID{"none", "bad"}, ids(groups[2].Orders))
	assert.True(t, groups[0].Total().Equal(decimal.RequireFromString("7.5")))
}

func TestGroupByDate_UsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	groups := GroupByDate([]api.Order{{ID: "1", CreatedAt: "2025-01-02T01:00:00Z"}}, loc)
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-01-01", groups[0].Date)
}

func TestFilter(t *testing.T) {
	list := []api.Order{
		{ID: "1", Status: "pendente", Store: "Passo dos Fortes"},
		{ID: "2", Status: "Pago", Store: "EFAPI"},
		{ID: "3", Status: "pago", Store: "Palmital"},
		{ID: "4", Status: "cancelado", Store: "efapi"},
	}

	assert.Equal(t, []api.ID{"2", "3"}, ids(Apply(list, Filter{Status: "pago"})))
	assert.Equal(t, []api.ID{"2", "4"}, ids(Apply(list, Filter{Store: "efapi"})))
	assert.Equal(t, []api.ID{"2"}, ids(Apply(list, Filter{Status: "pago", Store: "EFAPI"})))
	assert.Len(t, Apply(list, Filter{Status: "all", Store: "all"}), 4)
	assert.Equal(t, []api.ID{"1", "3"}, ids(Apply(list, Filter{Stores: []string{session.StorePasso, session.StorePalmital}})))
	assert.Empty(t, Apply(list, Filter{Stores: []string{}}))
}

func TestReportStores(t *testing.T) {
	stores, err := ReportStores("")
	require.NoError(t, err)
	assert.Equal(t, session.StoreKeys, stores)

	stores, err = ReportStores("Passo dos Fortes")
	require.NoError(t, err)
	assert.Equal(t, []string{"passo"}, stores)

	_, err = ReportStores("centro")
	assert.ErrorIs(t, err, session.ErrUnknownStore)
}

func TestDownloadReports_SequentialPerStore(t *testing.T) {
	backend := &fakeBackend{
		reports: map[string][]byte{
			"efapi":    []byte("A"),
			"palmital": []byte("B"),
			"passo":    []byte("C"),
		},
		reportErr: map[string]error{"palmital": errors.New("502")},
	}
	vm, notifier := newTestViewModel(backend)
	sink := memorySink{}

	saved, err := vm.DownloadReports(context.Background(), ScopeAll, "2025-01-01", "2025-01-31", sink)

	require.Error(t, err)
	assert.Equal(t, []string{"efapi|2025-01-01|2025-01-31", "palmital|2025-01-01|2025-01-31", "passo|2025-01-01|2025-01-31"}, backend.reportLog)
	assert.Equal(t, []string{
		"relatorio-efapi-de-2025-01-01-ate-2025-01-31.pdf",
		"relatorio-passo-de-2025-01-01-ate-2025-01-31.pdf",
	}, saved)
	assert.Equal(t, []byte("C"), sink["relatorio-passo-de-2025-01-01-ate-2025-01-31.pdf"])
	require.Len(t, notifier.notes, 1)
	assert.Equal(t, LevelError, notifier.notes[0].Level)
}

func TestDownloadReports_SingleStoreNoRange(t *testing.T) {
	backend := &fakeBackend{reports: map[string][]byte{"efapi": []byte("pdf")}}
	vm, _ := newTestViewModel(backend)
	sink := memorySink{}

	saved, err := vm.DownloadReports(context.Background(), "efapi", "", "", sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"relatorio-efapi.pdf"}, saved)
	assert.Equal(t, []string{"efapi||"}, backend.reportLog)
}

func TestDownloadReports_InvalidRange(t *testing.T) {
	backend := &fakeBackend{}
	vm, _ := newTestViewModel(backend)

	_, err := vm.DownloadReports(context.Background(), ScopeAll, "2025-02-01", "2025-01-01", memorySink{})
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = vm.DownloadReports(context.Background(), ScopeAll, "01/02/2025", "", memorySink{})
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Empty(t, backend.reportLog)
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, DirSink{Dir: dir}.Save("r.pdf", []byte("x")))
	assert.FileExists(t, dir+"/r.pdf")
}

func ids(list []api.Order) []api.ID {
	out := make([]api.ID, 0, len(list))
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}

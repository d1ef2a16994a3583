package orders

import (
	"context"
	"errors"
	"sync"

	"eskimo_admin/internal/api"
)

type fakeBackend struct {
	mu        sync.Mutex
	orders    []api.Order
	listErr   error
	lists     int
	statuses  map[api.ID]api.PaymentStatus
	statusErr map[api.ID]error
	checked   []api.ID
	calls     []string
	callErr   error
	reports   map[string][]byte
	reportErr map[string]error
	reportLog []string
}

func (f *fakeBackend) ListOrders(context.Context) ([]api.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.Order(nil), f.orders...), nil
}

func (f *fakeBackend) setOrders(list []api.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = list
}

func (f *fakeBackend) PaymentStatus(_ context.Context, id api.ID) (api.PaymentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, id)
	if err := f.statusErr[id]; err != nil {
		return api.PaymentStatus{}, err
	}
	return f.statuses[id], nil
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.callErr
}

func (f *fakeBackend) ConfirmOrder(_ context.Context, id api.ID) error {
	return f.record("confirm " + id.String())
}

func (f *fakeBackend) DeliverOrder(_ context.Context, id api.ID) error {
	return f.record("deliver " + id.String())
}

func (f *fakeBackend) CancelOrder(_ context.Context, id api.ID) error {
	return f.record("cancel " + id.String())
}

func (f *fakeBackend) DeleteOrder(_ context.Context, id api.ID) error {
	return f.record("delete " + id.String())
}

func (f *fakeBackend) ClearOrders(context.Context) error {
	return f.record("clear")
}

func (f *fakeBackend) StoreReport(_ context.Context, store, from, to string) (api.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportLog = append(f.reportLog, store+"|"+from+"|"+to)
	if err := f.reportErr[store]; err != nil {
		return api.Report{}, err
	}
	return api.Report{Store: store, Data: f.reports[store]}, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) infos() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.notes {
		if n.Level == LevelInfo {
			out = append(out, n)
		}
	}
	return out
}

type answer bool

func (a answer) Confirm(string) bool { return bool(a) }

type memorySink map[string][]byte

func (m memorySink) Save(name string, data []byte) error {
	if name == "" {
		return errors.New("empty name")
	}
	m[name] = data
	return nil
}

func order(id, status, method string) api.Order {
	return api.Order{ID: api.ID(id), Status: status, PaymentMethod: method, Store: "EFAPI"}
}

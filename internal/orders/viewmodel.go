package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/config"

	"go.uber.org/zap"
)

const (
	defaultPollInterval   = 10 * time.Second
	defaultReconcileLimit = 5
)

var ErrNotConfirmed = errors.New("action not confirmed")

type Backend interface {
	ListOrders(ctx context.Context) ([]api.Order, error)
	PaymentStatus(ctx context.Context, orderID api.ID) (api.PaymentStatus, error)
	ConfirmOrder(ctx context.Context, id api.ID) error
	DeliverOrder(ctx context.Context, id api.ID) error
	CancelOrder(ctx context.Context, id api.ID) error
	DeleteOrder(ctx context.Context, id api.ID) error
	ClearOrders(ctx context.Context) error
	StoreReport(ctx context.Context, store, from, to string) (api.Report, error)
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a transient message for the operator.
type Notification struct {
	Level   Level
	Message string
	Orders  []api.ID
}

type Notifier interface {
	Notify(n Notification)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

// ViewModel keeps a live copy of the backend orders, announces new ones and
// reconciles pending Mercado Pago payments.
type ViewModel struct {
	backend        Backend
	notifier       Notifier
	interval       time.Duration
	reconcileLimit int
	logger         *zap.Logger

	mu      sync.RWMutex
	seen    map[api.ID]struct{}
	orders  []api.Order
	updated chan struct{}
}

func NewViewModel(cfg config.Config, backend *api.Client, notifier Notifier, logger *zap.Logger) *ViewModel {
	return New(backend, notifier, cfg.PollInterval, cfg.ReconcileLimit, logger)
}

func New(backend Backend, notifier Notifier, interval time.Duration, reconcileLimit int, logger *zap.Logger) *ViewModel {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if reconcileLimit <= 0 {
		reconcileLimit = defaultReconcileLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		backend:        backend,
		notifier:       notifier,
		interval:       interval,
		reconcileLimit: reconcileLimit,
		logger:         logger.Named("orders"),
		seen:           map[api.ID]struct{}{},
		updated:        make(chan struct{}, 1),
	}
}

// Orders returns a copy of the visible list.
func (vm *ViewModel) Orders() []api.Order {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]api.Order, len(vm.orders))
	copy(out, vm.orders)
	return out
}

// Updated signals after every completed cycle.
func (vm *ViewModel) Updated() <-chan struct{} {
	return vm.updated
}

// Run polls once immediately and then on every tick until ctx is done.
func (vm *ViewModel) Run(ctx context.Context) {
	_ = vm.Poll(ctx)

	ticker := time.NewTicker(vm.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = vm.Poll(ctx)
		}
	}
}

// Poll runs one cycle: fetch, diff against the seen ids, replace the list,
// reconcile pending online payments.
func (vm *ViewModel) Poll(ctx context.Context) error {
	fetched, err := vm.backend.ListOrders(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		vm.notify(LevelError, "Não foi possível carregar os pedidos.", nil)
		return fmt.Errorf("poll orders: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	vm.mu.Lock()
	firstLoad := len(vm.seen) == 0
	fresh := NewOrders(vm.seen, fetched)
	for _, o := range fetched {
		vm.seen[o.ID] = struct{}{}
	}
	vm.orders = append([]api.Order(nil), fetched...)
	vm.mu.Unlock()

	if !firstLoad && len(fresh) > 0 {
		ids := make([]api.ID, 0, len(fresh))
		for _, o := range fresh {
			ids = append(ids, o.ID)
		}
		vm.notify(LevelInfo, fmt.Sprintf("%d novo(s) pedido(s)", len(fresh)), ids)
	}
	vm.logger.Debug("orders polled", zap.Int("count", len(fetched)), zap.Int("new", len(fresh)))

	vm.reconcile(ctx, fetched)

	select {
	case vm.updated <- struct{}{}:
	default:
	}
	return nil
}

func (vm *ViewModel) ConfirmPayment(ctx context.Context, id api.ID) error {
	return vm.mutate(ctx, "", nil, func(ctx context.Context) error {
		return vm.backend.ConfirmOrder(ctx, id)
	})
}

func (vm *ViewModel) MarkDelivered(ctx context.Context, id api.ID) error {
	return vm.mutate(ctx, "", nil, func(ctx context.Context) error {
		return vm.backend.DeliverOrder(ctx, id)
	})
}

// Cancel cancels the order after confirmation. Stock is restored by the
// backend.
func (vm *ViewModel) Cancel(ctx context.Context, id api.ID, confirm Confirmer) error {
	prompt := fmt.Sprintf("Cancelar o pedido #%s? Os itens voltam para o estoque.", id)
	return vm.mutate(ctx, prompt, confirm, func(ctx context.Context) error {
		return vm.backend.CancelOrder(ctx, id)
	})
}

func (vm *ViewModel) Delete(ctx context.Context, id api.ID, confirm Confirmer) error {
	prompt := fmt.Sprintf("Excluir o pedido #%s?", id)
	return vm.mutate(ctx, prompt, confirm, func(ctx context.Context) error {
		return vm.backend.DeleteOrder(ctx, id)
	})
}

func (vm *ViewModel) DeleteAll(ctx context.Context, confirm Confirmer) error {
	return vm.mutate(ctx, "Excluir TODOS os pedidos?", confirm, vm.backend.ClearOrders)
}

// mutate sends one request and then always re-fetches the full list.
func (vm *ViewModel) mutate(ctx context.Context, prompt string, confirm Confirmer, call func(context.Context) error) error {
	if prompt != "" && (confirm == nil || !confirm.Confirm(prompt)) {
		return ErrNotConfirmed
	}

	callErr := call(ctx)
	if callErr != nil {
		vm.notify(LevelError, "A operação no pedido falhou.", nil)
	}
	pollErr := vm.Poll(ctx)
	if callErr != nil {
		return fmt.Errorf("order action: %w", callErr)
	}
	return pollErr
}

func (vm *ViewModel) notify(level Level, message string, ids []api.ID) {
	if vm.notifier == nil {
		return
	}
	vm.notifier.Notify(Notification{Level: level, Message: message, Orders: ids})
}

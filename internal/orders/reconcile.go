package orders

import (
	"context"

	"eskimo_admin/internal/api"

	"github.com/alitto/pond"
	"go.uber.org/zap"
)

type paymentUpdate struct {
	id     api.ID
	status string
}

// reconcile asks the payment-status endpoint about a bounded set of pending
// Mercado Pago orders and patches the local status of the paid ones. A
// failed check only affects its own order.
func (vm *ViewModel) reconcile(ctx context.Context, list []api.Order) int {
	pending := PendingOnlinePayments(list, vm.reconcileLimit)
	if len(pending) == 0 {
		return 0
	}

	updates := make([]*paymentUpdate, len(pending))
	pool := pond.New(len(pending), len(pending))
	for i, o := range pending {
		i, id := i, o.ID
		pool.Submit(func() {
			status, err := vm.backend.PaymentStatus(ctx, id)
			if err != nil {
				vm.logger.Debug("payment status check failed", zap.String("order_id", id.String()), zap.Error(err))
				return
			}
			if next, ok := reconciledStatus(status); ok {
				updates[i] = &paymentUpdate{id: id, status: next}
			}
		})
	}
	pool.StopAndWait()

	if ctx.Err() != nil {
		return 0
	}

	vm.mu.Lock()
	applied := 0
	for _, u := range updates {
		if u == nil {
			continue
		}
		for j := range vm.orders {
			if vm.orders[j].ID == u.id {
				vm.orders[j].Status = u.status
				applied++
				break
			}
		}
	}
	vm.mu.Unlock()

	if applied > 0 {
		vm.logger.Info("payments reconciled", zap.Int("checked", len(pending)), zap.Int("updated", applied))
	}
	return applied
}

// reconciledStatus decides whether a payment-status response moves the
// order, and to which status.
func reconciledStatus(status api.PaymentStatus) (string, bool) {
	reported := NormalizeStatus(status.Status)
	if !status.Synced && reported != StatusPaid && reported != "approved" {
		return "", false
	}
	if IsStatus(reported) {
		return reported, true
	}
	return StatusPaid, true
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.doGet(ctx, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ConfirmOrder(ctx context.Context, id ID) error {
	return c.transitionOrder(ctx, id, "confirm")
}

func (c *Client) DeliverOrder(ctx context.Context, id ID) error {
	return c.transitionOrder(ctx, id, "deliver")
}

// CancelOrder cancels an order; the backend puts the items back in stock.
func (c *Client) CancelOrder(ctx context.Context, id ID) error {
	return c.transitionOrder(ctx, id, "cancel")
}

func (c *Client) transitionOrder(ctx context.Context, id ID, action string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%s/%s", url.PathEscape(id.String()), action), nil, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id.String()), nil, nil)
}

func (c *Client) ClearOrders(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/orders/clear", nil, nil)
}

func (c *Client) PaymentStatus(ctx context.Context, orderID ID) (PaymentStatus, error) {
	if err := requireID(orderID); err != nil {
		return PaymentStatus{}, err
	}
	var status PaymentStatus
	if err := c.doGet(ctx, "/payments/mp/status/"+url.PathEscape(orderID.String()), nil, &status); err != nil {
		return PaymentStatus{}, err
	}
	return status, nil
}

// StoreReport downloads the binary report of one store. The backend only
// counts paid and delivered orders. Empty from/to are left out of the query.
func (c *Client) StoreReport(ctx context.Context, store, from, to string) (Report, error) {
	store = strings.TrimSpace(store)
	if store == "" {
		return Report{}, fmt.Errorf("report: %w", ErrMissingID)
	}

	req := c.http.R().SetContext(ctx).SetHeader("Accept", "application/pdf")
	if from = strings.TrimSpace(from); from != "" {
		req.SetQueryParam("from", from)
	}
	if to = strings.TrimSpace(to); to != "" {
		req.SetQueryParam("to", to)
	}

	resp, err := req.Get("/reports/" + url.PathEscape(store))
	if err != nil {
		return Report{}, fmt.Errorf("backend request: %w", err)
	}
	if resp.IsError() {
		return Report{}, apiErrorFromResponse(resp)
	}

	return Report{
		Store:       store,
		ContentType: resp.Header().Get("Content-Type"),
		Data:        resp.Body(),
	}, nil
}

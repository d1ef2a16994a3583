package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/orders"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"
)

var (
	ErrMissingAccessToken  = errors.New("mercado pago access token is required")
	ErrUnsupportedProvider = errors.New("payment provider cannot be verified")
)

type searcher interface {
	Search(ctx context.Context, request payment.SearchRequest) (*payment.SearchResponse, error)
}

type searcherFactory func(accessToken string) (searcher, error)

// Verifier checks that a store's stored Mercado Pago credentials are
// accepted by Mercado Pago.
type Verifier struct {
	newSearcher searcherFactory
	logger      *zap.Logger
}

func NewVerifier(logger *zap.Logger) *Verifier {
	return newVerifier(sdkSearcher, logger)
}

func newVerifier(factory searcherFactory, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{newSearcher: factory, logger: logger.Named("payments")}
}

func sdkSearcher(accessToken string) (searcher, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, err
	}
	return payment.NewClient(cfg), nil
}

type Result struct {
	Store    string `json:"store"`
	Provider string `json:"provider"`
	Valid    bool   `json:"valid"`
	Message  string `json:"message,omitempty"`
}

// Verify runs a minimal payment search with the config's access token.
// Rejected credentials give a Result with Valid false and no error.
func (v *Verifier) Verify(ctx context.Context, pc api.PaymentConfig) (Result, error) {
	res := Result{Store: pc.Store, Provider: pc.Provider}
	provider := orders.NormalizePaymentMethod(pc.Provider)
	if provider != "" && provider != orders.MethodMercadoPago {
		return res, fmt.Errorf("%w: %s", ErrUnsupportedProvider, pc.Provider)
	}
	token := strings.TrimSpace(pc.AccessToken)
	if token == "" {
		return res, ErrMissingAccessToken
	}

	client, err := v.newSearcher(token)
	if err != nil {
		return res, fmt.Errorf("mercado pago config: %w", err)
	}
	if _, err := client.Search(ctx, payment.SearchRequest{Limit: 1}); err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		v.logger.Info("mercado pago credentials rejected",
			zap.String("store", pc.Store),
			zap.Error(err),
		)
		res.Message = err.Error()
		return res, nil
	}

	res.Valid = true
	return res, nil
}

package payments

import (
	"context"
	"errors"
	"testing"

	"eskimo_admin/internal/api"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	err   error
	calls int
	limit int
}

func (f *fakeSearcher) Search(_ context.Context, req payment.SearchRequest) (*payment.SearchResponse, error) {
	f.calls++
	f.limit = req.Limit
	if f.err != nil {
		return nil, f.err
	}
	return &payment.SearchResponse{}, nil
}

func verifierWith(s *fakeSearcher, tokens *[]string) *Verifier {
	return newVerifier(func(token string) (searcher, error) {
		if tokens != nil {
			*tokens = append(*tokens, token)
		}
		return s, nil
	}, nil)
}

func TestVerify_Valid(t *testing.T) {
	s := &fakeSearcher{}
	var tokens []string
	res, err := verifierWith(s, &tokens).Verify(context.Background(), api.PaymentConfig{
		Store:       "efapi",
		Provider:    "Mercado Pago",
		AccessToken: " APP_USR-123 ",
	})

	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, []string{"APP_USR-123"}, tokens)
	assert.Equal(t, 1, s.limit)
}

func TestVerify_Rejected(t *testing.T) {
	s := &fakeSearcher{err: errors.New("invalid access token")}
	res, err := verifierWith(s, nil).Verify(context.Background(), api.PaymentConfig{
		Store:       "passo",
		AccessToken: "bad",
	})

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "invalid access token")
}

func TestVerify_MissingToken(t *testing.T) {
	s := &fakeSearcher{}
	_, err := verifierWith(s, nil).Verify(context.Background(), api.PaymentConfig{Provider: "mercadopago"})

	assert.ErrorIs(t, err, ErrMissingAccessToken)
	assert.Zero(t, s.calls)
}

func TestVerify_UnsupportedProvider(t *testing.T) {
	s := &fakeSearcher{}
	_, err := verifierWith(s, nil).Verify(context.Background(), api.PaymentConfig{Provider: "pix", AccessToken: "x"})

	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Zero(t, s.calls)
}

func TestVerify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &fakeSearcher{err: context.Canceled}

	_, err := verifierWith(s, nil).Verify(ctx, api.PaymentConfig{AccessToken: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

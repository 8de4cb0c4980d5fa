package payment

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

type orderingNop struct{}

func (orderingNop) SaveDeliveryInfo(ctx context.Context, token, idempotencyKey string, info DeliveryInfoPayload) error {
	return nil
}

func (orderingNop) AddCartItem(ctx context.Context, token, idempotencyKey string, item addToCartRequest) error {
	return nil
}

func (orderingNop) FinalizeOrder(ctx context.Context, token, idempotencyKey, username string) error {
	return nil
}

type checkoutStub struct {
	gotParams CheckoutSessionParams
	session   *CheckoutSession
	err       error
}

func (s *checkoutStub) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	s.gotParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func newCheckoutService(t *testing.T, provider CheckoutProvider) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "payment-test", Output: io.Discard})
	svc, err := NewService(orderingNop{}, provider, nil, logg)
	require.NoError(t, err)
	return svc
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		Amount:          decimal.NewFromFloat(410.50),
		Description:     "2x Burger, 1x Fries",
		ReferenceNumber: "ORD-42",
		RedirectURL:     "https://store.example/thanks",
	}
}

func TestCreateCheckoutConvertsAmountAndRedirect(t *testing.T) {
	stub := &checkoutStub{session: &CheckoutSession{CheckoutURL: "https://squareup.example/pay/abc"}}
	svc := newCheckoutService(t, stub)

	url, err := svc.CreateCheckout(context.Background(), checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, "https://squareup.example/pay/abc", url)

	assert.Equal(t, checkoutLineName, stub.gotParams.Name)
	assert.Equal(t, int64(41050), stub.gotParams.AmountCents)
	assert.Equal(t, "ORD-42", stub.gotParams.Reference)
	assert.Equal(t, "https://store.example/thanks?status=success", stub.gotParams.SuccessURL)
}

func TestCreateCheckoutValidation(t *testing.T) {
	svc := newCheckoutService(t, &checkoutStub{})

	cases := []CheckoutInput{
		{Description: "d", ReferenceNumber: "r", RedirectURL: "u"},
		{Amount: decimal.NewFromInt(-5), Description: "d", ReferenceNumber: "r", RedirectURL: "u"},
		{Amount: decimal.NewFromInt(100), ReferenceNumber: "r", RedirectURL: "u"},
		{Amount: decimal.NewFromInt(100), Description: "d", RedirectURL: "u"},
		{Amount: decimal.NewFromInt(100), Description: "d", ReferenceNumber: "r"},
	}
	for i, input := range cases {
		_, err := svc.CreateCheckout(context.Background(), input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "case %d", i)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), "case %d", i)
	}
}

func TestCreateCheckoutWithoutProvider(t *testing.T) {
	svc := newCheckoutService(t, nil)

	_, err := svc.CreateCheckout(context.Background(), checkoutInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestCreateCheckoutSurfacesProcessorVerdict(t *testing.T) {
	stub := &checkoutStub{err: pkgerrors.NewUpstream(http.StatusBadRequest, "square create payment link failed")}
	svc := newCheckoutService(t, stub)

	_, err := svc.CreateCheckout(context.Background(), checkoutInput())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	assert.Equal(t, http.StatusBadRequest, typed.HTTPStatus())
}

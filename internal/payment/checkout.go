package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jpvillanueva/oos-backend/pkg/square"
)

// checkoutLineName labels the single line item on the hosted checkout page.
const checkoutLineName = "OOS Order"

// CheckoutInput is the storefront's request for a hosted checkout session.
type CheckoutInput struct {
	Amount          decimal.Decimal
	Description     string
	ReferenceNumber string
	RedirectURL     string
}

// CheckoutSessionParams is what the provider needs to open a session.
type CheckoutSessionParams struct {
	Name        string
	AmountCents int64
	Description string
	Reference   string
	SuccessURL  string
}

// CheckoutSession is the opened session the buyer gets redirected into.
type CheckoutSession struct {
	CheckoutURL string
}

// CheckoutProvider is the subset of the payment processor this service uses.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

// NewSquareCheckout adapts the shared Square client into a CheckoutProvider.
func NewSquareCheckout(client *square.Client) (CheckoutProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("square client is required")
	}
	return &squareCheckout{client: client}, nil
}

type squareCheckout struct {
	client *square.Client
}

func (s *squareCheckout) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	link, err := s.client.CreatePaymentLink(ctx, square.PaymentLinkParams{
		Name:            params.Name,
		AmountCents:     params.AmountCents,
		Description:     params.Description,
		ReferenceNumber: params.Reference,
		RedirectURL:     params.SuccessURL,
	})
	if err != nil {
		return nil, err
	}
	url := ""
	if u := link.GetURL(); u != nil {
		url = *u
	}
	return &CheckoutSession{CheckoutURL: strings.TrimSpace(url)}, nil
}

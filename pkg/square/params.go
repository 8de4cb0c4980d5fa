package square

import (
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// PaymentLinkParams holds the fields for a single-line hosted checkout.
type PaymentLinkParams struct {
	Name            string
	AmountCents     int64
	Description     string
	ReferenceNumber string
	RedirectURL     string
	IdempotencyKey  string
}

func (p PaymentLinkParams) toSquareRequest(idempotencyKey, locationID, currency string) *sqcheckout.CreatePaymentLinkRequest {
	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		QuickPay: &sq.QuickPay{
			Name:       p.Name,
			LocationID: locationID,
			PriceMoney: moneyPtr(p.AmountCents, currency),
		},
	}
	if trimmed := strings.TrimSpace(p.Description); trimmed != "" {
		req.Description = ptrString(trimmed)
	}
	if trimmed := strings.TrimSpace(p.ReferenceNumber); trimmed != "" {
		req.PaymentNote = ptrString(trimmed)
	}
	if trimmed := strings.TrimSpace(p.RedirectURL); trimmed != "" {
		req.CheckoutOptions = &sq.CheckoutOptions{
			RedirectURL: ptrString(trimmed),
		}
	}
	return req
}

func moneyPtr(amount int64, currency string) *sq.Money {
	cur := sq.Currency(currency)
	return &sq.Money{
		Amount:   ptrInt64(amount),
		Currency: &cur,
	}
}

func ptrString(s string) *string {
	return &s
}

func ptrInt64(v int64) *int64 {
	return &v
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jpvillanueva/oos-backend/api/middleware"
	"github.com/jpvillanueva/oos-backend/api/responses"
	"github.com/jpvillanueva/oos-backend/api/validators"
	paymentsvc "github.com/jpvillanueva/oos-backend/internal/payment"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

type confirmCartItem struct {
	ProductID       *int64          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name" validate:"required"`
	ProductType     string          `json:"product_type"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
}

// confirmPaymentRequest matches the storefront checkout payload. The totals
// are display figures computed client-side; the ordering service keeps its
// own columns and never reads them.
type confirmPaymentRequest struct {
	Username      string                          `json:"username" validate:"required"`
	OrderType     string                          `json:"order_type" validate:"required"`
	PaymentMethod string                          `json:"payment_method"`
	Subtotal      decimal.Decimal                 `json:"subtotal"`
	DeliveryFee   decimal.Decimal                 `json:"delivery_fee"`
	Total         decimal.Decimal                 `json:"total"`
	Notes         string                          `json:"notes"`
	CartItems     []confirmCartItem               `json:"cart_items" validate:"dive"`
	DeliveryInfo  *paymentsvc.DeliveryInfoPayload `json:"delivery_info,omitempty"`
}

// PaymentConfirm runs the checkout saga. The caller's bearer token is
// forwarded to the ordering service, and the Idempotency-Key header (when
// present) makes the whole saga safe to retry.
func PaymentConfirm(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]paymentsvc.CartItemPayload, len(payload.CartItems))
		for i, item := range payload.CartItems {
			items[i] = paymentsvc.CartItemPayload{
				ProductID:       item.ProductID,
				ProductName:     item.ProductName,
				ProductType:     item.ProductType,
				ProductCategory: item.ProductCategory,
				Quantity:        item.Quantity,
				Price:           item.Price,
			}
		}

		token := middleware.TokenFromContext(r.Context())
		idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

		err := svc.ConfirmPayment(r.Context(), token, idempotencyKey, paymentsvc.ConfirmPaymentInput{
			Username:      payload.Username,
			OrderType:     payload.OrderType,
			PaymentMethod: payload.PaymentMethod,
			Subtotal:      payload.Subtotal,
			DeliveryFee:   payload.DeliveryFee,
			Total:         payload.Total,
			Notes:         payload.Notes,
			CartItems:     items,
			DeliveryInfo:  payload.DeliveryInfo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"message": "Payment confirmed and order placed successfully",
		})
	}
}

type createCheckoutRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description" validate:"required"`
	ReferenceNumber string          `json:"reference_number" validate:"required"`
	RedirectURL     string          `json:"redirect_url" validate:"required"`
}

// CheckoutCreate opens a hosted checkout session with the payment processor
// and returns the URL the storefront redirects the buyer to.
func CheckoutCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload createCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkoutURL, err := svc.CreateCheckout(r.Context(), paymentsvc.CheckoutInput{
			Amount:          payload.Amount,
			Description:     payload.Description,
			ReferenceNumber: payload.ReferenceNumber,
			RedirectURL:     payload.RedirectURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"checkout_url": checkoutURL,
		})
	}
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jpvillanueva/oos-backend/api/responses"
	"github.com/jpvillanueva/oos-backend/api/validators"
	cartsvc "github.com/jpvillanueva/oos-backend/internal/cart"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

type addToCartRequest struct {
	Username string `json:"username" validate:"required"`
	// ProductID arrives from the storefront and the payment orchestrator;
	// order lines key on the product tuple and no column stores it.
	ProductID       *int64          `json:"product_id,omitempty"`
	ProductName     string          `json:"product_name" validate:"required"`
	ProductType     string          `json:"product_type"`
	ProductCategory string          `json:"product_category"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
	OrderType       string          `json:"order_type" validate:"required"`
	PaymentMethod   string          `json:"payment_method"`
}

// CartAdd adds or merges a line into the caller's open order, opening one when
// none exists.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := svc.AddItem(r.Context(), cartsvc.AddItemInput{
			Username:        payload.Username,
			ProductName:     payload.ProductName,
			ProductType:     payload.ProductType,
			ProductCategory: payload.ProductCategory,
			Quantity:        payload.Quantity,
			Price:           payload.Price,
			OrderType:       payload.OrderType,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"message":  "Item added to cart",
			"order_id": orderID,
		})
	}
}

// CartGet lists the open order's lines; an empty cart is a 200 with an empty
// list.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		username := chi.URLParam(r, "username")
		lines, err := svc.GetCart(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lines)
	}
}

// CartUpdateQuantity overwrites a line's quantity from the new_quantity query
// parameter.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		orderItemID, err := validators.ParsePathInt64(r, "orderItemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw, err := validators.RequireQueryString(r, "new_quantity")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "new_quantity must be numeric"))
			return
		}

		// The quantity floor itself lives in the service.
		if err := svc.UpdateQuantity(r.Context(), orderItemID, quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Cart item quantity updated"})
	}
}

// CartRemove deletes a line; an absent id succeeds.
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		orderItemID, err := validators.ParsePathInt64(r, "orderItemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), orderItemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Cart item removed"})
	}
}

// CartFinalize closes the caller's open order; 404 means nothing was open.
func CartFinalize(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		username, err := validators.RequireQueryString(r, "username")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := svc.Finalize(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"message":  "Order finalized successfully",
			"order_id": orderID,
		})
	}
}

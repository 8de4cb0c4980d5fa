package controllers

import (
	"net/http"

	"github.com/jpvillanueva/oos-backend/api/responses"
	"github.com/jpvillanueva/oos-backend/api/validators"
	deliverysvc "github.com/jpvillanueva/oos-backend/internal/delivery"
	pkgerrors "github.com/jpvillanueva/oos-backend/pkg/errors"
	"github.com/jpvillanueva/oos-backend/pkg/logger"
)

type deliveryInfoRequest struct {
	OrderID      *int64  `json:"order_id,omitempty"`
	FirstName    string  `json:"first_name" validate:"required"`
	MiddleName   *string `json:"middle_name,omitempty"`
	LastName     string  `json:"last_name" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	City         string  `json:"city" validate:"required"`
	Province     string  `json:"province" validate:"required"`
	Landmark     *string `json:"landmark,omitempty"`
	EmailAddress *string `json:"email_address,omitempty" validate:"omitempty,email"`
	PhoneNumber  string  `json:"phone_number" validate:"required"`
	Notes        *string `json:"notes,omitempty"`
}

// DeliveryInfoCreate persists a delivery contact snapshot.
func DeliveryInfoCreate(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		var payload deliveryInfoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.Save(r.Context(), deliverysvc.SaveInput{
			OrderID:      payload.OrderID,
			FirstName:    payload.FirstName,
			MiddleName:   payload.MiddleName,
			LastName:     payload.LastName,
			Address:      payload.Address,
			City:         payload.City,
			Province:     payload.Province,
			Landmark:     payload.Landmark,
			EmailAddress: payload.EmailAddress,
			PhoneNumber:  payload.PhoneNumber,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"message":          "Delivery info saved",
			"delivery_info_id": info.ID,
		})
	}
}

// DeliveryInfoFetch returns the contact record captured for an order.
func DeliveryInfoFetch(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		orderID, err := validators.ParsePathInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.GetByOrderID(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

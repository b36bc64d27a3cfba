package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glambook/glambook-backend/api/responses"
	"github.com/glambook/glambook-backend/api/validators"
	"github.com/glambook/glambook-backend/internal/bookings"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/glambook/glambook-backend/pkg/logger"
)

type bookStockItemRequest struct {
	PartnerID       uuid.UUID `json:"partnerId" validate:"required"`
	StockItemID     uuid.UUID `json:"itemId" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty"`
	PaymentMode     string    `json:"paymentMode" validate:"required,oneof=wallet cash razorpay cashfree"`
	GatewayRef      *string   `json:"paymentGatewayId,omitempty"`
}

// BookStockItem books a single stock item without a cart.
func BookStockItem(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		var req bookStockItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParsePaymentMode(req.PaymentMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode"))
			return
		}

		ctx := logg.WithPartnerID(r.Context(), req.PartnerID.String())
		booking, err := svc.CreateDirectBooking(ctx, bookings.DirectBookingInput{
			PartnerID:       req.PartnerID,
			StockItemID:     req.StockItemID,
			Quantity:        req.Quantity,
			PaymentMode:     mode,
			GatewayRef:      req.GatewayRef,
			DeliveryAddress: req.DeliveryAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newBookingResponse(booking))
	}
}

// ListBookings returns the partner's bookings, newest first.
func ListBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		partnerID, err := uuid.Parse(chi.URLParam(r, "partnerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid partner id"))
			return
		}

		rows, err := svc.List(r.Context(), partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]BookingResponse, 0, len(rows))
		for i := range rows {
			items = append(items, newBookingResponse(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

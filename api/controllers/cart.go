package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glambook/glambook-backend/api/responses"
	"github.com/glambook/glambook-backend/api/validators"
	"github.com/glambook/glambook-backend/internal/cart"
	"github.com/glambook/glambook-backend/internal/checkout"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/glambook/glambook-backend/pkg/logger"
	"github.com/glambook/glambook-backend/pkg/types"
)

type addCartItemRequest struct {
	PartnerID   uuid.UUID `json:"partnerId" validate:"required"`
	StockItemID uuid.UUID `json:"itemId" validate:"required"`
}

type cartLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"itemId"`
	Name        string          `json:"name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Available   bool            `json:"available"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// AddCartItem adds one unit of a stock item; repeat calls bump the quantity.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithPartnerID(r.Context(), req.PartnerID.String())
		line, err := svc.AddItem(ctx, req.PartnerID, req.StockItemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartLineResponse(line))
	}
}

// FetchCart returns the aggregated cart with current pricing.
func FetchCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		partnerID, err := uuid.Parse(chi.URLParam(r, "partnerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid partner id"))
			return
		}

		view, err := svc.Fetch(r.Context(), partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := cartResponse{
			Lines: make([]cartLineResponse, 0, len(view.Lines)),
			Total: types.PaiseToRupees(view.TotalPaise),
		}
		for _, line := range view.Lines {
			resp.Lines = append(resp.Lines, cartLineResponse{
				ID:          line.LineID,
				StockItemID: line.StockItemID,
				Name:        line.Name,
				UnitPrice:   types.PaiseToRupees(line.UnitPricePaise),
				Quantity:    line.Quantity,
				LineTotal:   types.PaiseToRupees(line.LineTotalPaise),
				Available:   line.Available,
			})
		}
		responses.WriteSuccess(w, resp)
	}
}

// partnerId is optional; when present the mutation is scoped to lines that
// partner owns, otherwise the owner is resolved from the line itself.
type cartLineRequest struct {
	PartnerID  uuid.UUID `json:"partnerId,omitempty"`
	CartItemID uuid.UUID `json:"cartItemId" validate:"required"`
}

// IncrementCartItem raises a line's quantity by one.
func IncrementCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return adjustCartItem(svc, logg, svcIncrement)
}

// DecrementCartItem lowers a line's quantity by one; the line disappears at
// zero.
func DecrementCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return adjustCartItem(svc, logg, svcDecrement)
}

type cartAdjuster func(svc cart.Service, r *http.Request, req cartLineRequest) (*models.CartLine, error)

func svcIncrement(svc cart.Service, r *http.Request, req cartLineRequest) (*models.CartLine, error) {
	return svc.Increment(r.Context(), req.PartnerID, req.CartItemID)
}

func svcDecrement(svc cart.Service, r *http.Request, req cartLineRequest) (*models.CartLine, error) {
	return svc.Decrement(r.Context(), req.PartnerID, req.CartItemID)
}

func adjustCartItem(svc cart.Service, logg *logger.Logger, adjust cartAdjuster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var req cartLineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := adjust(svc, r, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if line == nil {
			responses.WriteSuccess(w, map[string]any{"removed": true})
			return
		}
		responses.WriteSuccess(w, newCartLineResponse(line))
	}
}

// RemoveCartItem deletes a line regardless of quantity.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var req cartLineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), req.PartnerID, req.CartItemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": true})
	}
}

type bookCartRequest struct {
	PartnerID       uuid.UUID `json:"partnerId" validate:"required"`
	PaymentMode     string    `json:"paymentMode" validate:"required,oneof=wallet cash razorpay cashfree"`
	GatewayRef      *string   `json:"paymentGatewayId,omitempty"`
	DeliveryAddress string    `json:"deliveryAddress,omitempty"`
}

type bookCartResponse struct {
	Booking     BookingResponse     `json:"booking"`
	Transaction TransactionResponse `json:"transaction"`
}

// BookCart converts the whole cart into a booking.
func BookCart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var req bookCartRequest
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
		result, err := svc.Execute(ctx, checkout.CheckoutInput{
			PartnerID:       req.PartnerID,
			PaymentMode:     mode,
			GatewayRef:      req.GatewayRef,
			DeliveryAddress: req.DeliveryAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bookCartResponse{
			Booking:     newBookingResponse(result.Booking),
			Transaction: newTransactionResponse(result.Transaction),
		})
	}
}

func newCartLineResponse(line *models.CartLine) cartLineResponse {
	return cartLineResponse{
		ID:          line.ID,
		StockItemID: line.StockItemID,
		Quantity:    line.Quantity,
		Available:   true,
	}
}

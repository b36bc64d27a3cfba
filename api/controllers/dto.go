package controllers

import (
	"time"

	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionResponse is the API shape of one ledger entry. Amounts cross the
// boundary as decimal rupees; paise stay internal.
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	PartnerID   uuid.UUID       `json:"partnerId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PaymentMode string          `json:"paymentMode"`
	GatewayRef  *string         `json:"paymentGatewayId,omitempty"`
	FinalizedAt *time.Time      `json:"finalizedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func newTransactionResponse(txn *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          txn.ID,
		PartnerID:   txn.PartnerID,
		Type:        string(txn.Type),
		Amount:      types.PaiseToRupees(txn.AmountPaise),
		Status:      string(txn.Status),
		PaymentMode: string(txn.PaymentMode),
		GatewayRef:  txn.GatewayRef,
		FinalizedAt: txn.FinalizedAt,
		CreatedAt:   txn.CreatedAt,
	}
}

// BookingResponse is the API shape of a booking with its line snapshots.
type BookingResponse struct {
	ID              uuid.UUID             `json:"id"`
	PartnerID       uuid.UUID             `json:"partnerId"`
	TransactionID   uuid.UUID             `json:"transactionId"`
	Total           decimal.Decimal       `json:"total"`
	DeliveryAddress string                `json:"deliveryAddress,omitempty"`
	Status          string                `json:"status"`
	PaymentStatus   string                `json:"paymentStatus"`
	Lines           []BookingLineResponse `json:"lines"`
	CreatedAt       time.Time             `json:"createdAt"`
}

type BookingLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"itemId"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

func newBookingResponse(booking *models.Booking) BookingResponse {
	lines := make([]BookingLineResponse, 0, len(booking.Lines))
	for _, line := range booking.Lines {
		lines = append(lines, BookingLineResponse{
			ID:          line.ID,
			StockItemID: line.StockItemID,
			Name:        line.Name,
			UnitPrice:   types.PaiseToRupees(line.UnitPricePaise),
			Quantity:    line.Quantity,
			LineTotal:   types.PaiseToRupees(line.LineTotalPaise),
		})
	}
	return BookingResponse{
		ID:              booking.ID,
		PartnerID:       booking.PartnerID,
		TransactionID:   booking.TransactionID,
		Total:           types.PaiseToRupees(booking.TotalPaise),
		DeliveryAddress: booking.DeliveryAddress,
		Status:          string(booking.Status),
		PaymentStatus:   string(booking.PaymentStatus),
		Lines:           lines,
		CreatedAt:       booking.CreatedAt,
	}
}

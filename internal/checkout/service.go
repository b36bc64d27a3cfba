package checkout

import (
	"context"
	"fmt"

	"github.com/glambook/glambook-backend/internal/bookings"
	"github.com/glambook/glambook-backend/internal/cart"
	"github.com/glambook/glambook-backend/internal/ledger"
	"github.com/glambook/glambook-backend/internal/partners"
	"github.com/glambook/glambook-backend/internal/stock"
	"github.com/glambook/glambook-backend/internal/wallet"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, partnerID uuid.UUID, kind enums.NotificationType, title, message string)
}

// Service converts a partner's cart into a booking.
type Service interface {
	Execute(ctx context.Context, input CheckoutInput) (*Result, error)
}

// CheckoutInput carries one checkout request.
type CheckoutInput struct {
	PartnerID       uuid.UUID
	PaymentMode     enums.PaymentMode
	GatewayRef      *string
	DeliveryAddress string
}

// Result is the created booking plus its ledger entry.
type Result struct {
	Booking     *models.Booking
	Transaction *models.Transaction
}

type service struct {
	tx       txRunner
	cart     cart.Repository
	partners partners.Repository
	stock    stock.Repository
	balances wallet.BalanceRepository
	ledger   ledger.Service
	bookings bookings.Repository
	notify   notifier
}

// ServiceParams wires checkout dependencies.
type ServiceParams struct {
	Tx       txRunner
	Cart     cart.Repository
	Partners partners.Repository
	Stock    stock.Repository
	Balances wallet.BalanceRepository
	Ledger   ledger.Service
	Bookings bookings.Repository
	Notifier notifier
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Partners == nil {
		return nil, fmt.Errorf("partner repository required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Balances == nil {
		return nil, fmt.Errorf("wallet balance store required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		tx:       params.Tx,
		cart:     params.Cart,
		partners: params.Partners,
		stock:    params.Stock,
		balances: params.Balances,
		ledger:   params.Ledger,
		bookings: params.Bookings,
		notify:   params.Notifier,
	}, nil
}

// Execute runs the whole checkout in one database transaction: pin the cart
// lines, price them against current stock, take payment, write the ledger
// entry and the booking, then clear exactly the pinned lines. Any failure
// rolls everything back, including a wallet debit that already applied.
func (s *service) Execute(ctx context.Context, input CheckoutInput) (*Result, error) {
	if !input.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", input.PaymentMode))
	}
	if input.PaymentMode.IsGateway() && (input.GatewayRef == nil || *input.GatewayRef == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway reference is required for gateway payments")
	}

	var result Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		partner, err := s.partners.WithTx(tx).FindActiveByID(ctx, input.PartnerID)
		if err != nil {
			return err
		}

		// Pin the lines first; a concurrent add-to-cart after this point is
		// not part of this checkout and survives the final delete.
		lines, err := s.cart.WithTx(tx).ListByPartner(ctx, input.PartnerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
		}

		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.StockItemID)
		}
		items, err := s.stock.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock items")
		}

		var totalPaise int64
		bookingLines := make([]models.BookingLine, 0, len(lines))
		lineIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			item, ok := items[line.StockItemID]
			if !ok || item.Status != enums.StockItemStatusActive {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("stock item %s is no longer available", line.StockItemID))
			}
			lineTotal := item.MRPPaise * int64(line.Quantity)
			totalPaise += lineTotal
			bookingLines = append(bookingLines, models.BookingLine{
				StockItemID:    item.ID,
				Name:           item.Name,
				UnitPricePaise: item.MRPPaise,
				Quantity:       line.Quantity,
				LineTotalPaise: lineTotal,
			})
			lineIDs = append(lineIDs, line.ID)
		}

		txnType := enums.TransactionTypeStockBooking
		switch {
		case input.PaymentMode == enums.PaymentModeWallet:
			txnType = enums.TransactionTypeStockWalletBooking
			if err := s.balances.WithTx(tx).Debit(ctx, input.PartnerID, totalPaise); err != nil {
				return err
			}
		case input.PaymentMode == enums.PaymentModeCash, input.PaymentMode.IsGateway():
			// Settled later through the resolver.
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment mode %q", input.PaymentMode))
		}

		txn, err := s.ledger.Open(ctx, tx, ledger.OpenTransactionInput{
			PartnerID:   input.PartnerID,
			Type:        txnType,
			AmountPaise: totalPaise,
			PaymentMode: input.PaymentMode,
			GatewayRef:  input.GatewayRef,
		})
		if err != nil {
			return err
		}

		paymentStatus := enums.PaymentStatusPending
		if txn.Status == enums.TransactionStatusCompleted {
			paymentStatus = enums.PaymentStatusCompleted
		}

		// The booking ships to the partner's on-file address unless the
		// request names another one.
		address := input.DeliveryAddress
		if address == "" {
			address = partner.Address
		}

		booking := &models.Booking{
			PartnerID:       input.PartnerID,
			TransactionID:   txn.ID,
			TotalPaise:      totalPaise,
			DeliveryAddress: address,
			Status:          enums.BookingStatusPending,
			PaymentStatus:   paymentStatus,
			Lines:           bookingLines,
		}
		if err := s.bookings.WithTx(tx).Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
		}

		if err := s.cart.WithTx(tx).DeleteByIDs(ctx, input.PartnerID, lineIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		result.Booking = booking
		result.Transaction = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Booking.PaymentStatus == enums.PaymentStatusCompleted {
		s.notify.Notify(ctx, input.PartnerID, enums.NotificationTypeBookingPlaced,
			"Booking placed", "Your booking was placed successfully")
	}
	return &result, nil
}

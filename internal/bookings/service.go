package bookings

import (
	"context"
	"errors"
	"fmt"

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

// Service creates direct single-item bookings and reads booking history.
type Service interface {
	CreateDirectBooking(ctx context.Context, input DirectBookingInput) (*models.Booking, error)
	Fetch(ctx context.Context, partnerID, bookingID uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, partnerID uuid.UUID) ([]models.Booking, error)
}

// DirectBookingInput books one stock item without going through the cart.
type DirectBookingInput struct {
	PartnerID       uuid.UUID
	StockItemID     uuid.UUID
	Quantity        int
	PaymentMode     enums.PaymentMode
	GatewayRef      *string
	DeliveryAddress string
}

type service struct {
	tx       txRunner
	repo     Repository
	partners partners.Repository
	stock    stock.Repository
	balances wallet.BalanceRepository
	ledger   ledger.Service
	notify   notifier
}

// ServiceParams wires booking dependencies.
type ServiceParams struct {
	Tx       txRunner
	Repo     Repository
	Partners partners.Repository
	Stock    stock.Repository
	Balances wallet.BalanceRepository
	Ledger   ledger.Service
	Notifier notifier
}

// NewService builds the bookings service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("bookings repository required")
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
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		tx:       params.Tx,
		repo:     params.Repo,
		partners: params.Partners,
		stock:    params.Stock,
		balances: params.Balances,
		ledger:   params.Ledger,
		notify:   params.Notifier,
	}, nil
}

// CreateDirectBooking books a single stock item. Everything monetary runs in
// one database transaction: a wallet debit that commits without its booking,
// or a booking without its ledger entry, cannot happen.
func (s *service) CreateDirectBooking(ctx context.Context, input DirectBookingInput) (*models.Booking, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if !input.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", input.PaymentMode))
	}
	if input.PaymentMode.IsGateway() && (input.GatewayRef == nil || *input.GatewayRef == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway reference is required for gateway payments")
	}

	var booking *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		partner, err := s.partners.WithTx(tx).FindActiveByID(ctx, input.PartnerID)
		if err != nil {
			return err
		}
		item, err := s.stock.WithTx(tx).FindActiveByID(ctx, input.StockItemID)
		if err != nil {
			return err
		}

		totalPaise := item.MRPPaise * int64(input.Quantity)

		switch {
		case input.PaymentMode == enums.PaymentModeWallet:
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
			Type:        enums.TransactionTypeStockItemBooking,
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

		address := input.DeliveryAddress
		if address == "" {
			address = partner.Address
		}

		booking = &models.Booking{
			PartnerID:       input.PartnerID,
			TransactionID:   txn.ID,
			TotalPaise:      totalPaise,
			DeliveryAddress: address,
			Status:          enums.BookingStatusPending,
			PaymentStatus:   paymentStatus,
			Lines: []models.BookingLine{
				{
					StockItemID:    item.ID,
					Name:           item.Name,
					UnitPricePaise: item.MRPPaise,
					Quantity:       input.Quantity,
					LineTotalPaise: totalPaise,
				},
			},
		}
		return s.repo.WithTx(tx).Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == enums.PaymentStatusCompleted {
		s.notify.Notify(ctx, booking.PartnerID, enums.NotificationTypeBookingPlaced,
			"Booking placed", "Your booking was placed successfully")
	}
	return booking, nil
}

func (s *service) Fetch(ctx context.Context, partnerID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, partnerID, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, partnerID uuid.UUID) ([]models.Booking, error) {
	rows, err := s.repo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return rows, nil
}

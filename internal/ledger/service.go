package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glambook/glambook-backend/internal/partners"
	"github.com/glambook/glambook-backend/internal/wallet"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/glambook/glambook-backend/pkg/pagination"
	"github.com/glambook/glambook-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type bookingSettler interface {
	SettleByTransactionID(ctx context.Context, tx *gorm.DB, transactionID uuid.UUID, outcome enums.TransactionStatus) error
}

type notifier interface {
	Notify(ctx context.Context, partnerID uuid.UUID, kind enums.NotificationType, title, message string)
}

// Service defines wallet and ledger operations. Open records a new
// transaction inside the caller's database transaction; Finalize is the
// status resolver invoked by gateway webhooks or admin confirmation.
type Service interface {
	Open(ctx context.Context, tx *gorm.DB, input OpenTransactionInput) (*models.Transaction, error)
	Recharge(ctx context.Context, input RechargeInput) (*models.Transaction, error)
	Finalize(ctx context.Context, input FinalizeInput) (*models.Transaction, error)
	FetchWallet(ctx context.Context, partnerID uuid.UUID) (*WalletView, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// OpenTransactionInput captures the immutable data a ledger entry requires.
type OpenTransactionInput struct {
	PartnerID   uuid.UUID
	Type        enums.TransactionType
	AmountPaise int64
	PaymentMode enums.PaymentMode
	GatewayRef  *string
}

// RechargeInput opens a wallet top-up transaction.
type RechargeInput struct {
	PartnerID   uuid.UUID
	AmountPaise int64
	PaymentMode enums.PaymentMode
	GatewayRef  *string
}

// FinalizeInput carries one resolver call.
type FinalizeInput struct {
	TransactionID uuid.UUID
	Outcome       enums.TransactionStatus
	GatewayRef    *string
}

// WalletView is the partner's wallet snapshot.
type WalletView struct {
	PartnerID    uuid.UUID
	BalancePaise int64
	Status       enums.PartnerStatus
}

// ListParams configures transaction history queries.
type ListParams struct {
	PartnerID uuid.UUID
	Types     []enums.TransactionType
	Statuses  []enums.TransactionStatus
	Limit     int
	Cursor    string
}

// ListResult wraps returned transactions and the cursor for the next page.
type ListResult struct {
	Items  []models.Transaction
	Cursor string
}

type service struct {
	tx          txRunner
	repo        Repository
	partners    partners.Repository
	balances    wallet.BalanceRepository
	bookings    bookingSettler
	notify      notifier
	maxRecharge int64
	now         func() time.Time
}

// ServiceParams wires ledger dependencies.
type ServiceParams struct {
	Tx       txRunner
	Repo     Repository
	Partners partners.Repository
	Balances wallet.BalanceRepository
	Bookings bookingSettler
	Notifier notifier
	// MaxRechargePaise caps a single top-up. Zero disables the cap.
	MaxRechargePaise int64
}

// NewService builds the ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if params.Partners == nil {
		return nil, fmt.Errorf("partner repository required")
	}
	if params.Balances == nil {
		return nil, fmt.Errorf("wallet balance store required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("booking settler required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		tx:          params.Tx,
		repo:        params.Repo,
		partners:    params.Partners,
		balances:    params.Balances,
		bookings:    params.Bookings,
		notify:      params.Notifier,
		maxRecharge: params.MaxRechargePaise,
		now:         time.Now,
	}, nil
}

// Open creates a ledger entry. Wallet-mode entries are born completed because
// the balance debit happens in the same database transaction; every other
// mode starts pending and waits for Finalize.
func (s *service) Open(ctx context.Context, tx *gorm.DB, input OpenTransactionInput) (*models.Transaction, error) {
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	if input.AmountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction amount must be positive")
	}
	if !input.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", input.PaymentMode))
	}

	status := enums.TransactionStatusPending
	var finalizedAt *time.Time
	if input.PaymentMode == enums.PaymentModeWallet {
		status = enums.TransactionStatusCompleted
		now := s.now().UTC()
		finalizedAt = &now
	}

	txn := &models.Transaction{
		PartnerID:   input.PartnerID,
		Type:        input.Type,
		AmountPaise: input.AmountPaise,
		Status:      status,
		PaymentMode: input.PaymentMode,
		GatewayRef:  input.GatewayRef,
		FinalizedAt: finalizedAt,
	}
	if err := s.repo.WithTx(tx).Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
	}
	return txn, nil
}

// Recharge opens a wallet top-up. Wallet mode makes no sense here (a wallet
// cannot fund itself), so only cash and gateway modes are accepted; the
// balance credit happens when the transaction is finalized completed.
func (s *service) Recharge(ctx context.Context, input RechargeInput) (*models.Transaction, error) {
	if input.PaymentMode == enums.PaymentModeWallet {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wallet cannot fund its own recharge")
	}
	if s.maxRecharge > 0 && input.AmountPaise > s.maxRecharge {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("recharge amount exceeds the per-transaction limit of %d paise", s.maxRecharge))
	}

	var txn *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.partners.WithTx(tx).FindActiveByID(ctx, input.PartnerID); err != nil {
			return err
		}
		opened, err := s.Open(ctx, tx, OpenTransactionInput{
			PartnerID:   input.PartnerID,
			Type:        enums.TransactionTypeRechargeWallet,
			AmountPaise: input.AmountPaise,
			PaymentMode: input.PaymentMode,
			GatewayRef:  input.GatewayRef,
		})
		if err != nil {
			return err
		}
		txn = opened
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// FetchWallet returns the wallet snapshot for any partner, active or not;
// a suspended partner can still see their balance.
func (s *service) FetchWallet(ctx context.Context, partnerID uuid.UUID) (*WalletView, error) {
	partner, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &WalletView{
		PartnerID:    partner.ID,
		BalancePaise: partner.WalletBalancePaise,
		Status:       partner.Status,
	}, nil
}

// Finalize applies the one-way pending -> terminal transition exactly once.
// The compare-and-swap on status is the linearization point; side effects
// (wallet credit or booking settlement) run inside the same database
// transaction, so a crash cannot leave the swap committed without them.
func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*models.Transaction, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if !input.Outcome.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid finalize outcome %q", input.Outcome))
	}

	var finalized *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		swapped, err := repo.CompareAndSwapStatus(ctx, input.TransactionID, input.Outcome, input.GatewayRef, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize transaction")
		}
		if !swapped {
			existing, findErr := repo.FindByID(ctx, input.TransactionID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load transaction")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("transaction already finalized as %s", existing.Status))
		}

		txn, err := repo.FindByID(ctx, input.TransactionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload transaction")
		}

		if err := s.applySideEffects(ctx, tx, txn); err != nil {
			return err
		}

		finalized = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchNotification(ctx, finalized)
	return finalized, nil
}

// applySideEffects branches on the transaction family. Recharge entries credit
// the wallet on completion; booking entries settle the linked booking for both
// outcomes, including marking it failed when the payment fails.
func (s *service) applySideEffects(ctx context.Context, tx *gorm.DB, txn *models.Transaction) error {
	switch {
	case txn.Type == enums.TransactionTypeRechargeWallet:
		if txn.Status != enums.TransactionStatusCompleted {
			return nil
		}
		if err := s.balances.WithTx(tx).Credit(ctx, txn.PartnerID, txn.AmountPaise); err != nil {
			return err
		}
		return nil
	case txn.Type.IsBookingType():
		return s.bookings.SettleByTransactionID(ctx, tx, txn.ID, txn.Status)
	}
	return nil
}

func (s *service) dispatchNotification(ctx context.Context, txn *models.Transaction) {
	if txn == nil || txn.Status != enums.TransactionStatusCompleted {
		return
	}
	if txn.Type == enums.TransactionTypeRechargeWallet {
		amount := types.PaiseToRupees(txn.AmountPaise)
		s.notify.Notify(ctx, txn.PartnerID, enums.NotificationTypeWalletRecharge,
			"Wallet recharged", fmt.Sprintf("₹%s added to wallet", amount.StringFixed(2)))
		return
	}
	if txn.Type.IsBookingType() {
		s.notify.Notify(ctx, txn.PartnerID, enums.NotificationTypeBookingPayment,
			"Payment received", "Your booking payment was confirmed")
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id is required")
	}

	// The bare history is the partner-facing money trail: completed
	// recharges and booking confirmations. Pending entries and raw booking
	// debits only show up when the caller filters for them explicitly.
	types := params.Types
	if len(types) == 0 {
		types = []enums.TransactionType{
			enums.TransactionTypeRechargeWallet,
			enums.TransactionTypeBookingConfirmation,
		}
	}
	statuses := params.Statuses
	if len(statuses) == 0 {
		statuses = []enums.TransactionStatus{enums.TransactionStatusCompleted}
	}

	query := ListTransactionsParams{
		PartnerID: params.PartnerID,
		Types:     types,
		Statuses:  statuses,
		Limit:     params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

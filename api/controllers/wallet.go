package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glambook/glambook-backend/api/responses"
	"github.com/glambook/glambook-backend/api/validators"
	"github.com/glambook/glambook-backend/internal/ledger"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/glambook/glambook-backend/pkg/logger"
	"github.com/glambook/glambook-backend/pkg/types"
)

type rechargeRequest struct {
	PartnerID      uuid.UUID       `json:"id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	PaymentGateway string          `json:"paymentGateway" validate:"required,oneof=razorpay cashfree cash"`
	GatewayRef     *string         `json:"paymentGatewayId,omitempty"`
}

// RechargeWallet opens a wallet top-up transaction. The balance is credited
// later, when the gateway confirms and the resolver finalizes.
func RechargeWallet(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		var req rechargeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amountPaise, err := types.RupeesToPaise(req.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}
		if amountPaise <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive"))
			return
		}

		mode, err := enums.ParsePaymentMode(req.PaymentGateway)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment gateway"))
			return
		}

		ctx := logg.WithPartnerID(r.Context(), req.PartnerID.String())
		txn, err := svc.Recharge(ctx, ledger.RechargeInput{
			PartnerID:   req.PartnerID,
			AmountPaise: amountPaise,
			PaymentMode: mode,
			GatewayRef:  req.GatewayRef,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newTransactionResponse(txn))
	}
}

type updateTransactionStatusRequest struct {
	TransactionID uuid.UUID `json:"transactionId" validate:"required"`
	Status        string    `json:"status" validate:"required,oneof=completed failed"`
	GatewayRef    *string   `json:"paymentGatewayId,omitempty"`
}

// UpdateTransactionStatus finalizes a pending transaction. Safe to call more
// than once; duplicates get a state-conflict response and no second credit.
func UpdateTransactionStatus(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		var req updateTransactionStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := enums.ParseTransactionOutcome(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		ctx := logg.WithTransactionID(r.Context(), req.TransactionID.String())
		txn, err := svc.Finalize(ctx, ledger.FinalizeInput{
			TransactionID: req.TransactionID,
			Outcome:       outcome,
			GatewayRef:    req.GatewayRef,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newTransactionResponse(txn))
	}
}

type fetchWalletRequest struct {
	PartnerID uuid.UUID `json:"id" validate:"required"`
}

type walletResponse struct {
	PartnerID uuid.UUID       `json:"partnerId"`
	Balance   decimal.Decimal `json:"walletBalance"`
	Status    string          `json:"status"`
}

// FetchWallet returns the partner's balance snapshot.
func FetchWallet(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		var req fetchWalletRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.FetchWallet(r.Context(), req.PartnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, walletResponse{
			PartnerID: view.PartnerID,
			Balance:   types.PaiseToRupees(view.BalancePaise),
			Status:    string(view.Status),
		})
	}
}

type fetchTransactionsRequest struct {
	PartnerID uuid.UUID `json:"id" validate:"required"`
	Types     []string  `json:"types,omitempty"`
	Statuses  []string  `json:"statuses,omitempty"`
	Limit     int       `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Cursor    string    `json:"cursor,omitempty"`
}

type transactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Cursor string                `json:"cursor,omitempty"`
}

// FetchTransactions returns the partner's transaction history, newest first.
func FetchTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		var req fetchTransactionsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := ledger.ListParams{
			PartnerID: req.PartnerID,
			Limit:     req.Limit,
			Cursor:    req.Cursor,
		}
		for _, raw := range req.Types {
			parsed, err := enums.ParseTransactionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type filter"))
				return
			}
			params.Types = append(params.Types, parsed)
		}
		for _, raw := range req.Statuses {
			parsed, err := enums.ParseTransactionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction status filter"))
				return
			}
			params.Statuses = append(params.Statuses, parsed)
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]TransactionResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, newTransactionResponse(&result.Items[i]))
		}
		responses.WriteSuccess(w, transactionListResponse{Items: items, Cursor: result.Cursor})
	}
}

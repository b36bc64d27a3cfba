package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glambook/glambook-backend/internal/partners"
	"github.com/glambook/glambook-backend/internal/stock"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
)

func TestFetchAggregatesTotalsAndAvailability(t *testing.T) {
	partnerID := uuid.New()
	activeItem := models.StockItem{ID: uuid.New(), Name: "Argan Oil", MRPPaise: 45_000, Status: enums.StockItemStatusActive}
	inactiveItem := models.StockItem{ID: uuid.New(), Name: "Retired SKU", MRPPaise: 10_000, Status: enums.StockItemStatusInactive}

	repo := &stubCartRepo{lines: []models.CartLine{
		{ID: uuid.New(), PartnerID: partnerID, StockItemID: activeItem.ID, Quantity: 2},
		{ID: uuid.New(), PartnerID: partnerID, StockItemID: inactiveItem.ID, Quantity: 1},
	}}
	svc := newCartService(t, repo, &stubStockRepo{items: []models.StockItem{activeItem, inactiveItem}})

	view, err := svc.Fetch(context.Background(), partnerID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(view.Lines))
	}
	// Unavailable lines stay visible but are left out of the payable total.
	if view.TotalPaise != 90_000 {
		t.Fatalf("expected total 90000, got %d", view.TotalPaise)
	}
	for _, line := range view.Lines {
		if line.StockItemID == inactiveItem.ID && line.Available {
			t.Fatalf("inactive stock item reported as available")
		}
		if line.StockItemID == activeItem.ID && !line.Available {
			t.Fatalf("active stock item reported as unavailable")
		}
	}
}

func TestFetchEmptyCart(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{}, &stubStockRepo{})

	view, err := svc.Fetch(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(view.Lines) != 0 || view.TotalPaise != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestAddItemRejectsInactivePartner(t *testing.T) {
	repo := &stubCartRepo{}
	svc, err := NewService(repo, &stubPartnerRepo{active: false}, &stubStockRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.AddItem(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if repo.addCalls != 0 {
		t.Fatalf("repo should not be touched for an inactive partner")
	}
}

func TestAdjustMissingLineIsNotFound(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{adjustErr: gorm.ErrRecordNotFound}, &stubStockRepo{})

	_, err := svc.Increment(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustResolvesOwnerFromLine(t *testing.T) {
	partnerID := uuid.New()
	lineID := uuid.New()
	repo := &stubCartRepo{lines: []models.CartLine{
		{ID: lineID, PartnerID: partnerID, StockItemID: uuid.New(), Quantity: 1},
	}}
	svc := newCartService(t, repo, &stubStockRepo{})

	// No partner in the request; the line itself names its owner.
	if _, err := svc.Increment(context.Background(), uuid.Nil, lineID); err != nil {
		t.Fatalf("Increment without partner: %v", err)
	}
	if err := svc.RemoveItem(context.Background(), uuid.Nil, lineID); err != nil {
		t.Fatalf("RemoveItem without partner: %v", err)
	}
}

func TestAdjustUnknownLineWithoutPartnerIsNotFound(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{}, &stubStockRepo{})

	_, err := svc.Increment(context.Background(), uuid.Nil, uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveMissingLineIsNotFound(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{deleteErr: gorm.ErrRecordNotFound}, &stubStockRepo{})

	err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newCartService(t *testing.T, repo Repository, stockRepo stock.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, &stubPartnerRepo{active: true}, stockRepo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

type stubCartRepo struct {
	lines     []models.CartLine
	addCalls  int
	adjustErr error
	deleteErr error
}

func (s *stubCartRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubCartRepo) AddItem(_ context.Context, partnerID, stockItemID uuid.UUID) (*models.CartLine, error) {
	s.addCalls++
	line := models.CartLine{ID: uuid.New(), PartnerID: partnerID, StockItemID: stockItemID, Quantity: 1}
	s.lines = append(s.lines, line)
	return &line, nil
}

func (s *stubCartRepo) FindLineByID(_ context.Context, lineID uuid.UUID) (*models.CartLine, error) {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			return &s.lines[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindLine(_ context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error) {
	for i := range s.lines {
		if s.lines[i].ID == lineID && s.lines[i].PartnerID == partnerID {
			return &s.lines[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) AdjustQuantity(_ context.Context, _, _ uuid.UUID, _ int) (*models.CartLine, error) {
	if s.adjustErr != nil {
		return nil, s.adjustErr
	}
	return &models.CartLine{}, nil
}

func (s *stubCartRepo) DeleteLine(_ context.Context, _, _ uuid.UUID) error {
	return s.deleteErr
}

func (s *stubCartRepo) ListByPartner(_ context.Context, partnerID uuid.UUID) ([]models.CartLine, error) {
	var out []models.CartLine
	for _, line := range s.lines {
		if line.PartnerID == partnerID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *stubCartRepo) DeleteByIDs(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

type stubPartnerRepo struct {
	active bool
}

func (s *stubPartnerRepo) WithTx(_ *gorm.DB) partners.Repository { return s }

func (s *stubPartnerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Partner, error) {
	status := enums.PartnerStatusActive
	if !s.active {
		status = enums.PartnerStatusSuspended
	}
	return &models.Partner{ID: id, Status: status}, nil
}

func (s *stubPartnerRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Partner, error) {
	if !s.active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "partner account is not active")
	}
	return &models.Partner{ID: id, Status: enums.PartnerStatusActive}, nil
}

type stubStockRepo struct {
	items []models.StockItem
}

func (s *stubStockRepo) WithTx(_ *gorm.DB) stock.Repository { return s }

func (s *stubStockRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*models.StockItem, error) {
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].Status == enums.StockItemStatusActive {
			return &s.items[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
}

func (s *stubStockRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.StockItem, error) {
	out := make(map[uuid.UUID]models.StockItem)
	for _, id := range ids {
		for _, item := range s.items {
			if item.ID == id {
				out[id] = item
			}
		}
	}
	return out, nil
}

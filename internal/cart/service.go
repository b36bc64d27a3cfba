package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/glambook/glambook-backend/internal/partners"
	"github.com/glambook/glambook-backend/internal/stock"
	"github.com/glambook/glambook-backend/pkg/db/models"
	"github.com/glambook/glambook-backend/pkg/enums"
	pkgerrors "github.com/glambook/glambook-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes cart mutations and the aggregated cart view.
type Service interface {
	AddItem(ctx context.Context, partnerID, stockItemID uuid.UUID) (*models.CartLine, error)
	Increment(ctx context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error)
	Decrement(ctx context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error)
	RemoveItem(ctx context.Context, partnerID, lineID uuid.UUID) error
	Fetch(ctx context.Context, partnerID uuid.UUID) (*View, error)
}

// View is the aggregated cart: every line joined with current stock pricing
// plus the cart total. Prices are read at view time, not stored on the line.
type View struct {
	Lines      []LineView
	TotalPaise int64
}

// LineView is one cart line joined with its stock item.
type LineView struct {
	LineID         uuid.UUID
	StockItemID    uuid.UUID
	Name           string
	UnitPricePaise int64
	Quantity       int
	LineTotalPaise int64
	Available      bool
}

type service struct {
	repo     Repository
	partners partners.Repository
	stock    stock.Repository
}

// NewService builds the cart service.
func NewService(repo Repository, partnerRepo partners.Repository, stockRepo stock.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if partnerRepo == nil {
		return nil, fmt.Errorf("partner repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &service{repo: repo, partners: partnerRepo, stock: stockRepo}, nil
}

func (s *service) AddItem(ctx context.Context, partnerID, stockItemID uuid.UUID) (*models.CartLine, error) {
	if _, err := s.partners.FindActiveByID(ctx, partnerID); err != nil {
		return nil, err
	}
	if _, err := s.stock.FindActiveByID(ctx, stockItemID); err != nil {
		return nil, err
	}
	line, err := s.repo.AddItem(ctx, partnerID, stockItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return line, nil
}

func (s *service) Increment(ctx context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error) {
	return s.adjust(ctx, partnerID, lineID, 1)
}

// Decrement lowers the quantity by one. At quantity one the line is removed
// and a nil line is returned.
func (s *service) Decrement(ctx context.Context, partnerID, lineID uuid.UUID) (*models.CartLine, error) {
	return s.adjust(ctx, partnerID, lineID, -1)
}

// resolveOwner fills in the partner when the request carried only a line id.
// A supplied partner id still scopes the mutation to lines it owns.
func (s *service) resolveOwner(ctx context.Context, partnerID, lineID uuid.UUID) (uuid.UUID, error) {
	if partnerID != uuid.Nil {
		return partnerID, nil
	}
	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return line.PartnerID, nil
}

func (s *service) adjust(ctx context.Context, partnerID, lineID uuid.UUID, delta int) (*models.CartLine, error) {
	partnerID, err := s.resolveOwner(ctx, partnerID, lineID)
	if err != nil {
		return nil, err
	}
	if _, err := s.partners.FindActiveByID(ctx, partnerID); err != nil {
		return nil, err
	}
	line, err := s.repo.AdjustQuantity(ctx, partnerID, lineID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust cart line")
	}
	return line, nil
}

func (s *service) RemoveItem(ctx context.Context, partnerID, lineID uuid.UUID) error {
	partnerID, err := s.resolveOwner(ctx, partnerID, lineID)
	if err != nil {
		return err
	}
	if _, err := s.partners.FindActiveByID(ctx, partnerID); err != nil {
		return err
	}
	if err := s.repo.DeleteLine(ctx, partnerID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

// Fetch aggregates the cart against current stock pricing. Lines whose stock
// item has gone missing or inactive are surfaced with Available=false and
// excluded from the total.
func (s *service) Fetch(ctx context.Context, partnerID uuid.UUID) (*View, error) {
	if _, err := s.partners.FindActiveByID(ctx, partnerID); err != nil {
		return nil, err
	}

	lines, err := s.repo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.StockItemID)
	}
	items, err := s.stock.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock items")
	}

	view := &View{Lines: make([]LineView, 0, len(lines))}
	for _, line := range lines {
		lv := LineView{
			LineID:      line.ID,
			StockItemID: line.StockItemID,
			Quantity:    line.Quantity,
		}
		if item, ok := items[line.StockItemID]; ok {
			lv.Name = item.Name
			lv.UnitPricePaise = item.MRPPaise
			lv.LineTotalPaise = item.MRPPaise * int64(line.Quantity)
			lv.Available = item.Status == enums.StockItemStatusActive
		}
		if lv.Available {
			view.TotalPaise += lv.LineTotalPaise
		}
		view.Lines = append(view.Lines, lv)
	}
	return view, nil
}

// Package catalog is the product cache/facade. It projects the remote
// database's product list into a per-request map keyed by normalized
// product number and mediates every read and mutation. The projection
// is disposable: nothing here survives the request, and all writes go
// through whitelisted field patches against the repository.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo/v2"

	"carstock/internal/apperr"
	"carstock/internal/model"
	"carstock/internal/repository"
	"carstock/internal/utils"
)

var logger = loggo.GetLogger("carstock.catalog")

// Facade mediates access to the product catalog.
type Facade struct {
	repo  repository.ProductRepository
	clock clock.Clock
}

// New returns a facade over the given repository.
func New(repo repository.ProductRepository, clk clock.Clock) *Facade {
	return &Facade{repo: repo, clock: clk}
}

// Now returns the facade's current UTC timestamp in the catalog's
// ISO-8601 format.
func (f *Facade) Now() string {
	return f.clock.Now().UTC().Format(time.RFC3339)
}

// Load fetches the full catalog and re-keys it by normalized product
// number. An upstream failure degrades to an empty map: read paths
// favor availability over correctness, and there is no retry and no
// cached fallback.
func (f *Facade) Load(ctx context.Context) map[string]model.Product {
	products, err := f.repo.ListProducts(ctx)
	if err != nil {
		logger.Warningf("catalog load degraded to empty: %v", err)
		return map[string]model.Product{}
	}
	byNumber := make(map[string]model.Product, len(products))
	for _, p := range products {
		if p.ProductNumber == "" {
			continue
		}
		byNumber[utils.NormalizeDigits(p.ProductNumber)] = p
	}
	return byNumber
}

// Get returns one product by normalized number.
func (f *Facade) Get(ctx context.Context, productNumber string) (model.Product, error) {
	key := utils.NormalizeDigits(productNumber)
	p, ok := f.Load(ctx)[key]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: product %q", apperr.ErrNotFound, key)
	}
	return p, nil
}

// Create validates uniqueness of the business key and inserts the
// product. The caller supplies a fully-populated record (status,
// original quantity and last_update already set).
func (f *Facade) Create(ctx context.Context, p model.Product) error {
	key := utils.NormalizeDigits(p.ProductNumber)
	if _, exists := f.Load(ctx)[key]; exists {
		return fmt.Errorf("%w: product number already exists", apperr.ErrConflict)
	}
	if err := f.repo.Insert(ctx, p); err != nil {
		return err
	}
	return nil
}

// Update carries the optional fields of a product update. Nil fields
// are left untouched. NewProductNumber renames the business key; the
// message id is carried forward automatically because it lives on the
// same document.
type Update struct {
	ProductName       *string
	CarName           *string
	ModelNumber       *string
	Type              *string
	Quantity          *int
	PriceIQD          *float64
	WholesalePriceIQD *float64
	Image             *string
	NewProductNumber  *string
	MessageID         *int64
}

// Apply merges an update into the product, refreshes the derived status
// and last_update, and returns the whitelisted patch to forward to the
// repository. The identifying product number is only included in the
// patch when the key actually changes.
func (f *Facade) apply(p *model.Product, u Update) model.ProductPatch {
	patch := model.ProductPatch{}
	if u.ProductName != nil {
		p.ProductName = *u.ProductName
		patch.ProductName = u.ProductName
	}
	if u.CarName != nil {
		p.CarName = *u.CarName
		patch.CarName = u.CarName
	}
	if u.ModelNumber != nil {
		p.ModelNumber = *u.ModelNumber
		patch.ModelNumber = u.ModelNumber
	}
	if u.Type != nil {
		p.Type = *u.Type
		patch.Type = u.Type
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
		patch.Quantity = u.Quantity
	}
	if u.PriceIQD != nil {
		p.PriceIQD = *u.PriceIQD
		patch.PriceIQD = u.PriceIQD
	}
	if u.WholesalePriceIQD != nil {
		p.WholesalePriceIQD = *u.WholesalePriceIQD
		patch.WholesalePriceIQD = u.WholesalePriceIQD
	}
	if u.Image != nil {
		p.Image = *u.Image
		patch.Image = u.Image
	}
	if u.MessageID != nil {
		p.MessageID = *u.MessageID
		patch.MessageID = u.MessageID
	}
	if u.NewProductNumber != nil {
		p.ProductNumber = *u.NewProductNumber
		patch.ProductNumber = u.NewProductNumber
	}
	status := model.DeriveStatus(p.Quantity)
	p.Status = status
	patch.Status = &status
	now := f.Now()
	p.LastUpdate = now
	patch.LastUpdate = &now
	return patch
}

// ApplyUpdate locates the product, merges the update, enforces rename
// uniqueness and writes the patch through. It returns the post-image.
func (f *Facade) ApplyUpdate(ctx context.Context, productNumber string, u Update) (model.Product, error) {
	key := utils.NormalizeDigits(productNumber)
	cache := f.Load(ctx)
	p, ok := cache[key]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: product %q", apperr.ErrNotFound, key)
	}
	if u.NewProductNumber != nil {
		newKey := utils.NormalizeDigits(*u.NewProductNumber)
		if newKey == key {
			u.NewProductNumber = nil
		} else if _, exists := cache[newKey]; exists {
			return model.Product{}, fmt.Errorf("%w: new product number already exists", apperr.ErrConflict)
		} else {
			u.NewProductNumber = &newKey
		}
	}
	patch := f.apply(&p, u)
	if err := f.repo.PatchFields(ctx, p.ID, patch); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Status transition actions accepted by ApplyAction.
const (
	ActionSoldOne = "sold_one"
	ActionSoldAll = "sold_all"
)

// ApplyAction performs a stock status transition: sold_one decrements
// the quantity, clamped at zero; sold_all zeroes it. The post-image is
// written through like any other update.
func (f *Facade) ApplyAction(ctx context.Context, productNumber, action string) (model.Product, error) {
	key := utils.NormalizeDigits(productNumber)
	p, ok := f.Load(ctx)[key]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: product %q", apperr.ErrNotFound, key)
	}
	quantity := p.Quantity
	switch action {
	case ActionSoldOne:
		if quantity > 0 {
			quantity--
		}
	case ActionSoldAll:
		quantity = 0
	default:
		return model.Product{}, fmt.Errorf("%w: unknown action %q", apperr.ErrValidation, action)
	}
	patch := f.apply(&p, Update{Quantity: &quantity})
	if err := f.repo.PatchFields(ctx, p.ID, patch); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// SetMessageID records the mirror message id on a document. Used when
// an edit fell back to a fresh send and the tracked id went stale; the
// write is best-effort because the id is purely a display concern.
func (f *Facade) SetMessageID(ctx context.Context, p model.Product, messageID int64) {
	if p.ID == "" || messageID == 0 || messageID == p.MessageID {
		return
	}
	if err := f.repo.PatchFields(ctx, p.ID, model.ProductPatch{MessageID: &messageID}); err != nil {
		logger.Warningf("recording mirror message id for %s failed: %v", p.ProductNumber, err)
	}
}

// Delete removes the product and returns its pre-image so the caller
// can retract the mirrored message.
func (f *Facade) Delete(ctx context.Context, productNumber string) (model.Product, error) {
	key := utils.NormalizeDigits(productNumber)
	p, ok := f.Load(ctx)[key]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: product %q", apperr.ErrNotFound, key)
	}
	if err := f.repo.DeleteByID(ctx, p.ID); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Package cart implements the shopping cart widget core. Lines are keyed by
// product id; adding an already-carted product merges into the existing line.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
	"widgetkit/notify"
	"widgetkit/render"
	"widgetkit/storage"
	"widgetkit/store"
	"widgetkit/widget"
)

var (
	// ErrUnknownProduct rejects adds for product ids missing from the catalog.
	ErrUnknownProduct = errors.New("cart: product not found")
	// ErrEmptyCart rejects checkout and clear on an empty cart.
	ErrEmptyCart = errors.New("cart: cart is empty")
)

// Cart is one shopping cart widget instance.
type Cart struct {
	catalog []domain.Product
	store   *store.Store[domain.CartItem]
	slot    *storage.Slot[domain.CartItem]
	notices *notify.Center
	logger  *log.Logger
	now     func() time.Time
}

// New creates a Cart over the given catalog and snapshot slot. A nil catalog
// uses domain.DefaultCatalog.
func New(catalog []domain.Product, slot *storage.Slot[domain.CartItem], logger *log.Logger) *Cart {
	if slot == nil {
		panic("cart.New: slot is nil")
	}
	if catalog == nil {
		catalog = domain.DefaultCatalog
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Cart{
		catalog: catalog,
		store:   store.New(func(it domain.CartItem) int64 { return it.ID }),
		slot:    slot,
		notices: notify.NewCenter(),
		logger:  logger,
		now:     time.Now,
	}
}

// Load replaces the in-memory cart with the persisted snapshot.
func (c *Cart) Load(ctx context.Context) {
	c.store.Replace(c.slot.Load(ctx))
}

// Add puts one unit of the product in the cart. Adding the same product again
// increments its line instead of creating a second one.
func (c *Cart) Add(ctx context.Context, productID int64) error {
	product, ok := c.product(productID)
	if !ok {
		c.notices.Push(notify.Error, "Product not found!", notify.FeedbackTTL, c.now())
		return ErrUnknownProduct
	}

	if _, ok := c.store.Find(productID); ok {
		c.store.Update(productID, func(it *domain.CartItem) { it.Quantity++ })
	} else {
		c.store.Add(domain.CartItem{ID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1})
	}
	c.persist(ctx)
	c.notices.Push(notify.Success, product.Name+" added to cart!", notify.FeedbackTTL, c.now())
	return nil
}

// Remove drops the whole line for the product. Missing lines are ignored.
func (c *Cart) Remove(ctx context.Context, productID int64) {
	item, ok := c.store.Find(productID)
	if !ok {
		return
	}
	c.store.Remove(productID)
	c.persist(ctx)
	c.notices.Push(notify.Success, item.Name+" removed from cart!", notify.FeedbackTTL, c.now())
}

// Increase adds one unit to an existing line.
func (c *Cart) Increase(ctx context.Context, productID int64) {
	if _, ok := c.store.Find(productID); !ok {
		return
	}
	c.store.Update(productID, func(it *domain.CartItem) { it.Quantity++ })
	c.persist(ctx)
}

// Decrease removes one unit; taking the last unit removes the line.
func (c *Cart) Decrease(ctx context.Context, productID int64) {
	item, ok := c.store.Find(productID)
	if !ok {
		return
	}
	if item.Quantity <= 1 {
		c.Remove(ctx, productID)
		return
	}
	c.store.Update(productID, func(it *domain.CartItem) { it.Quantity-- })
	c.persist(ctx)
}

// Clear empties the cart. An empty cart raises a warning notice instead; a
// non-empty cart needs confirmation first.
func (c *Cart) Clear(ctx context.Context, confirmed bool) error {
	if c.store.Len() == 0 {
		c.notices.Push(notify.Warning, "Cart is already empty!", notify.FeedbackTTL, c.now())
		return ErrEmptyCart
	}
	if !confirmed {
		return &widget.ConfirmationRequired{Prompt: "Are you sure you want to clear your cart?"}
	}
	c.store.Clear()
	c.clearSnapshot(ctx)
	c.notices.Push(notify.Success, "Cart cleared!", notify.FeedbackTTL, c.now())
	return nil
}

// Receipt summarizes a completed checkout.
type Receipt struct {
	ID    string
	Items []domain.CartItem
	Total float64
	Count int
}

// Checkout empties the cart and returns a receipt. It needs confirmation with
// the total in the prompt; an empty cart is rejected outright.
func (c *Cart) Checkout(ctx context.Context, confirmed bool) (Receipt, error) {
	if c.store.Len() == 0 {
		c.notices.Push(notify.Error, "Your cart is empty!", notify.FeedbackTTL, c.now())
		return Receipt{}, ErrEmptyCart
	}

	total := c.Total()
	count := c.itemCount()
	if !confirmed {
		return Receipt{}, &widget.ConfirmationRequired{
			Prompt: fmt.Sprintf("Checkout %d items for %s?", count, render.Money(total)),
		}
	}

	receipt := Receipt{ID: uuid.NewString(), Items: c.store.Records(), Total: total, Count: count}
	c.store.Clear()
	c.clearSnapshot(ctx)
	c.notices.Push(notify.Success, "Thank you for your purchase!", notify.FeedbackTTL, c.now())
	return receipt, nil
}

// Total recomputes the cart total from scratch on every call; it is a pure
// function of the current lines, so partial updates cannot make it drift.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.store.Records() {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Items returns a copy of the current cart lines.
func (c *Cart) Items() []domain.CartItem {
	return c.store.Records()
}

func (c *Cart) itemCount() int {
	count := 0
	for _, it := range c.store.Records() {
		count += it.Quantity
	}
	return count
}

func (c *Cart) product(id int64) (domain.Product, bool) {
	for _, p := range c.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (c *Cart) persist(ctx context.Context) {
	if err := c.slot.Save(ctx, c.store.Records()); err != nil {
		c.logger.WithError(err).Warn("cart snapshot save failed, continuing in memory")
	}
}

func (c *Cart) clearSnapshot(ctx context.Context) {
	if err := c.slot.Clear(ctx); err != nil {
		c.logger.WithError(err).Warn("cart snapshot clear failed, continuing in memory")
	}
}

// Row is one rendered cart line.
type Row struct {
	ID        int64
	Name      string
	UnitPrice string
	Quantity  int
	LineTotal string
}

// ProductRow is one rendered catalog entry.
type ProductRow struct {
	ID    int64
	Name  string
	Price string
}

// View is the cart projection: catalog, lines, and the running total.
type View struct {
	Products []ProductRow
	Rows     []Row
	Empty    bool
	Total    string
	Notices  []notify.Notice
}

// View projects the catalog and current cart for display.
func (c *Cart) View() View {
	products := make([]ProductRow, 0, len(c.catalog))
	for _, p := range c.catalog {
		products = append(products, ProductRow{ID: p.ID, Name: p.Name, Price: render.Money(p.Price)})
	}

	items := c.store.Records()
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: render.Money(it.Price),
			Quantity:  it.Quantity,
			LineTotal: render.Money(it.Price * float64(it.Quantity)),
		})
	}
	return View{
		Products: products,
		Rows:     rows,
		Empty:    len(rows) == 0,
		Total:    render.Money(c.Total()),
		Notices:  c.notices.Active(c.now()),
	}
}

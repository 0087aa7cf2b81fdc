// Package engine keeps a shopping cart of configured menu items, merging
// identical configurations and capping quantities at the last known stock.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/raffa/menu/pkg/catalog"
)

// Catalog resolves the current state of a menu item for stock checks.
type Catalog interface {
	Find(id string) (catalog.Item, bool)
}

type Option func(*Cart)

func WithClock(now func() time.Time) Option {
	return func(c *Cart) {
		c.now = now
	}
}

// WithLines restores lines persisted from an earlier session. Lines with a
// non positive quantity are dropped.
func WithLines(lines []Line) Option {
	return func(c *Cart) {
		for _, line := range lines {
			if line.Quantity < 1 {
				continue
			}
			c.lines = append(c.lines, line)
		}
	}
}

// Cart is not safe for concurrent use.
type Cart struct {
	catalog Catalog
	now     func() time.Time
	lines   []Line
}

// Result describes the outcome of a quantity change. Clamped is set when the
// stock ceiling reduced the requested quantity.
type Result struct {
	LineID    string `json:"lineId"`
	Found     bool   `json:"found"`
	Removed   bool   `json:"removed"`
	Quantity  int    `json:"quantity"`
	Requested int    `json:"requested"`
	Clamped   bool   `json:"clamped"`
}

func New(catalog Catalog, opts ...Option) *Cart {
	c := &Cart{catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cart) indexOf(lineID string) int {
	for i, line := range c.lines {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

// AddItem merges the configuration into an existing line or creates one.
// The unit price is resolved once, when the line is created.
func (c *Cart) AddItem(item catalog.Item, variation *catalog.Variation, addOns []catalog.SelectedAddOn, quantity int) Result {
	if quantity < 1 {
		quantity = 1
	}
	lineID := LineID(item.ID, variation, addOns)
	ceiling, tracked := catalog.StockCeiling(item)

	if i := c.indexOf(lineID); i >= 0 {
		current := c.lines[i].Quantity
		desired := current + quantity
		next := desired
		if tracked && desired > ceiling {
			next = max(current, ceiling)
		}
		c.lines[i].Quantity = next
		return Result{
			LineID:    lineID,
			Found:     true,
			Quantity:  next,
			Requested: desired,
			Clamped:   next < desired,
		}
	}

	next := quantity
	if tracked && next > ceiling {
		next = ceiling
	}
	if next < 1 {
		return Result{LineID: lineID, Requested: quantity, Clamped: true}
	}

	selected := make([]catalog.SelectedAddOn, 0, len(addOns))
	for _, addOn := range addOns {
		if addOn.Quantity < 1 {
			addOn.Quantity = 1
		}
		selected = append(selected, addOn)
	}
	var chosen *catalog.Variation
	if variation != nil {
		v := *variation
		chosen = &v
	}
	c.lines = append(c.lines, Line{
		ID:             lineID,
		ItemID:         item.ID,
		Name:           item.Name,
		Quantity:       next,
		Variation:      chosen,
		AddOns:         selected,
		UnitTotalPrice: catalog.ResolveUnitTotalPrice(item, chosen, selected, c.now()),
	})
	return Result{
		LineID:    lineID,
		Quantity:  next,
		Requested: quantity,
		Clamped:   next < quantity,
	}
}

// UpdateQuantity sets the quantity of a line, removing it when quantity is not
// positive. Unknown lines are ignored.
func (c *Cart) UpdateQuantity(lineID string, quantity int) Result {
	i := c.indexOf(lineID)
	if i < 0 {
		return Result{LineID: lineID, Requested: quantity}
	}
	if quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return Result{LineID: lineID, Found: true, Removed: true, Requested: quantity}
	}

	current := c.lines[i].Quantity
	next := quantity
	if item, ok := c.catalog.Find(c.lines[i].ItemID); ok {
		if ceiling, tracked := catalog.StockCeiling(item); tracked && quantity > ceiling {
			switch {
			case ceiling >= 1:
				next = ceiling
			case quantity < current:
				next = quantity
			default:
				next = current
			}
		}
	}
	c.lines[i].Quantity = next
	return Result{
		LineID:    lineID,
		Found:     true,
		Quantity:  next,
		Requested: quantity,
		Clamped:   next < quantity,
	}
}

func (c *Cart) RemoveItem(lineID string) bool {
	i := c.indexOf(lineID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Line(lineID string) (Line, bool) {
	i := c.indexOf(lineID)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is exact; round only when presenting it.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

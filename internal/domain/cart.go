package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the cart: the product as it was added plus the
// chosen quantity and size.
type CartItem struct {
	Product
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selectedSize"`
}

// LineTotal is the discounted price of the whole line.
func (it CartItem) LineTotal() decimal.Decimal {
	return it.EffectivePrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// ListTotal is the line price before discount.
func (it CartItem) ListTotal() decimal.Decimal {
	return decimal.NewFromInt(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart keeps lines in insertion order with constant-time lookup by product id.
// The zero value is an empty cart ready to use.
type Cart struct {
	items []CartItem
	index map[int]int
}

func (c *Cart) ensureIndex() {
	if c.index != nil {
		return
	}
	c.index = make(map[int]int, len(c.items))
	for i, it := range c.items {
		c.index[it.ID] = i
	}
}

// Add merges into an existing line or appends a new one with quantity 1 and
// the product's first size selected.
func (c *Cart) Add(p Product) {
	c.ensureIndex()
	if i, ok := c.index[p.ID]; ok {
		c.items[i].Quantity++
		return
	}
	c.index[p.ID] = len(c.items)
	c.items = append(c.items, CartItem{Product: p, Quantity: 1, SelectedSize: p.DefaultSize()})
}

func (c *Cart) Remove(id int) {
	c.ensureIndex()
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ID] = j
	}
}

// UpdateQuantity sets the quantity of a line. Zero or negative quantities
// remove the line.
func (c *Cart) UpdateQuantity(id, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	c.ensureIndex()
	if i, ok := c.index[id]; ok {
		c.items[i].Quantity = quantity
	}
}

func (c *Cart) Get(id int) (CartItem, bool) {
	c.ensureIndex()
	i, ok := c.index[id]
	if !ok {
		return CartItem{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// ItemCount is the number of distinct lines, not units.
func (c *Cart) ItemCount() int { return len(c.items) }

func (c *Cart) UnitCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Empty() bool { return len(c.items) == 0 }

func (c Cart) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []CartItem{}
	}
	return json.Marshal(items)
}

func (c *Cart) UnmarshalJSON(b []byte) error {
	var items []CartItem
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	c.items = nil
	c.index = nil
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		c.ensureIndex()
		if i, ok := c.index[it.ID]; ok {
			c.items[i].Quantity += it.Quantity
			continue
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return nil
}

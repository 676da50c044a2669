// Package cart holds a customer's selection: an ordered list of catalog items,
// unique by name, without quantities.
package cart

import "CartStore/internal/catalog"

type Cart struct {
	items []catalog.Item
}

func New() *Cart {
	return &Cart{items: make([]catalog.Item, 0, 8)}
}

// Items returns the contents in insertion order.
func (c *Cart) Items() []catalog.Item {
	out := make([]catalog.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Contains(name string) bool {
	for _, it := range c.items {
		if it.Name() == name {
			return true
		}
	}
	return false
}

func (c *Cart) Add(item catalog.Item) error {
	if c.Contains(item.Name()) {
		return catalog.NewLookupError("cart add", item.Name(), catalog.ErrAlreadyExists)
	}
	c.items = append(c.items, item)
	return nil
}

// Remove drops every entry with the given name.
func (c *Cart) Remove(name string) error {
	if !c.Contains(name) {
		return catalog.NewLookupError("cart remove", name, catalog.ErrNotFound)
	}

	n := 0
	for _, it := range c.items {
		if it.Name() != name {
			c.items[n] = it
			n++
		}
	}
	clear(c.items[n:])
	c.items = c.items[:n]
	return nil
}

func (c *Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Price()
	}
	return total
}

// Package shop ties the catalog to a single customer's cart: ranked search and
// fragment-based add/remove.
//
// A Store is not safe for concurrent use.
package shop

import (
	"sort"
	"strings"

	"CartStore/internal/cart"
	"CartStore/internal/catalog"
)

type Store struct {
	items []catalog.Item
	cart  *cart.Cart
}

func New(items []catalog.Item) *Store {
	cp := make([]catalog.Item, len(items))
	copy(cp, items)
	return &Store{items: cp, cart: cart.New()}
}

// Items returns the full catalog.
func (s *Store) Items() []catalog.Item {
	out := make([]catalog.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Cart returns the current cart contents in insertion order.
func (s *Store) Cart() []catalog.Item {
	return s.cart.Items()
}

// SearchByName ranks catalog items whose name contains fragment.
func (s *Store) SearchByName(fragment string) []catalog.Item {
	return s.rank(s.matchName(fragment))
}

// SearchByHashtag ranks catalog items tagged exactly with tag.
func (s *Store) SearchByHashtag(tag string) []catalog.Item {
	candidates := make([]catalog.Item, 0)
	for _, it := range s.items {
		if it.HasHashtag(tag) {
			candidates = append(candidates, it)
		}
	}
	return s.rank(candidates)
}

// AddItem puts the single catalog item matching fragment that is not yet in the cart.
func (s *Store) AddItem(fragment string) (catalog.Item, error) {
	candidates := s.matchName(fragment)
	shared := s.inCart(candidates)

	// Order matters: an empty candidate list also passes the first check's arithmetic.
	if len(candidates)-len(shared) > 1 {
		return catalog.Item{}, catalog.NewLookupError("add", fragment, catalog.ErrTooManyMatches, newNames(candidates, shared)...)
	}
	if len(candidates) == 0 {
		return catalog.Item{}, catalog.NewLookupError("add", fragment, catalog.ErrNotFound)
	}
	if len(candidates) == len(shared) {
		return catalog.Item{}, catalog.NewLookupError("add", fragment, catalog.ErrAlreadyExists, catalog.Names(shared)...)
	}

	sharedNames := nameSet(shared)
	for _, it := range candidates {
		if _, ok := sharedNames[it.Name()]; ok {
			continue
		}
		if err := s.cart.Add(it); err != nil {
			return catalog.Item{}, err
		}
		return it, nil
	}
	return catalog.Item{}, catalog.NewLookupError("add", fragment, catalog.ErrNotFound)
}

// RemoveItem drops the single cart item whose name contains fragment.
func (s *Store) RemoveItem(fragment string) (catalog.Item, error) {
	shared := s.inCart(s.matchName(fragment))

	if len(shared) > 1 {
		return catalog.Item{}, catalog.NewLookupError("remove", fragment, catalog.ErrTooManyMatches, catalog.Names(shared)...)
	}
	if len(shared) == 0 {
		return catalog.Item{}, catalog.NewLookupError("remove", fragment, catalog.ErrNotFound)
	}

	it := shared[0]
	if err := s.cart.Remove(it.Name()); err != nil {
		return catalog.Item{}, err
	}
	return it, nil
}

// Checkout returns the cart subtotal. The cart is left untouched.
func (s *Store) Checkout() int64 {
	return s.cart.Subtotal()
}

func (s *Store) matchName(fragment string) []catalog.Item {
	out := make([]catalog.Item, 0)
	for _, it := range s.items {
		if strings.Contains(it.Name(), fragment) {
			out = append(out, it)
		}
	}
	return out
}

// inCart keeps the candidates whose name is in the cart.
func (s *Store) inCart(candidates []catalog.Item) []catalog.Item {
	names := nameSet(s.cart.Items())

	out := make([]catalog.Item, 0, len(candidates))
	for _, it := range candidates {
		if _, ok := names[it.Name()]; ok {
			out = append(out, it)
		}
	}
	return out
}

type scored struct {
	item  catalog.Item
	score int
}

// rank drops candidates already in the cart and orders the rest by relevance to the
// cart's hashtags (descending), then by name.
func (s *Store) rank(candidates []catalog.Item) []catalog.Item {
	contents := s.cart.Items()
	names := nameSet(contents)

	counts := make(map[string]int)
	for _, it := range contents {
		for _, h := range it.Hashtags() {
			counts[h]++
		}
	}

	list := make([]scored, 0, len(candidates))
	for _, it := range candidates {
		if _, ok := names[it.Name()]; ok {
			continue
		}

		score := 0
		for _, h := range it.Hashtags() {
			score += counts[h]
		}
		list = append(list, scored{item: it, score: score})
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].item.Name() < list[j].item.Name() })
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	out := make([]catalog.Item, len(list))
	for i, sc := range list {
		out[i] = sc.item
	}
	return out
}

func nameSet(items []catalog.Item) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it.Name()] = struct{}{}
	}
	return m
}

// newNames lists candidate names absent from shared. Duplicate catalog names
// stay in the list so the error shows every entry that made the match ambiguous.
func newNames(candidates, shared []catalog.Item) []string {
	skip := nameSet(shared)

	out := make([]string, 0, len(candidates))
	for _, it := range candidates {
		if _, ok := skip[it.Name()]; ok {
			continue
		}
		out = append(out, it.Name())
	}
	return out
}

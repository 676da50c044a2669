package catalog

import "context"

// MemSource serves a fixed set of items.
type MemSource struct {
	items []Item
}

func NewMemSource(items ...Item) *MemSource {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &MemSource{items: cp}
}

func (s *MemSource) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

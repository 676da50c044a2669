package catalog

import "encoding/json"

// Item is an immutable catalog entry. Items are matched by name.
type Item struct {
	name        string
	price       int64
	hashtags    []string
	description string
}

// NewItem builds an Item. Duplicate hashtags collapse so the tag list behaves as a set.
func NewItem(name string, price int64, hashtags []string, description string) Item {
	tags := make([]string, 0, len(hashtags))
	seen := make(map[string]struct{}, len(hashtags))
	for _, h := range hashtags {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		tags = append(tags, h)
	}

	return Item{
		name:        name,
		price:       price,
		hashtags:    tags,
		description: description,
	}
}

func (i Item) Name() string        { return i.name }
func (i Item) Price() int64        { return i.price }
func (i Item) Description() string { return i.description }

func (i Item) Hashtags() []string {
	out := make([]string, len(i.hashtags))
	copy(out, i.hashtags)
	return out
}

func (i Item) HasHashtag(tag string) bool {
	for _, h := range i.hashtags {
		if h == tag {
			return true
		}
	}
	return false
}

type itemJSON struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Hashtags    []string `json:"hashtags"`
	Description string   `json:"description"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		Name:        i.name,
		Price:       i.price,
		Hashtags:    i.Hashtags(),
		Description: i.description,
	})
}

func (i *Item) UnmarshalJSON(b []byte) error {
	var v itemJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*i = NewItem(v.Name, v.Price, v.Hashtags, v.Description)
	return nil
}

// Names returns the names of items in order.
func Names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.name)
	}
	return out
}

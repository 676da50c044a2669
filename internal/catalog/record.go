package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Record is one raw catalog entry as it appears in a source document.
type Record struct {
	Name        string   `yaml:"name"        json:"name"        validate:"required"`
	Price       Price    `yaml:"price"       json:"price"       validate:"min=0"`
	Hashtags    []string `yaml:"hashtags"    json:"hashtags"    validate:"dive,required"`
	Description string   `yaml:"description" json:"description"`
}

func (r Record) Item() Item {
	return NewItem(r.Name, int64(r.Price), r.Hashtags, r.Description)
}

// Document is the shape shared by file and HTTP sources.
type Document struct {
	Items []Record `yaml:"items" json:"items"`
}

// Price accepts an integer, a float (truncated toward zero) or a decimal integer string.
type Price int64

func (p *Price) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("price: expected scalar, got %s", node.Tag)
	}

	switch node.Tag {
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		*p = Price(n)
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		return p.setFloat(f)
	case "!!str":
		return p.setString(node.Value)
	default:
		return fmt.Errorf("price: unsupported value %q", node.Value)
	}
}

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		return p.setString(str)
	}

	n := json.Number(s)
	if i, err := n.Int64(); err == nil {
		*p = Price(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("price: unsupported value %s", s)
	}
	return p.setFloat(f)
}

func (p *Price) setFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return fmt.Errorf("price: %v out of range", f)
	}
	*p = Price(int64(f))
	return nil
}

func (p *Price) setString(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("price: %q is not an integer", s)
	}
	*p = Price(n)
	return nil
}

// Items validates records and converts them to Items.
func Items(records []Record) ([]Item, error) {
	out := make([]Item, 0, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: item %d (%q): %v", ErrInvalidRecord, i, r.Name, err)
		}
		out = append(out, r.Item())
	}
	return out, nil
}

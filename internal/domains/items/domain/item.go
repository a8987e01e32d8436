package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Item is one stocked product as returned by the remote store.
type Item struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
}

// Fields is the editable, id-less part of an item. Drafts are Fields values.
type Fields struct {
	Name     string
	Price    float64
	Quantity int
}

// Field names a single editable attribute of a draft.
type Field string

const (
	FieldName     Field = "name"
	FieldPrice    Field = "price"
	FieldQuantity Field = "quantity"
)

// Direction is the only input of a quantity adjustment; the store applies the ±1.
type Direction int

const (
	Increment Direction = iota + 1
	Decrement
)

var (
	ErrEmptyID          = errors.New("item id is required")
	ErrInvalidID        = errors.New("item id cannot be a dot segment")
	ErrInvalidPrice     = errors.New("price must be a non-negative number")
	ErrInvalidQuantity  = errors.New("quantity must be a non-negative integer")
	ErrUnknownField     = errors.New("unknown item field")
	ErrInvalidDirection = errors.New("quantity direction must be increment or decrement")
)

// NewFields returns the initial value of a new-item draft.
func NewFields() Fields {
	return Fields{Name: "", Price: 0, Quantity: 0}
}

// Fields copies the editable values of the item.
func (i Item) Fields() Fields {
	return Fields{Name: i.Name, Price: i.Price, Quantity: i.Quantity}
}

// WithID builds an item from the fields and a store-assigned id.
func (f Fields) WithID(id string) Item {
	return Item{ID: id, Name: f.Name, Price: f.Price, Quantity: f.Quantity}
}

// ParseField returns a copy of f with the named field replaced by the parsed raw input.
// Input that does not parse is rejected and f is returned unchanged alongside the error.
func ParseField(f Fields, field Field, raw string) (Fields, error) {
	switch field {
	case FieldName:
		f.Name = raw
		return f, nil
	case FieldPrice:
		price, err := parsePrice(raw)
		if err != nil {
			return f, err
		}
		f.Price = price
		return f, nil
	case FieldQuantity:
		quantity, err := parseQuantity(raw)
		if err != nil {
			return f, err
		}
		f.Quantity = quantity
		return f, nil
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
}

// ParseFieldName maps user input such as "price" onto a Field.
func ParseFieldName(raw string) (Field, error) {
	switch field := Field(strings.ToLower(strings.TrimSpace(raw))); field {
	case FieldName, FieldPrice, FieldQuantity:
		return field, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
	}
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	// Decimal only; ParseFloat also takes hex floats with digit separators.
	if strings.ContainsAny(raw, "xX_") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return price, nil
}

func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
	}
	return quantity, nil
}

// Action is the wire value sent in the quantity endpoint's action parameter.
func (d Direction) Action() string {
	switch d {
	case Increment:
		return "add"
	case Decrement:
		return "remove"
	default:
		return ""
	}
}

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == Increment || d == Decrement
}

func (d Direction) String() string {
	switch d {
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	default:
		return "unknown"
	}
}

// ParseDirection accepts both the wire values and their long names.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "add", "increment", "inc", "+":
		return Increment, nil
	case "remove", "decrement", "dec", "-":
		return Decrement, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

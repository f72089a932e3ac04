package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"options-analytics/internal/errors"
)

// TemplateLeg describes one leg of a strategy template. The strike is
// placed WidthSteps strike-widths away from the anchor strike.
type TemplateLeg struct {
	Type       OptionType
	Position   Position
	WidthSteps int
	Quantity   int
}

// Template describes a named multi-leg strategy shape.
type Template struct {
	Name        string
	Description string
	Legs        []TemplateLeg
}

// TemplateSet is a caller-constructed collection of strategy templates.
// Independent callers hold independent sets; there is no process-wide
// registry.
type TemplateSet struct {
	templates map[string]Template
}

// NewTemplateSet creates a template set from the given templates.
func NewTemplateSet(templates ...Template) *TemplateSet {
	set := &TemplateSet{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		set.templates[t.Name] = t
	}
	return set
}

// DefaultTemplates returns a set with the common strategy shapes.
func DefaultTemplates() *TemplateSet {
	return NewTemplateSet(
		Template{
			Name:        "long-call",
			Description: "Buy a call",
			Legs: []TemplateLeg{
				{Type: Call, Position: Long, WidthSteps: 0, Quantity: 1},
			},
		},
		Template{
			Name:        "long-put",
			Description: "Buy a put",
			Legs: []TemplateLeg{
				{Type: Put, Position: Long, WidthSteps: 0, Quantity: 1},
			},
		},
		Template{
			Name:        "straddle",
			Description: "Buy ATM call + put",
			Legs: []TemplateLeg{
				{Type: Call, Position: Long, WidthSteps: 0, Quantity: 1},
				{Type: Put, Position: Long, WidthSteps: 0, Quantity: 1},
			},
		},
		Template{
			Name:        "strangle",
			Description: "Buy OTM call + put",
			Legs: []TemplateLeg{
				{Type: Call, Position: Long, WidthSteps: 1, Quantity: 1},
				{Type: Put, Position: Long, WidthSteps: -1, Quantity: 1},
			},
		},
		Template{
			Name:        "bull-call-spread",
			Description: "Buy lower strike call, sell higher strike call",
			Legs: []TemplateLeg{
				{Type: Call, Position: Long, WidthSteps: 0, Quantity: 1},
				{Type: Call, Position: Short, WidthSteps: 1, Quantity: 1},
			},
		},
		Template{
			Name:        "bear-put-spread",
			Description: "Buy higher strike put, sell lower strike put",
			Legs: []TemplateLeg{
				{Type: Put, Position: Long, WidthSteps: 0, Quantity: 1},
				{Type: Put, Position: Short, WidthSteps: -1, Quantity: 1},
			},
		},
		Template{
			Name:        "iron-condor",
			Description: "Sell OTM call + put, buy further OTM call + put",
			Legs: []TemplateLeg{
				{Type: Put, Position: Long, WidthSteps: -2, Quantity: 1},
				{Type: Put, Position: Short, WidthSteps: -1, Quantity: 1},
				{Type: Call, Position: Short, WidthSteps: 1, Quantity: 1},
				{Type: Call, Position: Long, WidthSteps: 2, Quantity: 1},
			},
		},
	)
}

// Get returns the named template.
func (ts *TemplateSet) Get(name string) (Template, error) {
	t, ok := ts.templates[name]
	if !ok {
		return Template{}, errors.ErrTemplateNotFound
	}
	return t, nil
}

// Names returns the template names in sorted order.
func (ts *TemplateSet) Names() []string {
	names := make([]string, 0, len(ts.templates))
	for name := range ts.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the template into a strategy. The anchor strike is
// usually the ATM strike; width is the strike spacing; premiums must
// supply one entry per template leg.
func (t Template) Build(symbol string, anchor, width decimal.Decimal, expiry time.Time, premiums []decimal.Decimal) (*Strategy, error) {
	if len(premiums) != len(t.Legs) {
		return nil, errors.NewInvalidInputError("premiums", len(premiums), "must match template leg count")
	}
	legs := make([]*OptionContract, 0, len(t.Legs))
	for i, tl := range t.Legs {
		strike := anchor.Add(width.Mul(decimal.NewFromInt(int64(tl.WidthSteps))))
		leg, err := NewOptionContract(symbol, strike, expiry, tl.Type, tl.Position, tl.Quantity, premiums[i])
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return NewStrategy(t.Name, legs...)
}

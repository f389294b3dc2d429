// Package seed loads rule tables from a YAML file at startup.
package seed

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/GTDGit/promo_api/internal/models"
)

type pricingEntry struct {
	Platform   string  `yaml:"platform"`
	Commission string  `yaml:"commission"`
	Color      *string `yaml:"color"`
}

type logisticsEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Carrier   string `yaml:"carrier"`
	Price     string `yaml:"price"`
	MaxWeight string `yaml:"maxWeight"`
}

type file struct {
	Pricing   []pricingEntry   `yaml:"pricing"`
	Logistics []logisticsEntry `yaml:"logistics"`
}

// Rules is a parsed seed file.
type Rules struct {
	Pricing   []models.PricingRule
	Logistics []models.LogisticsRule
}

// LoadRules reads and validates the seed file at path.
func LoadRules(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules seed: %w", err)
	}
	defer f.Close()
	return ParseRules(f)
}

// ParseRules decodes a seed document. Numbers may be written as YAML numbers
// or strings; a missing maxWeight means no weight limit.
func ParseRules(r io.Reader) (*Rules, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode rules seed: %w", err)
	}

	out := &Rules{}
	for i, p := range doc.Pricing {
		if strings.TrimSpace(p.Platform) == "" {
			return nil, fmt.Errorf("pricing[%d]: platform is required", i)
		}
		c, err := decimal.NewFromString(strings.TrimSpace(p.Commission))
		if err != nil {
			return nil, fmt.Errorf("pricing[%d] %s: commission: %w", i, p.Platform, err)
		}
		if c.IsNegative() || c.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("pricing[%d] %s: commission must be within 0..100", i, p.Platform)
		}
		out.Pricing = append(out.Pricing, models.PricingRule{Platform: strings.TrimSpace(p.Platform), Commission: c, Color: p.Color})
	}

	for i, l := range doc.Logistics {
		if strings.TrimSpace(l.ID) == "" {
			return nil, fmt.Errorf("logistics[%d]: id is required", i)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(l.Price))
		if err != nil {
			return nil, fmt.Errorf("logistics[%d] %s: price: %w", i, l.ID, err)
		}
		rule := models.LogisticsRule{ID: l.ID, Name: l.Name, Carrier: l.Carrier, Price: price}
		if mw := strings.TrimSpace(l.MaxWeight); mw != "" {
			w, err := decimal.NewFromString(mw)
			if err != nil {
				return nil, fmt.Errorf("logistics[%d] %s: maxWeight: %w", i, l.ID, err)
			}
			rule.MaxWeight = &w
		}
		out.Logistics = append(out.Logistics, rule)
	}
	return out, nil
}

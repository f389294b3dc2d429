package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
pricing:
  - platform: Amazon
    commission: 15.3
    color: "#ff9900"
  - platform: eBay
    commission: "12"
logistics:
  - id: rm48
    name: Royal Mail 48
    carrier: Royal Mail
    price: 3.50
    maxWeight: 2
  - id: dpd-z
    name: DPD Highlands-Z
    carrier: DPD
    price: 14
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, rules.Pricing, 2)
	assert.Equal(t, "Amazon", rules.Pricing[0].Platform)
	assert.Equal(t, "15.3", rules.Pricing[0].Commission.String())
	require.NotNil(t, rules.Pricing[0].Color)
	assert.Nil(t, rules.Pricing[1].Color)

	require.Len(t, rules.Logistics, 2)
	require.NotNil(t, rules.Logistics[0].MaxWeight)
	assert.Equal(t, "2", rules.Logistics[0].MaxWeight.String())
	assert.Nil(t, rules.Logistics[1].MaxWeight)
}

func TestParseRules_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad commission": "pricing:\n  - platform: A\n    commission: lots\n",
		"over 100":       "pricing:\n  - platform: A\n    commission: 101\n",
		"no platform":    "pricing:\n  - commission: 1\n",
		"bad price":      "logistics:\n  - id: x\n    price: free\n",
		"unknown field":  "pricing:\n  - platform: A\n    commission: 1\n    rate: 2\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRules(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Len(t, rules.Pricing, 2)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRules_Empty(t *testing.T) {
	rules, err := ParseRules(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rules.Pricing)
}

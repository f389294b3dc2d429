package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"12.95", "12.95", true},
		{" £1,299.95 ", "1299.95", true},
		{"0", "0", true},
		{"", "", false},
		{"   ", "", false},
		{"abc", "", false},
		{"-4", "", false},
		{"12.9.5", "", false},
		{"12,95", "", false},
		{"1,2345.00", "", false},
		{"12,345", "12345", true},
		{"£12,345,678.5", "12345678.5", true},
		{"9.999", "10", true},
		{"12.945", "12.95", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseOverride(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assertDecimal(t, tt.want, got)
			}
		})
	}
}

func TestOverrides_SetAndLookup(t *testing.T) {
	o := Overrides{}

	assert.True(t, o.Set("ktl-01", "9.95"))
	v, ok := o.Lookup(" KTL-01")
	assert.True(t, ok)
	assertDecimal(t, "9.95", v)

	assert.False(t, o.Set("KTL-01", "oops"))
	_, ok = o.Lookup("KTL-01")
	assert.False(t, ok, "invalid input clears the override")

	var none Overrides
	_, ok = none.Lookup("KTL-01")
	assert.False(t, ok)
}

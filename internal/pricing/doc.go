// Package pricing turns a product, a bulk discount rule, and the platform and
// logistics rule tables into a promotional price, a per-unit margin breakdown,
// and a velocity-weighted campaign projection.
//
// Every function here is a pure function of its arguments. Nothing logs,
// performs I/O, or keeps state between calls, so callers may invoke any of
// them concurrently. Missing rules fall back to documented defaults and the
// fallback is reported through a Defaulted flag rather than an error.
package pricing

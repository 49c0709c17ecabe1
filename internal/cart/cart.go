// Package cart holds a session's pending product selections and persists them
// outside the request lifetime. The wire format is a single line of
// "productID:qty" pairs joined by commas; product ids containing ':' or ','
// are out of scope.
package cart

import (
	"sort"
	"strconv"
	"strings"
)

// Cart maps a product id to its requested quantity. Quantities are always
// positive; a zero or negative quantity removes the entry instead.
type Cart map[string]int

// Count returns the total number of units across all entries, for the
// cart badge in the nav.
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		n += qty
	}
	return n
}

// Encode serializes the cart as "pid1:qty1,pid2:qty2" with keys in sorted
// order, so encoding the same cart twice yields identical bytes.
func (c Cart) Encode() string {
	keys := make([]string, 0, len(c))
	for pid := range c {
		keys = append(keys, pid)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	var sb strings.Builder
	for i, pid := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(pid)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(c[pid]))
	}
	return sb.String()
}

// Decode parses the wire format. Malformed input yields an empty cart rather
// than an error; a half-written or corrupted cart should never break a page.
func Decode(text string) Cart {
	text = strings.TrimSpace(text)
	c := Cart{}
	if text == "" {
		return c
	}
	for _, part := range strings.Split(text, ",") {
		pid, qtyStr, ok := strings.Cut(part, ":")
		if !ok {
			return Cart{}
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return Cart{}
		}
		if qty > 0 {
			c[pid] = qty
		}
	}
	return c
}

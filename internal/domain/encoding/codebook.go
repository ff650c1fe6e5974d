// Package encoding maps categorical identifiers to integer codes and lays out
// the model's feature matrix.
package encoding

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
)

// Codebook assigns codes 0..n-1 to sorted distinct values.
type Codebook struct {
	values []string
	index  map[string]int
}

// NewCodebook builds a codebook from values. Duplicates and empty strings are
// dropped.
func NewCodebook(values []string) Codebook {
	seen := make(map[string]struct{}, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)
	return fromSorted(distinct)
}

func fromSorted(values []string) Codebook {
	index := make(map[string]int, len(values))
	for i, v := range values {
		index[v] = i
	}
	return Codebook{values: values, index: index}
}

// Encode returns the code of v.
func (c Codebook) Encode(v string) (int, bool) {
	code, ok := c.index[v]
	return code, ok
}

// Decode returns the value with code.
func (c Codebook) Decode(code int) (string, error) {
	if code < 0 || code >= len(c.values) {
		return "", fmt.Errorf("%w: %d", ErrUnknownCode, code)
	}
	return c.values[code], nil
}

// Contains reports whether v has a code.
func (c Codebook) Contains(v string) bool {
	_, ok := c.index[v]
	return ok
}

// Len returns the number of codes.
func (c Codebook) Len() int { return len(c.values) }

// Values returns a copy of the coded values in code order.
func (c Codebook) Values() []string {
	return append([]string(nil), c.values...)
}

// GobEncode implements gob.GobEncoder.
func (c Codebook) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.values); err != nil {
		return nil, fmt.Errorf("encode codebook: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (c *Codebook) GobDecode(data []byte) error {
	var values []string
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&values); err != nil {
		return fmt.Errorf("decode codebook: %w", err)
	}
	*c = fromSorted(values)
	return nil
}

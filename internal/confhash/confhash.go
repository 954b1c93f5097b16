// Package confhash fingerprints canonical configuration trees.
//
// A canonical tree holds only map[string]any, []any, and JSON-encodable
// scalars; callers render richer values (functions, nested schemas) into
// strings before hashing. One serialization per kind and a fixed key order
// keep the fingerprint stable across processes, so structurally identical
// configurations always collide.
package confhash

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	gojson "github.com/goccy/go-json"
)

// Sum returns the stable fingerprint of a canonical value tree, rendered as
// lowercase hex.
func Sum(v any) string {
	return strconv.FormatUint(xxhash.Sum64(Canonical(v)), 16)
}

// Key returns the canonical serialization itself, usable as an order-free
// deduplication key where the full form matters more than compactness.
func Key(v any) string { return string(Canonical(v)) }

// Canonical serializes a value tree deterministically: map keys sorted
// lexicographically, slice order preserved, scalars in canonical JSON.
func Canonical(v any) []byte {
	var b bytes.Buffer
	writeValue(&b, v)
	return b.Bytes()
}

func writeValue(b *bytes.Buffer, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeScalar(b, k)
			b.WriteByte(':')
			writeValue(b, t[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	default:
		writeScalar(b, v)
	}
}

func writeScalar(b *bytes.Buffer, v any) {
	enc, err := gojson.Marshal(v)
	if err != nil {
		// Non-encodable scalars still need a deterministic rendering.
		fmt.Fprintf(b, "%q", fmt.Sprintf("%v", v))
		return
	}
	b.Write(enc)
}

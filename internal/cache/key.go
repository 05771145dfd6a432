package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key written by this service.
const KeyPrefix = "ethnos:"

// Key builds a deterministic cache key from an operation name and its
// arguments. Maps are canonicalized by sorted keys so logically identical
// argument sets always produce the same key; the joined form is hashed to
// keep keys short and free of user input.
func Key(op string, parts ...any) string {
	segs := make([]string, 0, len(parts)+1)
	segs = append(segs, op)
	for _, p := range parts {
		segs = append(segs, canonical(p))
	}
	sum := sha256.Sum256([]byte(strings.Join(segs, "::")))
	return KeyPrefix + op + ":" + hex.EncodeToString(sum[:])
}

func canonical(v any) string {
	switch m := v.(type) {
	case map[string]string:
		if len(m) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + m[k]
		}
		return "{" + strings.Join(pairs, ",") + "}"
	case nil:
		return "{}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

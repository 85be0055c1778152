package cache

import (
	"encoding/json"
	"fmt"
)

// Key builds a deterministic cache key from a namespace prefix and a
// parameter value: prefix + ":" + canonical JSON of params. A nil params
// collapses to the bare prefix.
//
// Two logically identical requests must map to the same key no matter how a
// caller assembled its parameter object, so the params are canonicalized
// before serialization.
func Key(prefix string, params any) string {
	if params == nil {
		return prefix
	}
	return prefix + ":" + canonicalJSON(params)
}

// canonicalJSON serializes v with stable key ordering: marshal, re-read into
// generic values, marshal again. encoding/json emits map keys sorted, and the
// generic round trip normalizes struct field order and drops omitted fields,
// so the result is order-independent.
func canonicalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Key building must not fail; fall back to the Go representation,
		// which at worst costs a duplicate upstream fetch.
		return fmt.Sprintf("%v", v)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return string(data)
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return string(data)
	}
	return string(out)
}

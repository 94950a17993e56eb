// Package payload walks the generic JSON tree produced by decoding an
// untrusted e-commerce payload (map[string]interface{}, []interface{},
// and scalars). The payload has no fixed schema; extraction looks for
// known keys anywhere in the structure and treats everything missing
// as an empty result.
package payload

// maxDepth bounds recursion so a maliciously deep document cannot
// exhaust the stack. Real payloads nest a handful of levels; anything
// below this limit is silently ignored.
const maxDepth = 512

// CollectStrings returns every string value stored under the given key
// anywhere in the tree. Array elements keep document order; object
// entries follow map iteration order, which encoding/json already
// randomizes, so callers must not depend on ordering across keys.
// Non-string values under the key are descended into, not collected.
// The input is never mutated.
func CollectStrings(node interface{}, key string) []string {
	var out []string
	collectStrings(node, key, 0, &out)
	return out
}

func collectStrings(node interface{}, key string, depth int, out *[]string) {
	if depth > maxDepth {
		return
	}

	switch n := node.(type) {
	case map[string]interface{}:
		for k, v := range n {
			if k == key {
				if s, ok := v.(string); ok {
					*out = append(*out, s)
					continue
				}
			}
			collectStrings(v, key, depth+1, out)
		}
	case []interface{}:
		for _, item := range n {
			collectStrings(item, key, depth+1, out)
		}
	}
}

// At follows a fixed key path through nested objects and returns the
// value at the end, or nil if any step is missing or not an object.
func At(node interface{}, path ...string) interface{} {
	cur := node
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// Array returns the value as a JSON array, or nil if it is anything else.
func Array(node interface{}) []interface{} {
	arr, _ := node.([]interface{})
	return arr
}

// String returns the string stored under key in an object node, or ""
// if the node is not an object, the key is absent, or the value is not
// a string.
func String(node interface{}, key string) string {
	obj, ok := node.(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}

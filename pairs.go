package configmapper

import "fmt"

// KeyValuePair is one supplied input: a value with an optional key.
// Pairs without a key are positional.
type KeyValuePair struct {
	key    string
	hasKey bool
	value  Value
}

// Pair creates a keyed pair.  The value goes through ValueOf.
func Pair(key string, value interface{}) KeyValuePair {
	return KeyValuePair{
		key:    key,
		hasKey: true,
		value:  ValueOf(value),
	}
}

// Positional creates a pair that is resolved by its position
func Positional(value interface{}) KeyValuePair {
	return KeyValuePair{
		value: ValueOf(value),
	}
}

func (p KeyValuePair) Key() (string, bool) { return p.key, p.hasKey }
func (p KeyValuePair) Value() Value        { return p.value }

// Equal compares keys only.  Positional pairs are never equal to
// anything since their meaning depends on where they are.
func (p KeyValuePair) Equal(other KeyValuePair) bool {
	return p.hasKey && other.hasKey && p.key == other.key
}

func (p KeyValuePair) String() string {
	if !p.hasKey {
		return p.value.String()
	}
	return fmt.Sprintf("%s=%s", p.key, p.value)
}

// mergePairs returns a new slice holding existing followed by added,
// dropping any pair that is Equal to one already kept.
func mergePairs(existing []KeyValuePair, added []KeyValuePair) []KeyValuePair {
	merged := make([]KeyValuePair, 0, len(existing)+len(added))
	seen := make(map[string]struct{}, len(existing)+len(added))
	for _, list := range [][]KeyValuePair{existing, added} {
		for _, p := range list {
			if p.hasKey {
				if _, ok := seen[p.key]; ok {
					debugf("dropping duplicate pair %s", p)
					continue
				}
				seen[p.key] = struct{}{}
			}
			merged = append(merged, p)
		}
	}
	return merged
}

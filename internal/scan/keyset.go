package scan

import "sort"

// KeySet is the set of asset keys referenced by the corpus. Membership is
// exact-string; no case folding or percent-decoding is applied.
type KeySet struct {
	keys map[string]struct{}
}

func NewKeySet(keys ...string) KeySet {
	s := KeySet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

func (s KeySet) add(key string) {
	s.keys[key] = struct{}{}
}

func (s KeySet) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s KeySet) Len() int {
	return len(s.keys)
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package gc

// Referenced reports whether a key is referenced by the corpus.
type Referenced interface {
	Has(key string) bool
}

// Reconcile returns the remote keys that are not referenced, in remote order.
// Keys are compared as exact strings.
func Reconcile(remote []string, referenced Referenced) []string {
	candidates := make([]string, 0)
	for _, key := range remote {
		if referenced.Has(key) {
			continue
		}
		candidates = append(candidates, key)
	}
	return candidates
}

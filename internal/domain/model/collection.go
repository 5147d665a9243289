package model

// Identifiable is implemented by entities compared by identifier only.
type Identifiable interface {
	Identity() string
}

// AddToCollectionIfMissing merges candidates into collection by identifier.
// Nil candidates and candidates without an identifier are skipped, as are
// duplicates among the candidates themselves. New entries come first, followed
// by the existing collection in its original order. When nothing is added the
// input slice is returned unchanged.
func AddToCollectionIfMissing[T Identifiable](collection []T, candidates ...*T) []T {
	if len(candidates) == 0 {
		return collection
	}

	seen := make(map[string]struct{}, len(collection)+len(candidates))
	for _, item := range collection {
		seen[item.Identity()] = struct{}{}
	}

	var added []T
	for _, c := range candidates {
		if c == nil {
			continue
		}
		id := (*c).Identity()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		added = append(added, *c)
	}
	if len(added) == 0 {
		return collection
	}

	merged := make([]T, 0, len(added)+len(collection))
	merged = append(merged, added...)
	return append(merged, collection...)
}

// CompareIdentity reports whether a and b refer to the same entity.
// Two nil values are equal; a nil and a non-nil value are not.
func CompareIdentity[T Identifiable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return (*a).Identity() == (*b).Identity()
}

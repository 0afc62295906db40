package vm

// ReferenceCounter tracks, across every evaluation stack, slot, and
// compound item reachable from the current invocation stack, how many
// live references exist to each Array/Struct/Map/Buffer. Only these four
// kinds are tracked per item (needTrack); references to primitives and
// Null add to the total count but are not tracked individually. The total
// live count drives Limits.MaxStackSize enforcement in Engine's
// post-execute hook.
type ReferenceCounter struct {
	tracked      map[Item]struct{}
	zeroReferred map[Item]struct{}
	count        int
}

// NewReferenceCounter returns an empty counter.
func NewReferenceCounter() *ReferenceCounter {
	return &ReferenceCounter{
		tracked:      make(map[Item]struct{}),
		zeroReferred: make(map[Item]struct{}),
	}
}

// Count returns the total number of references to items of every kind,
// tracked or not (the figure Limits.MaxStackSize bounds).
func (rc *ReferenceCounter) Count() int { return rc.count }

// AddReference records that parent now holds one more reference to item
// (parent putting item into a compound it owns).
func (rc *ReferenceCounter) AddReference(item, parent Item) {
	rc.count++
	if !needTrack(item) {
		return
	}
	rc.tracked[item] = struct{}{}
	h := item.(compoundItem).refHeader()
	if h.objectReferences == nil {
		h.objectReferences = make(map[Item]int)
	}
	h.objectReferences[parent]++
}

// RemoveReference undoes one AddReference(item, parent).
func (rc *ReferenceCounter) RemoveReference(item, parent Item) {
	rc.count--
	if !needTrack(item) {
		return
	}
	h := item.(compoundItem).refHeader()
	if h.objectReferences != nil {
		if h.objectReferences[parent] <= 1 {
			delete(h.objectReferences, parent)
		} else {
			h.objectReferences[parent]--
		}
	}
	if h.stackReferences == 0 {
		rc.zeroReferred[item] = struct{}{}
	}
}

// AddStackReference records count additional direct references from an
// evaluation stack or slot to item.
func (rc *ReferenceCounter) AddStackReference(item Item, count int) {
	rc.count += count
	if !needTrack(item) {
		return
	}
	rc.tracked[item] = struct{}{}
	h := item.(compoundItem).refHeader()
	h.stackReferences += count
	delete(rc.zeroReferred, item)
}

// RemoveStackReference undoes one direct stack/slot reference to item.
func (rc *ReferenceCounter) RemoveStackReference(item Item) {
	rc.count--
	if !needTrack(item) {
		return
	}
	h := item.(compoundItem).refHeader()
	h.stackReferences--
	if h.stackReferences == 0 {
		rc.zeroReferred[item] = struct{}{}
	}
}

// CheckZeroReferred runs Tarjan's algorithm over every zero-stack-reference
// tracked item, frees any strongly connected component none of whose
// members is reachable from outside the component, and returns the live
// count after collection. Engine calls this only when Count() has crossed
// Limits.MaxStackSize, matching spec.md's "collection is strictly a
// post-step activity" rule.
func (rc *ReferenceCounter) CheckZeroReferred() int {
	if len(rc.zeroReferred) == 0 {
		return rc.count
	}

	roots := make([]Item, 0, len(rc.zeroReferred))
	for item := range rc.zeroReferred {
		roots = append(roots, item)
	}

	components := tarjanSCC(roots)
	for _, comp := range components {
		if isCollectible(comp) {
			rc.free(comp)
		}
	}

	return rc.count
}

// isCollectible reports whether every reference into items in comp
// originates from another member of comp (i.e. the component has no
// external holders and can be dropped as a whole, breaking reference
// cycles that pure refcounting cannot free on its own).
func isCollectible(comp []Item) bool {
	inComp := make(map[Item]struct{}, len(comp))
	for _, it := range comp {
		inComp[it] = struct{}{}
	}
	for _, it := range comp {
		h := it.(compoundItem).refHeader()
		if h.stackReferences > 0 {
			return false
		}
		for parent, refs := range h.objectReferences {
			if refs == 0 {
				continue
			}
			if _, ok := inComp[parent]; !ok {
				return false
			}
		}
	}
	return true
}

func (rc *ReferenceCounter) free(comp []Item) {
	for _, it := range comp {
		h := it.(compoundItem).refHeader()
		for _, refs := range h.objectReferences {
			rc.count -= refs
		}
		delete(rc.tracked, it)
		delete(rc.zeroReferred, it)
	}
}

package engine

// Query looks up name and returns its value. The returned bool is false
// if name is not present, in which case value is the empty string. No
// lock is held on the tree once Query returns.
//
// Time complexity: O(height) lock acquisitions; O(height) comparisons.
func (t *Tree) Query(name string) (value string, found bool, err error) {
	if name == "" {
		return "", false, ErrEmptyKey
	}

	t.root.readLock()
	target, _ := search(name, t.root, false)
	if target == nil {
		return "", false, nil
	}

	value = target.value
	target.readUnlock()
	return value, true, nil
}

// Add inserts name/value into the tree. If name already exists, Add
// leaves the tree unchanged and returns AlreadyPresent; otherwise it
// links a freshly-created node into place and returns Added.
//
// The new node is allocated while the insertion point's write lock is
// held; this is safe because siblings in other subtrees are untouched by
// that lock. Go's runtime does not expose allocation failure to user
// code (see SPEC_FULL.md's Open Question resolution), so unlike
// db_fine.c's add, Add never conflates "duplicate key" with "could not
// allocate" — only the former can happen here.
func (t *Tree) Add(name, value string) (AddResult, error) {
	if name == "" {
		return 0, ErrEmptyKey
	}

	t.root.writeLock()
	target, parent := search(name, t.root, true)
	if target != nil {
		target.writeUnlock()
		parent.writeUnlock()
		return AlreadyPresent, nil
	}

	// parent is the would-be parent, write-locked; target does not exist.
	fresh := newNode(name, value)
	if name < parent.name {
		parent.left = fresh
	} else {
		parent.right = fresh
	}
	parent.writeUnlock()

	return Added, nil
}

// Remove deletes name from the tree if present, returning whether
// anything was removed.
//
// Two of the three cases (target has zero or one child) just splice
// target's surviving child into its parent's slot. The third — target
// has two children — is the interesting one: Remove releases parent
// immediately (it plays no further role) and walks target's right
// subtree's left spine to find the in-order successor, hand-over-hand,
// keeping target write-locked the entire time. Because target stays
// locked, no other writer can observe the right subtree mid-walk: any
// operation that would need to enter it has to take target's write lock
// first, which is impossible while Remove holds it. Once the successor
// (the node with no left child) is found, its name and value are swapped
// into target — an O(1) operation in Go, since strings are immutable
// header+pointer pairs, not in-place character buffers, so there is no
// analogue of db_fine.c's overflow/realloc concern — and the successor
// itself is spliced out of its former parent's edge and discarded.
func (t *Tree) Remove(name string) (removed bool, err error) {
	if name == "" {
		return false, ErrEmptyKey
	}

	t.root.writeLock()
	target, parent := search(name, t.root, true)
	if target == nil {
		parent.writeUnlock()
		return false, nil
	}

	switch {
	case target.right == nil:
		childEdge(parent, target).set(target.left)
		parent.writeUnlock()

	case target.left == nil:
		childEdge(parent, target).set(target.right)
		parent.writeUnlock()

	default:
		// parent has no further structural role; target is the anchor
		// that protects the successor walk below.
		parent.writeUnlock()
		removeWithTwoChildren(target)
	}

	return true, nil
}

// removeWithTwoChildren implements spec.md §4.5's two-children case.
// target must already be write-locked and have both children present;
// it remains write-locked throughout and is released only at the end,
// once it has taken on the successor's identity in place.
func removeWithTwoChildren(target *Node) {
	target.right.writeLock()
	pnext := edge{of: target, side: rightSide}
	next := target.right

	for next.left != nil {
		next.left.writeLock()
		prevLeft := edge{of: next, side: leftSide}
		prevNext := next
		next = next.left
		pnext = prevLeft
		prevNext.writeUnlock()
	}

	target.name, next.name = next.name, target.name
	target.value, next.value = next.value, target.value
	pnext.set(next.right)

	target.writeUnlock()
}

package database

// window is an immutable, height-indexed view of the most recent blocks of
// the best branch. A new window is built for every change and published as a
// whole, so readers holding an old window keep a consistent view.
type window struct {
	blocks []*StoredBlock // Ascending and contiguous by height.
}

// first returns the oldest block held in the window.
func (w *window) first() StoredBlock {
	return *w.blocks[0]
}

// tip returns the newest block held in the window.
func (w *window) tip() StoredBlock {
	return *w.blocks[len(w.blocks)-1]
}

// get returns the block at the specified height if the window holds it.
func (w *window) get(height uint64) (StoredBlock, bool) {
	first := w.blocks[0].Height()
	if height < first {
		return StoredBlock{}, false
	}

	idx := height - first
	if idx >= uint64(len(w.blocks)) {
		return StoredBlock{}, false
	}

	return *w.blocks[idx], true
}

// replace builds a new window where every block from the specified height
// on is replaced by the provided blocks. The oldest entries are evicted when
// the result holds more than capacity blocks.
func (w *window) replace(fromHeight uint64, blocks []StoredBlock, capacity int) *window {
	keep := int(fromHeight - w.blocks[0].Height())

	nb := make([]*StoredBlock, 0, keep+len(blocks))
	nb = append(nb, w.blocks[:keep]...)
	for i := range blocks {
		sb := blocks[i]
		nb = append(nb, &sb)
	}

	if over := len(nb) - capacity; over > 0 {
		nb = nb[over:]
	}

	return &window{blocks: nb}
}

// list returns a copy of the blocks held in the window from oldest to newest.
func (w *window) list() []StoredBlock {
	resp := make([]StoredBlock, len(w.blocks))
	for i, sb := range w.blocks {
		resp[i] = *sb
	}

	return resp
}

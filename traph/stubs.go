package traph

// DeleteWebEntity, RetrieveWebEntity, and GetWebEntityPagelinks are
// declared but intentionally unimplemented, left unpinned until the
// crawler's actual query needs are known (see DESIGN.md).

// DeleteWebEntity is not implemented.
func (t *Traph) DeleteWebEntity(webEntityID uint32) error {
	return ErrNotImplemented
}

// RetrieveWebEntity is not implemented.
func (t *Traph) RetrieveWebEntity(webEntityID uint32) ([][]byte, error) {
	return nil, ErrNotImplemented
}

// GetWebEntityPagelinks is not implemented.
func (t *Traph) GetWebEntityPagelinks(webEntityID uint32) ([]Link, error) {
	return nil, ErrNotImplemented
}

package ucfg

import (
	"strconv"

	"github.com/awslabs/ucfg-tools/analysis/cfg"
)

// BlockIDs assigns stable string identifiers to the blocks seen during one
// pass over a CFG. The first lookup of a block hands out the next sequential
// id, starting at "0"; later lookups of the same block return the same id.
// Each build or serialization pass owns its own instance; the map is not safe
// for concurrent use.
type BlockIDs struct {
	ids  map[cfg.BlockID]string
	next int
}

// NewBlockIDs returns an empty identity map.
func NewBlockIDs() *BlockIDs {
	return &BlockIDs{ids: make(map[cfg.BlockID]string)}
}

// Get returns the identifier of block b, assigning one on first sight.
func (m *BlockIDs) Get(b cfg.BlockID) string {
	if id, ok := m.ids[b]; ok {
		return id
	}
	id := strconv.Itoa(m.next)
	m.next++
	m.ids[b] = id
	return id
}

// Fresh consumes and returns the next identifier without attaching it to a
// block. The synthetic entry block gets its id this way.
func (m *BlockIDs) Fresh() string {
	id := strconv.Itoa(m.next)
	m.next++
	return id
}

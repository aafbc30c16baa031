package anim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/assets"
	"github.com/Faultbox/creature-render/internal/engine/creature"
)

// AttachMetaData loads swap definitions from the metadata document at key.
// Reattaching drops item swaps the new document no longer defines.
func (e *Engine) AttachMetaData(key string) error {
	if e.manager == nil {
		return fmt.Errorf("%w: %s", creature.ErrResourceNotFound, key)
	}
	doc, err := e.manager.Meta(key)
	if err != nil {
		return resourceErr(err)
	}
	e.SetMetaData(doc)
	e.log.Debug("metadata attached",
		zap.String("key", key),
		zap.Int("skin_swaps", len(doc.SkinSwaps)),
		zap.Int("item_swaps", len(doc.ItemSwaps)))
	return nil
}

// SetMetaData attaches an already decoded metadata document.
func (e *Engine) SetMetaData(doc *assets.MetaDocument) {
	e.meta = doc
	for name, idx := range e.itemSwaps {
		if idx >= len(doc.ItemSwaps[name]) {
			delete(e.itemSwaps, name)
		}
	}
	e.applyUVs()
}

// SkinSwapIndices concatenates the index ranges of the swap's regions in
// mesh region order.
func (e *Engine) SkinSwapIndices(name string) ([]uint16, bool) {
	if e.meta == nil {
		return nil, false
	}
	names, ok := e.meta.SkinSwaps[name]
	if !ok {
		return nil, false
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []uint16
	for _, r := range e.regions {
		if wanted[r.name] {
			out = append(out, e.indices[r.startIndex:r.endIndex]...)
		}
	}
	e.skinSwap = name
	return out, true
}

// ClearSkinSwap returns to the global triangle list.
func (e *Engine) ClearSkinSwap() { e.skinSwap = "" }

// SkinSwap returns the name of the last computed swap, or "" when global.
func (e *Engine) SkinSwap() string { return e.skinSwap }

// SetItemSwap selects UV set index for region. Unknown regions and
// indices are ignored.
func (e *Engine) SetItemSwap(region string, index int) {
	if e.meta == nil || index < 0 || index >= len(e.meta.ItemSwaps[region]) {
		e.log.Warn("item swap not defined", zap.String("region", region), zap.Int("index", index))
		return
	}
	e.itemSwaps[region] = index
	e.applyUVs()
}

// RemoveItemSwap restores region's own UVs.
func (e *Engine) RemoveItemSwap(region string) {
	delete(e.itemSwaps, region)
	e.applyUVs()
}

func (e *Engine) applyUVs() {
	copy(e.uvs, e.restUVs)
	if e.meta == nil {
		return
	}
	for _, r := range e.regions {
		idx, ok := e.itemSwaps[r.name]
		if !ok {
			continue
		}
		swap := e.meta.ItemSwaps[r.name][idx]
		scale := [2]float32{1, 1}
		if swap.Scale != nil {
			scale = *swap.Scale
		}
		for p := r.startPoint; p <= r.endPoint && int(p)*2+1 < len(e.uvs); p++ {
			e.uvs[p*2] = e.restUVs[p*2]*scale[0] + swap.Offset[0]
			e.uvs[p*2+1] = e.restUVs[p*2+1]*scale[1] + swap.Offset[1]
		}
	}
}

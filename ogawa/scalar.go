package ogawa

import (
	"github.com/robert-malhotra/go-ogawa/internal/errs"
)

// ScalarPropertyReader reads a property whose every sample holds exactly
// extent elements.
type ScalarPropertyReader struct {
	*sampleStore
}

// LoadSample decodes logical sample index.
func (p *ScalarPropertyReader) LoadSample(index int) (Array, error) {
	arr, d, err := p.decode(index)
	if err != nil {
		return Array{}, err
	}
	if want := int(p.header.DataType.Extent); arr.Len() != want {
		return Array{}, errs.CorruptIndex("read scalar sample", d.Position, index,
			"%d elements, %s needs %d", arr.Len(), p.header.DataType, want)
	}
	return arr, nil
}

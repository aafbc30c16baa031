package assets

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned for documents that decode but are inconsistent.
var ErrInvalidDocument = errors.New("invalid asset document")

// MeshDocument is an exported creature: rest pose, topology, regions and clips.
// JSON exports decode too, since JSON is valid YAML.
type MeshDocument struct {
	Points     []float32               `yaml:"points"` // x, y, z per point
	UVs        []float32               `yaml:"uvs"`    // u, v per point
	Indices    []uint16                `yaml:"indices"`
	Regions    []RegionDocument        `yaml:"regions"`
	Animations map[string]ClipDocument `yaml:"animations"`
}

// RegionDocument is a named slice of the mesh. It covers points
// [StartPoint, EndPoint] and indices [StartIndex, EndIndex).
type RegionDocument struct {
	Name       string   `yaml:"name"`
	StartPoint uint32   `yaml:"start_pt_index"`
	EndPoint   uint32   `yaml:"end_pt_index"`
	StartIndex uint32   `yaml:"start_index"`
	EndIndex   uint32   `yaml:"end_index"`
	Opacity    *float32 `yaml:"opacity"` // percent, 100 when absent
}

// ClipDocument is one animation.
type ClipDocument struct {
	StartTime float32            `yaml:"start_time"`
	EndTime   float32            `yaml:"end_time"`
	Keyframes []KeyframeDocument `yaml:"keyframes"`
}

// KeyframeDocument is a pose at a point in time. Points may be omitted to
// hold the rest pose; Opacity overrides region opacity by name.
type KeyframeDocument struct {
	Time    float32            `yaml:"time"`
	Points  []float32          `yaml:"points"`
	Opacity map[string]float32 `yaml:"opacity"`
}

// MetaDocument holds swap definitions layered over a mesh.
type MetaDocument struct {
	SkinSwaps map[string][]string         `yaml:"skin_swaps"` // swap name -> region names
	ItemSwaps map[string][]UVSwapDocument `yaml:"uv_swaps"`   // region -> alternate UV sets
}

// UVSwapDocument remaps a region's UVs as uv*scale + offset.
type UVSwapDocument struct {
	Offset [2]float32  `yaml:"offset"`
	Scale  *[2]float32 `yaml:"scale"`
}

// PointCount returns the number of rest pose points.
func (d *MeshDocument) PointCount() int { return len(d.Points) / 3 }

// Validate checks every array against the point count.
func (d *MeshDocument) Validate() error {
	if len(d.Points)%3 != 0 {
		return fmt.Errorf("%w: %d point coordinates is not a multiple of 3", ErrInvalidDocument, len(d.Points))
	}
	n := d.PointCount()
	if len(d.UVs) != n*2 {
		return fmt.Errorf("%w: %d uv coordinates for %d points", ErrInvalidDocument, len(d.UVs), n)
	}
	if len(d.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrInvalidDocument, len(d.Indices))
	}
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d exceeds %d points", ErrInvalidDocument, idx, i, n)
		}
	}
	seen := make(map[string]bool, len(d.Regions))
	for _, r := range d.Regions {
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate region %q", ErrInvalidDocument, r.Name)
		}
		seen[r.Name] = true
		if int(r.EndPoint) >= n || r.StartPoint > r.EndPoint {
			return fmt.Errorf("%w: region %q points [%d,%d] outside %d points",
				ErrInvalidDocument, r.Name, r.StartPoint, r.EndPoint, n)
		}
		if int(r.EndIndex) > len(d.Indices) || r.StartIndex > r.EndIndex {
			return fmt.Errorf("%w: region %q indices [%d,%d) outside %d indices",
				ErrInvalidDocument, r.Name, r.StartIndex, r.EndIndex, len(d.Indices))
		}
		if r.StartIndex%3 != 0 || r.EndIndex%3 != 0 {
			return fmt.Errorf("%w: region %q indices [%d,%d) split a triangle",
				ErrInvalidDocument, r.Name, r.StartIndex, r.EndIndex)
		}
	}
	for name, clip := range d.Animations {
		if clip.EndTime < clip.StartTime {
			return fmt.Errorf("%w: clip %q ends before it starts", ErrInvalidDocument, name)
		}
		for i, kf := range clip.Keyframes {
			if kf.Points != nil && len(kf.Points) != len(d.Points) {
				return fmt.Errorf("%w: clip %q keyframe %d has %d coordinates, want %d",
					ErrInvalidDocument, name, i, len(kf.Points), len(d.Points))
			}
		}
	}
	return nil
}

// Mesh loads and validates a mesh document.
func (m *Manager) Mesh(key string) (*MeshDocument, error) {
	data, err := m.Load(key)
	if err != nil {
		return nil, err
	}
	var doc MeshDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding mesh %s: %w", key, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %s: %w", key, err)
	}
	return &doc, nil
}

// Meta loads a metadata document.
func (m *Manager) Meta(key string) (*MetaDocument, error) {
	data, err := m.Load(key)
	if err != nil {
		return nil, err
	}
	var doc MetaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding metadata %s: %w", key, err)
	}
	return &doc, nil
}

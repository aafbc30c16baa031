package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Faultbox/creature-render/internal/assets"
	"github.com/Faultbox/creature-render/internal/config"
	"github.com/Faultbox/creature-render/internal/engine/creature"
	"github.com/Faultbox/creature-render/internal/engine/input"
)

const meshYAML = `
points: [0, 0, 0,  2, 0, 0,  2, 4, 0,  0, 4, 0]
uvs: [0, 0,  1, 0,  1, 1,  0, 1]
indices: [0, 1, 2,  2, 3, 0]
regions:
  - {name: lower, start_pt_index: 0, end_pt_index: 1, start_index: 0, end_index: 3}
  - {name: upper, start_pt_index: 2, end_pt_index: 3, start_index: 3, end_index: 6}
animations:
  default: {end_time: 1}
  walk: {end_time: 2}
`

type fixture struct {
	dir     string
	manager *assets.Manager
	cfg     config.CreatureConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir()}
	f.write(t, "creature.yaml", meshYAML)
	f.write(t, "meta.yaml", "skin_swaps: {top: [upper]}\n")
	f.manager = assets.NewManager(f.dir)

	f.cfg = config.Default().Creature
	f.cfg.Mesh = "creature.yaml"
	f.cfg.Meta = "meta.yaml"
	f.cfg.SkinSwap = "top"
	return f
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if f.manager != nil {
		f.manager.Invalidate(name)
	}
}

func (f *fixture) controller(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController(f.manager, nil, f.cfg)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func swapName(c *Controller) string {
	if sw, ok := c.Creature().SkinSwap().(creature.Swapped); ok {
		return sw.Name
	}
	return ""
}

func TestNewControllerAppliesConfig(t *testing.T) {
	f := newFixture(t)
	f.cfg.Tint = 0x112233
	f.cfg.Alpha = 0.5
	f.cfg.Width = 100
	c := f.controller(t)
	cr := c.Creature()

	if swapName(c) != "top" {
		t.Errorf("expected skin swap top, got %q", swapName(c))
	}
	if !slices.Equal(cr.Buffers().Indices, []uint16{2, 3, 0}) {
		t.Errorf("expected swapped indices, got %v", cr.Buffers().Indices)
	}
	if !cr.IsPlaying() || !cr.Loop() {
		t.Error("expected looping playback")
	}
	if cr.Tint() != 0x112233 || cr.Alpha() != 0.5 {
		t.Errorf("expected tint 0x112233 alpha 0.5, got %#x %g", cr.Tint(), cr.Alpha())
	}
	if w, _ := cr.Size(); w != 100 {
		t.Errorf("expected width 100, got %g", w)
	}
}

func TestNewControllerMissingAssets(t *testing.T) {
	f := newFixture(t)
	f.cfg.Meta = "nope.yaml"
	c := f.controller(t)
	if swapName(c) != "" {
		t.Errorf("expected no swap without metadata, got %q", swapName(c))
	}

	f.cfg.Mesh = "nope.yaml"
	if _, err := NewController(f.manager, nil, f.cfg); !errors.Is(err, creature.ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestApplyTogglePlayAndSwap(t *testing.T) {
	c := newFixture(t).controller(t)

	if err := c.Apply(input.ActionTogglePlay); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if c.Creature().IsPlaying() {
		t.Error("expected playback stopped")
	}
	c.Apply(input.ActionTogglePlay)
	if !c.Creature().IsPlaying() {
		t.Error("expected playback resumed")
	}

	c.Apply(input.ActionToggleSkinSwap)
	if swapName(c) != "" {
		t.Errorf("expected global indices, got swap %q", swapName(c))
	}
	c.Apply(input.ActionToggleSkinSwap)
	if swapName(c) != "top" {
		t.Errorf("expected swap top, got %q", swapName(c))
	}
}

func TestApplyNextAnimation(t *testing.T) {
	c := newFixture(t).controller(t)

	want := []string{"walk", "default", "walk"}
	for _, name := range want {
		if err := c.Apply(input.ActionNextAnimation); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if got := c.Creature().Animation(); got != name {
			t.Errorf("expected animation %s, got %s", name, got)
		}
	}
}

func TestApplyAnchorNudges(t *testing.T) {
	c := newFixture(t).controller(t)
	step := float32(AnchorStep)
	center := float32(0.5)

	c.Apply(input.ActionAnchorRight)
	if a := c.Creature().AnchorX(); !a.Set || a.Value != center+step {
		t.Errorf("expected anchor x %g, got %+v", center+step, a)
	}
	c.Apply(input.ActionAnchorDown)
	if a := c.Creature().AnchorY(); !a.Set || a.Value != center-step {
		t.Errorf("expected anchor y %g, got %+v", center-step, a)
	}
	c.Apply(input.ActionAnchorLeft)
	if a := c.Creature().AnchorX(); a.Value != center+step-step {
		t.Errorf("expected anchor x back near center, got %+v", a)
	}
}

func TestReloadMetadata(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t)

	f.write(t, "meta.yaml", "skin_swaps: {top: [lower]}\n")
	if err := c.Reload("meta.yaml"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if swapName(c) != "top" {
		t.Errorf("expected swap kept across reload, got %q", swapName(c))
	}
	if !slices.Equal(c.Creature().Buffers().Indices, []uint16{0, 1, 2}) {
		t.Errorf("expected reloaded swap indices, got %v", c.Creature().Buffers().Indices)
	}

	f.write(t, "meta.yaml", "skin_swaps: {}\n")
	if err := c.Reload("meta.yaml"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if swapName(c) != "" {
		t.Errorf("expected swap dropped, got %q", swapName(c))
	}
}

func TestReloadMesh(t *testing.T) {
	f := newFixture(t)
	c := f.controller(t)
	before := c.Creature()

	f.write(t, "creature.yaml", meshYAML+"  run: {end_time: 3}\n")
	if err := c.Reload("creature.yaml"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if c.Creature() == before {
		t.Error("expected a rebuilt creature")
	}
	if got := c.Engine().Clips(); !slices.Contains(got, "run") {
		t.Errorf("expected reloaded clips to include run, got %v", got)
	}

	if err := c.Reload("unrelated.yaml"); err != nil {
		t.Errorf("expected unrelated keys to be ignored, got %v", err)
	}
}

package viewer

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/assets"
	"github.com/Faultbox/creature-render/internal/config"
	"github.com/Faultbox/creature-render/internal/engine/anim"
	"github.com/Faultbox/creature-render/internal/engine/creature"
	"github.com/Faultbox/creature-render/internal/engine/input"
	"github.com/Faultbox/creature-render/internal/logger"
)

// AnchorStep is how far one arrow key press moves an anchor.
const AnchorStep = 0.05

// Controller owns the viewed creature and applies viewer actions to it.
// It does not touch GL itself; drawing goes through the device it was
// built with.
type Controller struct {
	manager *assets.Manager
	device  creature.Device
	cfg     config.CreatureConfig

	engine   *anim.Engine
	creature *creature.Creature
	texture  uint32

	anchorsEnabled bool
	log            *zap.Logger
}

// NewController loads the configured mesh and applies the initial state.
// Missing metadata or an unsupported skin swap only log a warning.
func NewController(manager *assets.Manager, device creature.Device, cfg config.CreatureConfig) (*Controller, error) {
	c := &Controller{
		manager:        manager,
		device:         device,
		cfg:            cfg,
		anchorsEnabled: true,
		log:            logger.Named("viewer"),
	}
	if err := c.build(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) build() error {
	engine, err := anim.Load(c.manager, c.cfg.Mesh)
	if err != nil {
		return fmt.Errorf("loading mesh %s: %w", c.cfg.Mesh, err)
	}
	cr, err := creature.New(engine, c.device, creature.Options{
		Animation: c.cfg.Animation,
		TimeDelta: c.cfg.TimeDelta,
	})
	if err != nil {
		return fmt.Errorf("creating creature: %w", err)
	}

	if c.cfg.Meta != "" {
		if err := cr.SetMetaData(c.cfg.Meta); err != nil {
			c.log.Warn("metadata unavailable", zap.String("key", c.cfg.Meta), zap.Error(err))
		}
	}
	if c.cfg.AnchorX != 0 {
		if err := cr.SetAnchorX(c.cfg.AnchorX); err != nil {
			return err
		}
	}
	if c.cfg.AnchorY != 0 {
		if err := cr.SetAnchorY(c.cfg.AnchorY); err != nil {
			return err
		}
	}
	cr.SetAnchorPointEnabled(c.anchorsEnabled)
	cr.Play(c.cfg.Loop)

	if c.cfg.SkinSwap != "" {
		_ = cr.EnableSkinSwap(c.cfg.SkinSwap)
	}
	if c.cfg.Width > 0 || c.cfg.Height > 0 {
		cr.SetSize(c.cfg.Width, c.cfg.Height)
	}
	cr.SetPosition(c.cfg.X, c.cfg.Y)
	cr.SetTint(c.cfg.Tint)
	cr.SetAlpha(c.cfg.Alpha)
	cr.SetTexture(c.texture)

	if c.creature != nil {
		c.creature.Destroy()
	}
	c.engine, c.creature = engine, cr
	return nil
}

// Creature returns the viewed creature.
func (c *Controller) Creature() *creature.Creature { return c.creature }

// Engine returns the creature's animation engine.
func (c *Controller) Engine() *anim.Engine { return c.engine }

// SetTexture sets the texture drawn now and after rebuilds.
func (c *Controller) SetTexture(id uint32) {
	c.texture = id
	c.creature.SetTexture(id)
}

// Apply performs a key-bound action. Actions the controller does not own
// are ignored.
func (c *Controller) Apply(a input.Action) error {
	cr := c.creature
	switch a {
	case input.ActionTogglePlay:
		if cr.IsPlaying() {
			cr.Stop()
		} else {
			cr.Play(c.cfg.Loop)
		}
	case input.ActionToggleSkinSwap:
		return c.toggleSkinSwap()
	case input.ActionNextAnimation:
		return c.nextAnimation()
	case input.ActionAnchorLeft:
		return cr.SetAnchorX(nudge(cr.AnchorX(), -AnchorStep))
	case input.ActionAnchorRight:
		return cr.SetAnchorX(nudge(cr.AnchorX(), AnchorStep))
	case input.ActionAnchorUp:
		return cr.SetAnchorY(nudge(cr.AnchorY(), AnchorStep))
	case input.ActionAnchorDown:
		return cr.SetAnchorY(nudge(cr.AnchorY(), -AnchorStep))
	case input.ActionToggleAnchors:
		c.anchorsEnabled = !c.anchorsEnabled
		cr.SetAnchorPointEnabled(c.anchorsEnabled)
	}
	return nil
}

// nudge moves an anchor by step, starting from the center when unset.
func nudge(a creature.Anchor, step float32) float32 {
	v := float32(0.5)
	if a.Set {
		v = a.Value
	}
	return v + step
}

func (c *Controller) toggleSkinSwap() error {
	if _, ok := c.creature.SkinSwap().(creature.Swapped); ok {
		return c.creature.DisableSkinSwap()
	}
	if c.cfg.SkinSwap == "" {
		c.log.Warn("no skin swap configured")
		return nil
	}
	return c.creature.EnableSkinSwap(c.cfg.SkinSwap)
}

func (c *Controller) nextAnimation() error {
	clips := c.engine.Clips()
	if len(clips) == 0 {
		return nil
	}
	next := clips[0]
	if i := slices.Index(clips, c.creature.Animation()); i >= 0 {
		next = clips[(i+1)%len(clips)]
	}
	if err := c.creature.SetAnimation(next); err != nil {
		return err
	}
	c.creature.Play(c.cfg.Loop)
	c.log.Info("animation changed", zap.String("animation", next))
	return nil
}

// Reload applies a changed asset. Metadata is reattached in place, keeping
// the active skin swap when the new document still defines it. A changed
// mesh rebuilds the creature.
func (c *Controller) Reload(key string) error {
	switch key {
	case c.cfg.Meta:
		active := ""
		if sw, ok := c.creature.SkinSwap().(creature.Swapped); ok {
			active = sw.Name
		}
		if err := c.creature.SetMetaData(key); err != nil {
			return err
		}
		if active != "" {
			if err := c.creature.EnableSkinSwap(active); err != nil && !errors.Is(err, creature.ErrSwapUnsupported) {
				return err
			}
		}
		c.log.Info("metadata reloaded", zap.String("key", key))
	case c.cfg.Mesh:
		if err := c.build(); err != nil {
			return err
		}
		c.log.Info("mesh reloaded", zap.String("key", key))
	}
	return nil
}

// Destroy releases the creature's device buffers.
func (c *Controller) Destroy() {
	if c.creature != nil {
		c.creature.Destroy()
	}
}

// Package viewer runs the interactive creature viewer.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/assets"
	"github.com/Faultbox/creature-render/internal/config"
	"github.com/Faultbox/creature-render/internal/engine/capture"
	"github.com/Faultbox/creature-render/internal/engine/input"
	"github.com/Faultbox/creature-render/internal/engine/meshgl"
	"github.com/Faultbox/creature-render/internal/engine/texture"
	"github.com/Faultbox/creature-render/internal/engine/window"
	"github.com/Faultbox/creature-render/internal/logger"
)

// MaxTextureSize bounds texture atlases on either side.
const MaxTextureSize = 4096

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window  *window.Window
	device  *meshgl.Device
	input   *input.Input
	manager *assets.Manager
	watcher *assets.Watcher
	shots   *capture.Screenshot

	ctl     *Controller
	texture uint32

	wantShot bool
	log      *zap.Logger
}

// New opens the window and loads the configured creature.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{cfg: cfg, log: logger.Named("viewer")}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL objects need the window's context.
	if err := meshgl.Init(); err != nil {
		v.Close()
		return nil, err
	}
	v.device, err = meshgl.NewDevice(v.window.DrawableSize())
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	v.input = input.New()

	v.manager = assets.NewManager()
	for _, dir := range cfg.Assets.Dirs {
		if err := v.manager.AddDir(dir); err != nil {
			v.Close()
			return nil, err
		}
	}

	v.ctl, err = NewController(v.manager, v.device, cfg.Creature)
	if err != nil {
		v.Close()
		return nil, err
	}
	if cfg.Creature.Texture != "" {
		v.loadTexture(cfg.Creature.Texture)
	}

	format, err := capture.ParseFormat(cfg.Capture.Format)
	if err != nil {
		v.Close()
		return nil, err
	}
	v.shots = capture.NewScreenshot(cfg.Capture.Dir, cfg.Capture.Prefix, format)

	if cfg.Assets.Watch {
		v.watcher, err = v.manager.Watch()
		if err != nil {
			v.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	v.log.Info("viewer initialized",
		zap.String("mesh", cfg.Creature.Mesh),
		zap.Strings("clips", v.ctl.Engine().Clips()))
	return v, nil
}

func (v *Viewer) loadTexture(key string) {
	path, err := v.manager.Resolve(key)
	if err != nil {
		v.log.Warn("texture not found", zap.String("key", key), zap.Error(err))
		return
	}
	img, err := texture.Load(path, MaxTextureSize)
	if err != nil {
		v.log.Warn("texture not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	v.device.DeleteTexture(v.texture)
	v.texture = v.device.UploadTexture(img)
	v.ctl.SetTexture(v.texture)
	v.log.Debug("texture loaded", zap.String("path", path), zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
}

// Run drives the frame loop until the window closes.
func (v *Viewer) Run() error {
	v.running = true
	frames := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")
	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}
		for _, ev := range v.input.Events() {
			v.handle(ev)
		}
		v.pollChanges()

		if err := v.frame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handle(ev input.Event) {
	switch ev.Action {
	case input.ActionResize:
		v.device.SetViewport(v.window.DrawableSize())
	case input.ActionScreenshot:
		v.wantShot = true
	case input.ActionReload:
		v.reload(v.cfg.Creature.Meta)
	default:
		if err := v.ctl.Apply(ev.Action); err != nil {
			v.log.Warn("action failed", zap.Stringer("action", ev.Action), zap.Error(err))
		}
	}
}

// pollChanges applies every pending hot reload without blocking.
func (v *Viewer) pollChanges() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case key, ok := <-v.watcher.Changes():
			if !ok {
				v.watcher = nil
				return
			}
			if key == v.cfg.Creature.Texture {
				v.loadTexture(key)
				continue
			}
			v.reload(key)
		default:
			return
		}
	}
}

func (v *Viewer) reload(key string) {
	if key == "" {
		return
	}
	v.manager.Invalidate(key)
	if err := v.ctl.Reload(key); err != nil {
		v.log.Warn("reload failed", zap.String("key", key), zap.Error(err))
	}
}

func (v *Viewer) frame() error {
	v.device.Clear(0.1, 0.1, 0.15)

	cr := v.ctl.Creature()
	// A rejected frame keeps drawing the last good one.
	_ = cr.Update()
	if _, err := cr.Draw(); err != nil {
		return err
	}

	if v.wantShot {
		v.wantShot = false
		w, h := v.device.Size()
		path, err := v.shots.FromPixels(v.device.ReadPixels(), w, h)
		if err != nil {
			v.log.Warn("screenshot failed", zap.Error(err))
		} else {
			v.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	return nil
}

// Close releases GL resources and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.ctl != nil {
		v.ctl.Destroy()
	}
	if v.device != nil {
		v.device.DeleteTexture(v.texture)
		v.device.Destroy()
	}
	if v.manager != nil {
		v.manager.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

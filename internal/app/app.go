// Package app runs the interactive editor: window, input, frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/worldsmith/internal/assets"
	"github.com/Faultbox/worldsmith/internal/config"
	"github.com/Faultbox/worldsmith/internal/editor"
	"github.com/Faultbox/worldsmith/internal/engine/camera"
	"github.com/Faultbox/worldsmith/internal/engine/debug"
	"github.com/Faultbox/worldsmith/internal/engine/input"
	"github.com/Faultbox/worldsmith/internal/engine/renderer"
	"github.com/Faultbox/worldsmith/internal/engine/window"
	"github.com/Faultbox/worldsmith/internal/logger"
	"github.com/Faultbox/worldsmith/internal/persistence"
	"github.com/Faultbox/worldsmith/internal/scene"
)

const (
	title = "Worldsmith"

	keyQuit       = "escape"
	keyToggleFly  = "tab"
	keyScreenshot = "f12"

	screenshotDir = "screenshots"
)

// App owns the editor and everything it draws and listens to.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	editor   *editor.Editor
	watcher  *persistence.Watcher
	shots    *debug.Screenshots

	running bool
	capture bool
}

// New opens the window and builds the editor from cfg.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}

	var err error
	a.window, err = window.New(title, cfg.Window, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the OpenGL context the window created.
	a.renderer, err = renderer.New(logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.shots = debug.NewScreenshots(screenshotDir, "worldsmith")
	a.camera = camera.NewOrbitCamera()

	s := scene.New(logger.Named("scene"))
	models := assets.NewCache(assets.NewFileLoader(cfg.Assets.ModelDir))
	materials := assets.TextureMaterials{Dir: cfg.Assets.TextureDir}
	a.editor = editor.New(editor.OptionsFrom(cfg), s, a.camera, models, materials,
		editor.ObserverFunc(a.onSelectionChanged), logger.Named("editor"))

	env := cfg.Environment
	a.editor.ChangeGround(scene.GroundParams{Texture: env.GroundTexture, Repeats: env.GroundRepeats})
	a.editor.ChangeSkybox(scene.SkyboxParams{Texture: env.SkyboxTexture})
	a.editor.ChangeSun(scene.SunParams{Color: env.SunColor, Intensity: env.SunIntensity, X: env.SunX, Z: env.SunZ})

	if cfg.Scene.Startup != "" {
		if err := a.editor.Post(editor.Command{Kind: editor.CmdImport, Path: cfg.Scene.Startup}); err != nil {
			a.log.Warn("startup scene not queued", zap.Error(err))
		}
		if cfg.Scene.Watch {
			a.watcher, err = persistence.NewWatcher(cfg.Scene.Startup, logger.Named("watch"))
			if err != nil {
				a.log.Warn("scene watch disabled", zap.String("path", cfg.Scene.Startup), zap.Error(err))
			}
		}
	}

	w, h := a.window.Size()
	a.resize(w, h)

	a.log.Info("editor initialized", zap.Int("models", len(cfg.Assets.Models)))
	return a, nil
}

// Run runs the frame loop until the window closes or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.watcher != nil {
		go func() {
			err := a.watcher.Run(ctx, func(path string) {
				if err := a.editor.Post(editor.Command{Kind: editor.CmdImport, Path: path}); err != nil {
					a.log.Warn("reload not queued", zap.Error(err))
				}
			})
			if err != nil && ctx.Err() == nil {
				a.log.Warn("scene watch stopped", zap.Error(err))
			}
		}()
	}

	a.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if a.input.Update() {
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ev)
		}

		a.editor.Update(ctx)

		a.renderer.Begin()
		a.renderer.DrawScene(a.editor.Scene(), a.camera.ProjectionMatrix().Mul(a.camera.ViewMatrix()))
		a.renderer.End()
		if a.capture {
			a.capture = false
			a.screenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	a.running = false
	return nil
}

func (a *App) handle(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		a.resize(ev.Width, ev.Height)

	case input.EventKeyDown:
		switch ev.Key {
		case keyQuit:
			a.running = false
		case a.cfg.Controls.Keys.Import:
			a.openImportDialog()
		case keyScreenshot:
			a.capture = true
		case keyToggleFly:
			a.editor.SetKeyboardMove(!a.editor.KeyboardMove())
			a.log.Info("keyboard movement", zap.Bool("enabled", a.editor.KeyboardMove()))
		default:
			if model, ok := a.modelForKey(ev.Key); ok {
				if err := a.editor.Post(editor.Command{Kind: editor.CmdAddObject, Model: model}); err != nil {
					a.log.Warn("add not queued", zap.Error(err))
				}
				return
			}
			a.editor.KeyDown(ev.Key)
		}

	case input.EventKeyUp:
		a.editor.KeyUp(ev.Key)

	case input.EventPointerMove:
		a.editor.PointerMove(ev.X, ev.Y)

	case input.EventClick:
		a.editor.Click(ev.X, ev.Y)

	case input.EventOrbit:
		a.camera.HandleDrag(ev.DX, ev.DY)

	case input.EventZoom:
		a.camera.HandleZoom(ev.DY)
	}
}

// openImportDialog asks for a scene document and queues its import.
// The dialog runs on its own goroutine; Post is safe from there.
func (a *App) openImportDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Scene documents", "json", "yaml", "yml", "toml").
			Filter("All Files", "*").
			Title("Import scene").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		if err := a.editor.Post(editor.Command{Kind: editor.CmdImport, Path: path}); err != nil {
			a.log.Warn("import not queued", zap.Error(err))
		}
	}()
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	if pixels == nil {
		return
	}
	path, err := a.shots.SaveRGBA(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// modelForKey maps the digit keys to the configured model list.
func (a *App) modelForKey(key string) (string, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return "", false
	}
	i := int(key[0] - '1')
	if i >= len(a.cfg.Assets.Models) {
		return "", false
	}
	return a.cfg.Assets.Models[i], true
}

func (a *App) resize(width, height int) {
	a.editor.SetViewport(width, height)
	a.camera.SetViewport(width, height)
	dw, dh := a.window.DrawableSize()
	a.renderer.Resize(dw, dh)
}

func (a *App) onSelectionChanged(s *editor.Snapshot) {
	if s == nil {
		a.window.SetStatus("")
		return
	}
	a.window.SetStatus(fmt.Sprintf("%s  pos %.2f %.2f %.2f  rot %.2f %.2f %.2f  scale %.2f %.2f %.2f",
		s.Name, s.PosX, s.PosY, s.PosZ, s.RotX, s.RotY, s.RotZ, s.ScaleX, s.ScaleY, s.ScaleZ))
}

// Close releases the window and GPU resources.
func (a *App) Close() {
	a.log.Info("closing editor")

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

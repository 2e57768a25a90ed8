// Package editor implements the interactive core of the scene editor:
// click selection with highlight, transform gestures, and the command
// queue through which export, import and clear reach the scene.
package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/worldsmith/internal/assets"
	"github.com/Faultbox/worldsmith/internal/config"
	"github.com/Faultbox/worldsmith/internal/engine/picking"
	"github.com/Faultbox/worldsmith/internal/persistence"
	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// ErrQueueFull is returned by Post when the command queue is full.
var ErrQueueFull = errors.New("command queue full")

// Camera is the view the editor picks through and flies with the keyboard.
type Camera interface {
	picking.RayCaster
	Fly(forward, right, up, speed float32)
}

// Options configures an Editor.
type Options struct {
	Keys              config.KeyBindings
	KeyboardMove      bool
	KeyboardSpeed     float32
	RotateSensitivity float32
	ScaleSensitivity  float32
	HighlightColor    string
	ExportPath        string
	ImportPath        string
}

// OptionsFrom extracts editor options from the application config.
func OptionsFrom(cfg *config.Config) Options {
	importPath := cfg.Scene.Startup
	if importPath == "" {
		importPath = cfg.Scene.ExportPath
	}
	return Options{
		Keys:              cfg.Controls.Keys,
		KeyboardMove:      cfg.Controls.KeyboardMove,
		KeyboardSpeed:     cfg.Controls.KeyboardSpeed,
		RotateSensitivity: cfg.Controls.RotateSensitivity,
		ScaleSensitivity:  cfg.Controls.ScaleSensitivity,
		HighlightColor:    cfg.Highlight.Color,
		ExportPath:        cfg.Scene.ExportPath,
		ImportPath:        importPath,
	}
}

// Editor wires input, selection, gestures and persistence to one scene.
// All methods except Post must be called from the frame loop goroutine.
type Editor struct {
	opts Options
	log  *zap.Logger

	scene     *scene.Scene
	camera    Camera
	models    *assets.Cache
	materials scene.GroundMaterialFactory

	picker    *picking.Picker
	selection *Selection
	gestures  *Gestures
	persist   *persistence.Service

	commands chan Command
	keys     map[string]bool

	width, height float32

	// Environment as shown in the configuration panel. Import writes
	// the loaded document's values here.
	ground scene.GroundParams
	skybox scene.SkyboxParams
	sun    scene.SunParams
}

// New creates an editor for s. observer may be nil.
func New(opts Options, s *scene.Scene, cam Camera, models *assets.Cache, materials scene.GroundMaterialFactory, observer Observer, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.KeyboardSpeed <= 0 {
		opts.KeyboardSpeed = 0.5
	}
	if opts.ExportPath == "" {
		opts.ExportPath = persistence.DefaultExportFile
	}
	if opts.ImportPath == "" {
		opts.ImportPath = opts.ExportPath
	}

	sel := NewSelection(opts.HighlightColor, observer, log.Named("selection"))
	g := NewGestures(s, sel, log.Named("gesture"))
	if opts.RotateSensitivity > 0 {
		g.RotateSensitivity = opts.RotateSensitivity
	}
	if opts.ScaleSensitivity > 0 {
		g.ScaleSensitivity = opts.ScaleSensitivity
	}

	e := &Editor{
		opts:      opts,
		log:       log,
		scene:     s,
		camera:    cam,
		models:    models,
		materials: materials,
		picker:    picking.NewPicker(s.Index()),
		selection: sel,
		gestures:  g,
		persist:   persistence.NewService(s, models, materials, log.Named("persistence")),
		commands:  make(chan Command, commandQueueSize),
		keys:      make(map[string]bool),
		ground:    s.Ground,
		skybox:    s.Skybox,
		sun:       s.Sun,
	}
	e.persist.BeforeClear = e.dropSelection
	return e
}

// Scene returns the edited scene.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// Selection returns the selection controller.
func (e *Editor) Selection() *Selection { return e.selection }

// Gestures returns the gesture controller.
func (e *Editor) Gestures() *Gestures { return e.gestures }

// Persistence returns the persistence service.
func (e *Editor) Persistence() *persistence.Service { return e.persist }

// SetViewport records the drawable size in pixels.
func (e *Editor) SetViewport(width, height int) {
	e.width, e.height = float32(width), float32(height)
}

// SetKeyboardMove toggles keyboard camera movement.
func (e *Editor) SetKeyboardMove(on bool) { e.opts.KeyboardMove = on }

// KeyboardMove reports whether keyboard camera movement is on.
func (e *Editor) KeyboardMove() bool { return e.opts.KeyboardMove }

// Environment returns the panel's environment parameters.
func (e *Editor) Environment() persistence.Params {
	return persistence.Params{Ground: &e.ground, Skybox: &e.skybox, Sun: &e.sun}
}

// KeyDown handles a key press. key is the lower-case key name.
func (e *Editor) KeyDown(key string) {
	e.keys[key] = true

	k := e.opts.Keys
	switch key {
	case k.Delete:
		e.DeleteSelected()
	case k.Move:
		e.gestures.ToggleTranslate()
	case k.Rotate:
		e.gestures.BeginRotate()
	case k.Scale:
		e.gestures.BeginScale()
	case k.Duplicate:
		e.gestures.ToggleDuplicate()
	case k.Export:
		e.post(Command{Kind: CmdExport})
	case k.Import:
		e.post(Command{Kind: CmdImport})
	case k.Clear:
		e.post(Command{Kind: CmdClear})
	}
}

// KeyUp handles a key release.
func (e *Editor) KeyUp(key string) {
	e.keys[key] = false

	switch key {
	case e.opts.Keys.Rotate:
		e.gestures.EndRotate()
	case e.opts.Keys.Scale:
		e.gestures.EndScale()
	}
}

func (e *Editor) ndc(px, py float32) math.Vec2 {
	return math.NDC(px, py, e.width, e.height)
}

// PointerMove handles pointer motion to pixel position (px, py).
func (e *Editor) PointerMove(px, py float32) {
	e.gestures.PointerMove(math.Vec2{X: px, Y: py}, e.ndc(px, py), e.camera)
}

// Click selects the object under (px, py). Clicking nothing selectable
// clears the selection. A selection change ends any running gesture.
func (e *Editor) Click(px, py float32) {
	hit, ok := e.picker.Pick(e.ndc(px, py), e.camera, e.scene.Objects())
	if !ok || !hit.Selectable || hit.Root == nil {
		e.dropSelection()
		return
	}
	if hit.Root != e.selection.Current() {
		e.gestures.Reset()
	}
	e.selection.Select(hit.Root)
}

func (e *Editor) dropSelection() {
	e.gestures.Reset()
	e.selection.Deselect()
}

// AddObject places a new instance of the named model at the origin.
func (e *Editor) AddObject(ctx context.Context, model string) (*scene.Node, error) {
	obj, err := e.models.Instance(ctx, model)
	if err != nil {
		return nil, err
	}
	obj.Position = math.Vec3{}
	e.scene.AddObject(obj, true)
	e.log.Info("object added", zap.String("model", model), zap.Uint64("id", obj.ID))
	return obj, nil
}

// DeleteSelected removes the selected object and releases its resources.
func (e *Editor) DeleteSelected() {
	root := e.selection.Current()
	if root == nil {
		return
	}
	e.dropSelection()
	e.scene.RemoveObject(root)
	e.log.Info("object deleted", zap.String("name", root.Name), zap.Uint64("id", root.ID))
}

// ChangeGround replaces the ground texture and tiling.
func (e *Editor) ChangeGround(p scene.GroundParams) {
	e.ground = p
	e.scene.SetGround(p, e.materials)
}

// ChangeSkybox replaces the skybox texture.
func (e *Editor) ChangeSkybox(p scene.SkyboxParams) {
	e.skybox = p
	e.scene.SetSkybox(p)
}

// ChangeSun updates the sun light.
func (e *Editor) ChangeSun(p scene.SunParams) {
	e.sun = p
	e.scene.SetSun(p)
}

// Post queues cmd for the next ProcessCommands. It is safe to call from
// any goroutine.
func (e *Editor) Post(cmd Command) error {
	select {
	case e.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

func (e *Editor) post(cmd Command) {
	if err := e.Post(cmd); err != nil {
		e.log.Warn("command dropped", zap.Stringer("command", cmd.Kind), zap.Error(err))
	}
}

// Update advances one frame: keyboard camera movement, then queued commands.
func (e *Editor) Update(ctx context.Context) {
	if e.opts.KeyboardMove {
		e.fly()
	}
	e.ProcessCommands(ctx)
}

func (e *Editor) fly() {
	k := e.opts.Keys
	var forward, right, up float32
	if e.keys[k.Forward] {
		forward++
	}
	if e.keys[k.Back] {
		forward--
	}
	if e.keys[k.Right] {
		right++
	}
	if e.keys[k.Left] {
		right--
	}
	if e.keys[k.Up] {
		up++
	}
	if e.keys[k.Down] {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		e.camera.Fly(forward, right, up, e.opts.KeyboardSpeed)
	}
}

// ProcessCommands runs every queued command.
func (e *Editor) ProcessCommands(ctx context.Context) {
	for {
		select {
		case cmd := <-e.commands:
			err := e.execute(ctx, cmd)
			if err != nil {
				e.log.Error("command failed", zap.Stringer("command", cmd.Kind), zap.Error(err))
			}
			if cmd.Done != nil {
				cmd.Done <- err
			}
		default:
			return
		}
	}
}

func (e *Editor) execute(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CmdExport:
		path := cmd.Path
		if path == "" {
			path = e.opts.ExportPath
		}
		return e.persist.ExportFile(path, e.Environment())
	case CmdImport:
		path := cmd.Path
		if path == "" {
			path = e.opts.ImportPath
		}
		return e.persist.ImportFile(ctx, path, e.Environment())
	case CmdClear:
		return e.persist.Clear()
	case CmdAddObject:
		_, err := e.AddObject(ctx, cmd.Model)
		return err
	case CmdDelete:
		e.DeleteSelected()
		return nil
	default:
		return fmt.Errorf("unknown command %v", cmd.Kind)
	}
}

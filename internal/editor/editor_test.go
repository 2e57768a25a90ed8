package editor

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/worldsmith/internal/assets"
	"github.com/Faultbox/worldsmith/internal/config"
	"github.com/Faultbox/worldsmith/internal/persistence"
	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

type editorFixture struct {
	ed  *Editor
	cam *topDownCamera
	rec *recorder
}

func newEditorFixture(t *testing.T) *editorFixture {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.ExportPath = filepath.Join(t.TempDir(), persistence.DefaultExportFile)

	s := scene.New(nil)
	s.SetGround(scene.GroundParams{Texture: "grass", Repeats: 500}, flatMaterials{})
	s.SetSkybox(scene.SkyboxParams{Texture: "day"})

	f := &editorFixture{cam: &topDownCamera{extent: 10}, rec: &recorder{}}
	f.ed = New(OptionsFrom(cfg), s, f.cam, assets.NewCache(treeLoader{}), flatMaterials{}, f.rec, nil)
	f.ed.SetViewport(viewport, viewport)
	return f
}

func (f *editorFixture) add(t *testing.T, x, z float32) *scene.Node {
	t.Helper()
	obj, err := f.ed.AddObject(context.Background(), "Tree")
	require.NoError(t, err)
	obj.Position = math.Vec3{X: x, Z: z}
	return obj
}

func (f *editorFixture) clickAt(x, z float32) {
	f.ed.Click(pixelFor(x, z))
}

func (f *editorFixture) run(t *testing.T, cmd Command) error {
	t.Helper()
	done := make(chan error, 1)
	cmd.Done = done
	require.NoError(t, f.ed.Post(cmd))
	f.ed.ProcessCommands(context.Background())
	return <-done
}

func TestClickSelectsObjectUnderPointer(t *testing.T) {
	f := newEditorFixture(t)
	a := f.add(t, 0, 0)
	b := f.add(t, 5, 5)

	f.clickAt(0, 0)
	assert.Same(t, a, f.ed.Selection().Current())

	f.clickAt(5.5, 4.5)
	assert.Same(t, b, f.ed.Selection().Current())
	assert.Equal(t, "bark", a.FirstMesh().Mesh.Materials[0].Name)
}

func TestClickOnNothingSelectableDeselects(t *testing.T) {
	f := newEditorFixture(t)
	a := f.add(t, 0, 0)

	f.clickAt(0, 0)
	require.Same(t, a, f.ed.Selection().Current())

	f.clickAt(-8, 8) // ground and skybox only
	assert.Nil(t, f.ed.Selection().Current())
	assert.Nil(t, f.rec.last())
	assert.Equal(t, "bark", a.FirstMesh().Mesh.Materials[0].Name)
}

func TestSelectionChangeEndsGesture(t *testing.T) {
	f := newEditorFixture(t)
	a := f.add(t, 0, 0)
	b := f.add(t, 5, 5)

	f.clickAt(0, 0)
	f.ed.KeyDown(testKeys.move)
	require.Equal(t, Translate, f.ed.Gestures().State())

	f.clickAt(5, 5)
	assert.Same(t, b, f.ed.Selection().Current())
	assert.Equal(t, Idle, f.ed.Gestures().State())

	f.ed.PointerMove(pixelFor(-4, -4))
	assert.Equal(t, math.Vec3{}, a.Position, "previous target is no longer moved")
}

func TestClickSameObjectKeepsGesture(t *testing.T) {
	f := newEditorFixture(t)
	f.add(t, 0, 0)

	f.clickAt(0, 0)
	f.ed.KeyDown(testKeys.move)
	f.clickAt(0.5, 0.5)

	assert.Equal(t, Translate, f.ed.Gestures().State())
}

func TestKeyRouting(t *testing.T) {
	f := newEditorFixture(t)
	f.add(t, 0, 0)
	f.clickAt(0, 0)

	f.ed.KeyDown(testKeys.rotate)
	assert.Equal(t, Rotate, f.ed.Gestures().State())
	f.ed.KeyUp(testKeys.rotate)
	assert.Equal(t, Idle, f.ed.Gestures().State())

	f.ed.KeyDown(testKeys.scale)
	assert.Equal(t, Scale, f.ed.Gestures().State())
	f.ed.KeyUp(testKeys.scale)
	assert.Equal(t, Idle, f.ed.Gestures().State())

	f.ed.KeyDown(testKeys.duplicate)
	assert.Equal(t, DuplicatePlace, f.ed.Gestures().State())
	f.ed.KeyUp(testKeys.duplicate)
	f.ed.KeyDown(testKeys.duplicate)
	assert.Equal(t, Idle, f.ed.Gestures().State())
	assert.Len(t, f.ed.Scene().SelectableRoots(), 2)
}

func TestDeleteSelected(t *testing.T) {
	f := newEditorFixture(t)
	a := f.add(t, 0, 0)
	f.clickAt(0, 0)
	f.ed.KeyDown(testKeys.move)

	f.ed.KeyDown(testKeys.delete)

	assert.Nil(t, f.ed.Selection().Current())
	assert.Equal(t, Idle, f.ed.Gestures().State())
	assert.Empty(t, f.ed.Scene().SelectableRoots())
	assert.Nil(t, a.Parent())
	assert.True(t, a.FirstMesh().Mesh.Geometry.Disposed())
	assert.True(t, a.FirstMesh().Mesh.Materials[0].Disposed())

	f.ed.DeleteSelected() // nothing selected
}

func TestAddObjectErrors(t *testing.T) {
	f := newEditorFixture(t)
	_, err := f.ed.AddObject(context.Background(), "Missing")
	assert.ErrorIs(t, err, assets.ErrModelNotFound)
	assert.Empty(t, f.ed.Scene().SelectableRoots())
}

func TestInvariantsUnderRandomInput(t *testing.T) {
	f := newEditorFixture(t)
	for i := range 4 {
		f.add(t, float32(i*4-6), float32(i*3-4))
	}
	keys := []string{testKeys.move, testKeys.rotate, testKeys.scale, testKeys.duplicate}
	rng := rand.New(rand.NewPCG(1, 2))

	for range 2000 {
		px, py := rng.Float32()*viewport, rng.Float32()*viewport
		switch rng.IntN(5) {
		case 0:
			f.ed.Click(px, py)
		case 1:
			f.ed.KeyDown(keys[rng.IntN(len(keys))])
		case 2:
			f.ed.KeyUp(keys[rng.IntN(len(keys))])
		default:
			f.ed.PointerMove(px, py)
		}

		state := f.ed.Gestures().State()
		require.GreaterOrEqual(t, state, Idle)
		require.LessOrEqual(t, state, DuplicatePlace)

		highlighted := 0
		f.ed.Scene().Traverse(func(n *scene.Node) {
			if n.Mesh == nil {
				return
			}
			for _, m := range n.Mesh.Materials {
				require.False(t, m.Disposed(), "mesh %q shows a released material", n.Name)
			}
			if len(n.Mesh.Materials) > 0 && n.Mesh.Materials[0].Color == DefaultHighlightColor {
				highlighted++
			}
		})
		require.LessOrEqual(t, highlighted, 1)
		if f.ed.Selection().Current() == nil {
			require.Zero(t, highlighted)
		}
	}
}

func TestExportImportCommands(t *testing.T) {
	f := newEditorFixture(t)
	a := f.add(t, 1, 2)
	a.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	f.add(t, -3, 4)
	f.clickAt(1, 2)

	require.NoError(t, f.run(t, Command{Kind: CmdExport}))

	require.NoError(t, f.run(t, Command{Kind: CmdClear}))
	assert.Nil(t, f.ed.Selection().Current())
	assert.Empty(t, f.ed.Scene().SelectableRoots())

	f.ed.ChangeGround(scene.GroundParams{Texture: "sand", Repeats: 3})
	require.NoError(t, f.run(t, Command{Kind: CmdImport, Path: f.ed.opts.ExportPath}))

	roots := f.ed.Scene().SelectableRoots()
	require.Len(t, roots, 2)
	assert.Equal(t, math.Vec3{X: 1, Z: 2}, roots[0].Position)
	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 2}, roots[0].Scale)
	assert.Equal(t, "bark", roots[0].FirstMesh().Mesh.Materials[0].Name, "highlight is never exported")
	assert.Equal(t, "grass", f.ed.Environment().Ground.Texture)
}

func TestImportCommandFailureKeepsScene(t *testing.T) {
	f := newEditorFixture(t)
	f.add(t, 0, 0)

	err := f.run(t, Command{Kind: CmdImport, Path: filepath.Join(t.TempDir(), "absent.json")})
	assert.Error(t, err)
	assert.Len(t, f.ed.Scene().SelectableRoots(), 1)
}

func TestAddAndDeleteCommands(t *testing.T) {
	f := newEditorFixture(t)

	require.NoError(t, f.run(t, Command{Kind: CmdAddObject, Model: "Tree"}))
	require.Len(t, f.ed.Scene().SelectableRoots(), 1)

	f.clickAt(0, 0)
	require.NoError(t, f.run(t, Command{Kind: CmdDelete}))
	assert.Empty(t, f.ed.Scene().SelectableRoots())

	err := f.run(t, Command{Kind: CmdAddObject, Model: "Missing"})
	assert.ErrorIs(t, err, assets.ErrModelNotFound)
}

func TestHotkeysQueueCommands(t *testing.T) {
	f := newEditorFixture(t)
	f.add(t, 0, 0)

	f.ed.KeyDown("f8")
	assert.Len(t, f.ed.Scene().SelectableRoots(), 1, "commands wait for the frame loop")

	f.ed.Update(context.Background())
	assert.Empty(t, f.ed.Scene().SelectableRoots())
}

func TestPostQueueFull(t *testing.T) {
	f := newEditorFixture(t)
	for range commandQueueSize {
		require.NoError(t, f.ed.Post(Command{Kind: CmdClear}))
	}
	assert.ErrorIs(t, f.ed.Post(Command{Kind: CmdClear}), ErrQueueFull)
}

func TestKeyboardFly(t *testing.T) {
	f := newEditorFixture(t)

	f.ed.KeyDown("z")
	f.ed.Update(context.Background())
	assert.Equal(t, math.Vec3{}, f.cam.flown, "keyboard movement is off by default")

	f.ed.SetKeyboardMove(true)
	f.ed.Update(context.Background())
	assert.InDelta(t, -0.5, f.cam.flown.Z, 1e-6)

	f.ed.KeyUp("z")
	f.ed.KeyDown("d")
	f.ed.Update(context.Background())
	assert.InDelta(t, 0.5, f.cam.flown.X, 1e-6)
}

func TestEnvironmentChangesReachExport(t *testing.T) {
	f := newEditorFixture(t)

	f.ed.ChangeGround(scene.GroundParams{Texture: "sand", Repeats: 40})
	f.ed.ChangeSkybox(scene.SkyboxParams{Texture: "dusk"})
	f.ed.ChangeSun(scene.SunParams{Color: "#ffeeaa", Intensity: 2, X: 5, Z: -5})

	s := f.ed.Scene()
	assert.Equal(t, "sand", s.Ground.Texture)
	assert.Equal(t, "sand", s.GroundNode().Mesh.Materials[0].Texture)
	assert.Equal(t, "dusk", s.Skybox.Texture)
	assert.Equal(t, math.Vec3{X: 5, Y: s.SunPosition().Y, Z: -5}, s.SunPosition())
	assert.Len(t, s.SelectableRoots(), 0, "environment is never selectable")

	doc, err := f.ed.Persistence().Export(f.ed.Environment())
	require.NoError(t, err)
	require.NotNil(t, doc.Ground)
	assert.Equal(t, "sand", doc.Ground.Texture)
	assert.Equal(t, float32(40), doc.Ground.Repeats)
	assert.Equal(t, "dusk", doc.Skybox.Texture)
	require.NotNil(t, doc.Sun)
	assert.Equal(t, "#ffeeaa", doc.Sun.Color)
	assert.Empty(t, doc.Nodes)
}

package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Faultbox/worldsmith/internal/assets"
	"github.com/Faultbox/worldsmith/internal/scene"
)

// maxParallelLoads bounds concurrent model loads during import.
const maxParallelLoads = 4

// ErrBusy is returned when an export, import or clear is already running.
var ErrBusy = errors.New("scene operation already in flight")

// NodeError reports a node record whose model could not be loaded.
type NodeError struct {
	Index int
	Name  string
	Err   error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Params carries environment parameters. Export reads them; Import writes
// the document's values into every non-nil field. Nil fields are skipped.
type Params struct {
	Ground *scene.GroundParams
	Skybox *scene.SkyboxParams
	Sun    *scene.SunParams
}

// Service persists the selectable objects of a scene.
type Service struct {
	scene     *scene.Scene
	models    *assets.Cache
	materials scene.GroundMaterialFactory
	guard     *semaphore.Weighted
	log       *zap.Logger

	// BeforeClear runs right before objects are removed by Clear or Import.
	// The editor uses it to drop its selection and cancel gestures.
	BeforeClear func()
}

// NewService creates a persistence service for s.
func NewService(s *scene.Scene, models *assets.Cache, materials scene.GroundMaterialFactory, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		scene:     s,
		models:    models,
		materials: materials,
		guard:     semaphore.NewWeighted(1),
		log:       log,
	}
}

func (s *Service) acquire() error {
	if !s.guard.TryAcquire(1) {
		return ErrBusy
	}
	return nil
}

func (s *Service) release() { s.guard.Release(1) }

// Export captures every selectable object once, in scene traversal order,
// together with p.
func (s *Service) Export(p Params) (*Document, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	doc := &Document{Nodes: []NodeRecord{}}
	if p.Ground != nil {
		doc.Ground = &GroundRecord{Texture: p.Ground.Texture, Repeats: p.Ground.Repeats}
	}
	if p.Skybox != nil {
		doc.Skybox = &SkyboxRecord{Texture: p.Skybox.Texture}
	}
	if p.Sun != nil {
		doc.Sun = &SunRecord{Color: p.Sun.Color, Intensity: p.Sun.Intensity, X: p.Sun.X, Z: p.Sun.Z}
	}

	for _, root := range s.scene.SelectableRoots() {
		doc.Nodes = append(doc.Nodes, RecordOf(root))
	}

	s.log.Info("scene exported", zap.Int("nodes", len(doc.Nodes)))
	return doc, nil
}

// CurrentParams returns the scene's own environment as export parameters.
func (s *Service) CurrentParams() Params {
	ground, skybox, sun := s.scene.Ground, s.scene.Skybox, s.scene.Sun
	return Params{Ground: &ground, Skybox: &skybox, Sun: &sun}
}

// ExportFile exports to path, picking the codec by extension.
func (s *Service) ExportFile(path string, p Params) error {
	doc, err := s.Export(p)
	if err != nil {
		return err
	}
	if err := WriteFile(path, doc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.log.Info("scene written", zap.String("path", path))
	return nil
}

// Clear removes every selectable object, releasing its resources.
// Ground and skybox stay.
func (s *Service) Clear() error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.clear()
	return nil
}

func (s *Service) clear() int {
	if s.BeforeClear != nil {
		s.BeforeClear()
	}
	n := 0
	for _, root := range s.scene.Index().Roots() {
		if s.scene.RemoveObject(root) {
			n++
		}
	}
	s.log.Info("scene cleared", zap.Int("removed", n))
	return n
}

// Import replaces the scene's objects with the document's. The document is
// parsed and every model instantiated before anything is removed, so any
// error leaves the scene as it was.
func (s *Service) Import(ctx context.Context, doc *Document, sinks Params) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	placements, err := doc.Placements()
	if err != nil {
		return err
	}

	if err := s.prefetch(ctx, placements); err != nil {
		return err
	}

	objects := make([]*scene.Node, 0, len(placements))
	discard := func() {
		for _, obj := range objects {
			obj.Dispose()
		}
	}
	for i, p := range placements {
		obj, err := s.models.Instance(ctx, p.Name)
		if err != nil {
			discard()
			return &NodeError{Index: i, Name: p.Name, Err: err}
		}
		obj.Position, obj.Rotation, obj.Scale = p.Position, p.Rotation, p.Scale
		objects = append(objects, obj)
	}

	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	s.clear()
	s.applyEnvironment(doc, sinks)
	for _, obj := range objects {
		s.scene.AddObject(obj, true)
	}

	s.log.Info("scene imported", zap.Int("nodes", len(objects)))
	return nil
}

// prefetch loads every distinct model concurrently so instantiation only
// hits the cache.
func (s *Service) prefetch(ctx context.Context, placements []Placement) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)

	seen := make(map[string]bool)
	for i, p := range placements {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		g.Go(func() error {
			if _, err := s.models.Get(gctx, p.Name); err != nil {
				s.log.Warn("model load failed", zap.String("model", p.Name), zap.Error(err))
				return &NodeError{Index: i, Name: p.Name, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) applyEnvironment(doc *Document, sinks Params) {
	if doc.Ground != nil {
		p := scene.GroundParams{Texture: doc.Ground.Texture, Repeats: doc.Ground.Repeats}
		s.scene.SetGround(p, s.materials)
		if sinks.Ground != nil {
			*sinks.Ground = p
		}
	}
	if doc.Skybox != nil {
		p := scene.SkyboxParams{Texture: doc.Skybox.Texture}
		s.scene.SetSkybox(p)
		if sinks.Skybox != nil {
			*sinks.Skybox = p
		}
	}
	if doc.Sun != nil {
		p := scene.SunParams{Color: doc.Sun.Color, Intensity: doc.Sun.Intensity, X: doc.Sun.X, Z: doc.Sun.Z}
		s.scene.SetSun(p)
		if sinks.Sun != nil {
			*sinks.Sun = p
		}
	}
}

// ImportFile reads path and imports it.
func (s *Service) ImportFile(ctx context.Context, path string, sinks Params) error {
	doc, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return s.Import(ctx, doc, sinks)
}

package main

import (
	"fmt"
	"image/color"
	"math/rand"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/aicore/config"
	"github.com/milk9111/aicore/ecs"
	"github.com/milk9111/aicore/ecs/component"
	"github.com/milk9111/aicore/ecs/system"
	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/prefabs"
)

// gridStep is the spacing of the scale lines in world units.
const gridStep = 5

var helpLines = []string{
	"AI4G: Steering Pipeline Demo",
	"H - Toggle help.",
	"A - Automatically move the goal",
	"N - Choose a new goal",
	"R - Reload the scene",
}

type Game struct {
	cfg    *config.Config
	logger *zap.Logger
	rng    *rand.Rand

	scene  *prefabs.Scene
	world  *ecs.World
	sched  *ecs.Scheduler
	entity ecs.Entity

	watcher  *prefabs.Watcher
	showHelp bool
	reached  int
}

func NewGame(cfg *config.Config, logger *zap.Logger, rng *rand.Rand) (*Game, error) {
	g := &Game{cfg: cfg, logger: logger, rng: rng, showHelp: true}
	if err := g.loadScene(); err != nil {
		return nil, err
	}
	if cfg.World.HotReload {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			logger.Warn("pipedemo: hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) loadScene() error {
	spec, err := prefabs.LoadSceneSpec(g.cfg.World.Scene)
	if err != nil {
		return err
	}
	g.applyConfig(&spec)

	scene, err := prefabs.BuildScene(spec, prefabs.WithLogger(g.logger), prefabs.WithRand(g.rng))
	if err != nil {
		return err
	}

	world := ecs.NewWorld()
	e := ecs.CreateEntity(world)
	st := &component.Steering{
		Character: scene.Character,
		Pipe:      scene.Pipe,
		Drag:      g.cfg.Motion.Drag,
		MaxSpeed:  g.cfg.Motion.MaxSpeed,
		WorldSize: scene.WorldSize,
	}
	if err := ecs.Add(world, e, component.SteeringComponent.Kind(), st); err != nil {
		return err
	}
	seeker := &component.GoalSeeker{
		Targeter: scene.Targeter,
		Auto:     true,
		Reach:    g.cfg.Motion.GoalReach,
		Pick:     scene.RandomGoal,
	}
	if err := ecs.Add(world, e, component.GoalSeekerComponent.Kind(), seeker); err != nil {
		return err
	}

	g.scene = scene
	g.world = world
	g.entity = e
	g.sched = ecs.NewScheduler(
		system.NewSteeringSystem(g.cfg.TickDuration()),
		system.NewGoalSystem(),
	)
	g.logger.Info("pipedemo: scene loaded",
		zap.String("scene", g.cfg.World.Scene),
		zap.Int("obstacles", len(scene.Obstacles)),
	)
	return nil
}

// applyConfig fills scene values the file leaves unset from the config.
func (g *Game) applyConfig(spec *prefabs.SceneSpec) {
	if spec.WorldSize == 0 {
		spec.WorldSize = g.cfg.World.Size
	}
	if spec.ConstraintSteps == 0 {
		spec.ConstraintSteps = g.cfg.Pipeline.ConstraintSteps
	}
	if spec.AvoidMargin == 0 {
		spec.AvoidMargin = g.cfg.Pipeline.AvoidMargin
	}
	if spec.MaxAcceleration == 0 {
		spec.MaxAcceleration = g.cfg.Pipeline.MaxAcceleration
	}
	if g.cfg.Pipeline.Broadphase {
		spec.Broadphase = true
	}
	if len(spec.Obstacles) == 0 && spec.RandomObstacles == nil {
		spec.RandomObstacles = &prefabs.RandomObstaclesSpec{
			Count:     g.cfg.World.Obstacles,
			MinRadius: 2,
			MaxRadius: 4,
		}
	}
}

func (g *Game) seeker() *component.GoalSeeker {
	s, _ := ecs.Get(g.world, g.entity, component.GoalSeekerComponent.Kind())
	return s
}

func (g *Game) Update() error {
	g.pollReload()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.showHelp = !g.showHelp
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		if s := g.seeker(); s != nil {
			s.Auto = !s.Auto
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.scene.NewRandomGoal()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reload()
	}

	g.sched.Update(g.world)
	for _, evt := range g.world.Events().Drain() {
		if r, ok := evt.Data.(ecs.GoalReachedEvent); ok {
			g.reached = r.Count
			g.logger.Debug("pipedemo: goal reached", zap.Int("count", r.Count))
		}
	}
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if ch.Kind == prefabs.ChangeSpec && ch.Name() == g.cfg.World.Scene {
				g.reload()
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("pipedemo: watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) reload() {
	if err := g.loadScene(); err != nil {
		g.logger.Error("pipedemo: reload failed", zap.Error(err))
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.White)
	g.drawGrid(screen)

	for _, o := range g.scene.Obstacles {
		x, y := g.toScreen(o.Position)
		r := float32(o.Radius * g.cfg.Window.Scale)
		vector.DrawFilledCircle(screen, x, y, r, colornames.Darkgray, true)
		vector.StrokeCircle(screen, x, y, r*0.85, 1, colornames.Dimgray, true)
	}

	if path := g.scene.Pipe.Path(); path != nil && path.Goal().PositionSet {
		x0, y0 := g.toScreen(path.Character().Position)
		x1, y1 := g.toScreen(path.Goal().Position)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, colornames.Green, true)
	}

	if s := g.seeker(); s != nil {
		if goal := s.Targeter.Goal(); goal.PositionSet {
			x, y := g.toScreen(goal.Position)
			vector.DrawFilledCircle(screen, x, y, 4, colornames.Darkred, true)
		}
	}

	g.drawAgent(screen)
	g.drawText(screen)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	size := g.scene.WorldSize
	for i := -size; i <= size; i += gridStep {
		x0, y0 := g.toScreen(geom.V3(-size, 0, i))
		x1, y1 := g.toScreen(geom.V3(size, 0, i))
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Lightgray, false)
		x0, y0 = g.toScreen(geom.V3(i, 0, -size))
		x1, y1 = g.toScreen(geom.V3(i, 0, size))
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Lightgray, false)
	}
}

func (g *Game) drawAgent(screen *ebiten.Image) {
	k := g.scene.Character
	x, y := g.toScreen(k.Position)
	agent := color.RGBA{R: 0, G: 77, B: 153, A: 255}
	vector.DrawFilledCircle(screen, x, y, 6, agent, true)

	nose := k.Position.Add(k.OrientationVector().Scale(2))
	nx, ny := g.toScreen(nose)
	vector.StrokeLine(screen, x, y, nx, ny, 2, agent, true)
}

func (g *Game) drawText(screen *ebiten.Image) {
	stats := g.scene.Pipe.Stats()
	lines := []string{
		g.scene.Status(),
		fmt.Sprintf("iterations %d  fallbacks %d  goals %d", stats.Iterations, stats.Fallbacks, g.reached),
	}
	if s := g.seeker(); s != nil && !s.Auto {
		lines = append(lines, "auto goal off")
	}
	if g.showHelp {
		lines = append(lines, "")
		lines = append(lines, helpLines...)
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

// toScreen projects the x/z ground plane onto the window, z pointing up.
func (g *Game) toScreen(p geom.Vector3) (float32, float32) {
	cx := float64(g.cfg.Window.Width) / 2
	cy := float64(g.cfg.Window.Height) / 2
	s := g.cfg.Window.Scale
	return float32(cx + p.X*s), float32(cy - p.Z*s)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

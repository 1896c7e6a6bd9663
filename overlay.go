package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/levels"
	"github.com/milk9111/pursuit/sim"
)

const (
	screenMargin        = 24.0
	coneSegments        = 16
	debugCircleSegments = 24
	debugDotSize        = 0.1
)

var (
	backgroundColor = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	sightOnlyColor  = color.RGBA{R: 60, G: 110, B: 50, A: 160}
	coneFillAlpha   = uint8(40)
)

// view maps world units (Y up) onto the screen (Y down), fitting the whole
// level with a margin.
type view struct {
	scale  float64
	offX   float64
	offY   float64
	height float64
}

func newView(lvl *levels.Level, screenW, screenH float64) view {
	if lvl == nil || lvl.Width <= 0 || lvl.Height <= 0 {
		return view{scale: 1}
	}
	scale := math.Min((screenW-2*screenMargin)/lvl.Width, (screenH-2*screenMargin)/lvl.Height)
	return view{
		scale:  scale,
		offX:   (screenW - lvl.Width*scale) / 2,
		offY:   (screenH - lvl.Height*scale) / 2,
		height: lvl.Height,
	}
}

func (v view) toScreen(p cp.Vector) (float32, float32) {
	return float32(v.offX + p.X*v.scale), float32(v.offY + (v.height-p.Y)*v.scale)
}

func (v view) length(d float64) float32 {
	return float32(d * v.scale)
}

// characterColor is red for the controlled character, orange while an
// enemy sees anyone and gray for everyone else.
func characterColor(active, threatened bool) color.Color {
	switch {
	case active && threatened:
		return colornames.Orange
	case active:
		return colornames.Red
	default:
		return colornames.Gray
	}
}

func stateColor(state component.StateID) color.RGBA {
	switch state {
	case component.StateChase:
		return colornames.Crimson
	case component.StateSearch:
		return colornames.Gold
	default:
		return colornames.Steelblue
	}
}

// drawOverlay renders the level, agents with their sight cones and the
// characters.
func drawOverlay(screen *ebiten.Image, s *sim.Simulation, v view) {
	screen.Fill(backgroundColor)
	drawLevel(screen, s.Level(), v)

	w := s.World()
	for _, agent := range s.Agents() {
		drawAgent(screen, w, agent, v)
	}
	drawCharacters(screen, w, s.Arbiter(), v)
}

func drawLevel(screen *ebiten.Image, lvl *levels.Level, v view) {
	x0, y0 := v.toScreen(cp.Vector{X: 0, Y: lvl.Height})
	vector.StrokeRect(screen, x0, y0, v.length(lvl.Width), v.length(lvl.Height), 2, colornames.Lightslategray, false)

	for _, o := range lvl.Obstacles {
		x, y := v.toScreen(cp.Vector{X: o.X, Y: o.Y + o.H})
		if o.SightOnly {
			vector.DrawFilledRect(screen, x, y, v.length(o.W), v.length(o.H), sightOnlyColor, false)
			continue
		}
		vector.DrawFilledRect(screen, x, y, v.length(o.W), v.length(o.H), colornames.Dimgray, false)
	}
}

func drawAgent(screen *ebiten.Image, w *ecs.World, agent ecs.Entity, v view) {
	pb, ok := ecs.Get(w, agent, component.PhysicsBodyComponent)
	if !ok || pb.Body == nil {
		return
	}
	p, ok := ecs.Get(w, agent, component.PerceptionComponent)
	if !ok {
		return
	}
	var state component.StateID
	if st, ok := ecs.Get(w, agent, component.AIStateComponent); ok {
		state = st.Current
	}
	clr := stateColor(state)
	pos := pb.Position()

	drawCone(screen, system.EyePosition(pos, p), p, clr, v)

	if pursuit, ok := ecs.Get(w, agent, component.PursuitComponent); ok {
		switch state {
		case component.StatePatrol:
			tx, ty := v.toScreen(pursuit.RoamTarget)
			vector.StrokeCircle(screen, tx, ty, 4, 1, colornames.Lightsteelblue, true)
		case component.StateSearch:
			drawCross(screen, pursuit.LastSeen, colornames.Gold, v)
		}
	}

	if steer, ok := ecs.Get(w, agent, component.SteeringComponent); ok && steer.Avoiding {
		ax, ay := v.toScreen(pos)
		bx, by := v.toScreen(pos.Add(steer.Avoidance))
		vector.StrokeLine(screen, ax, ay, bx, by, 1.5, colornames.Violet, true)
	}

	x, y := v.toScreen(pos)
	vector.DrawFilledCircle(screen, x, y, v.length(pb.Radius), clr, true)
}

func drawCone(screen *ebiten.Image, eyes cp.Vector, p *component.Perception, clr color.RGBA, v view) {
	if p.SightRange <= 0 {
		return
	}
	dir := common.Normalize(p.SightDir)
	if common.IsZero(dir) {
		return
	}
	half := math.Min(p.HalfAngle(), 180)

	fill := clr
	fill.A = coneFillAlpha
	ex, ey := v.toScreen(eyes)
	prevX, prevY := ex, ey
	for i := 0; i <= coneSegments; i++ {
		angle := -half + 2*half*float64(i)/coneSegments
		x, y := v.toScreen(eyes.Add(common.Rotate(dir, angle).Mult(p.SightRange)))
		vector.StrokeLine(screen, prevX, prevY, x, y, 1, clr, true)
		if i > 0 {
			// Thin spokes give the cone a translucent fill.
			vector.StrokeLine(screen, ex, ey, x, y, 1, fill, true)
		}
		prevX, prevY = x, y
	}
	if half < 180 {
		vector.StrokeLine(screen, prevX, prevY, ex, ey, 1, clr, true)
	}
}

func drawCross(screen *ebiten.Image, at cp.Vector, clr color.Color, v view) {
	x, y := v.toScreen(at)
	vector.StrokeLine(screen, x-5, y-5, x+5, y+5, 2, clr, true)
	vector.StrokeLine(screen, x-5, y+5, x+5, y-5, 2, clr, true)
}

func drawCharacters(screen *ebiten.Image, w *ecs.World, arbiter *system.ControlArbiter, v view) {
	threatened := arbiter.Threatened()
	ecs.ForEach2(w, component.CharacterComponent, component.PhysicsBodyComponent, func(e ecs.Entity, c *component.Character, pb *component.PhysicsBody) {
		if pb.Body == nil {
			return
		}
		x, y := v.toScreen(pb.Position())
		r := v.length(pb.Radius)
		vector.DrawFilledCircle(screen, x, y, r, characterColor(c.Active, threatened), true)
		if c.IsMain() {
			vector.StrokeCircle(screen, x, y, r+3, 1.5, colornames.White, true)
		}
	})
}

// physicsDebugDrawer draws the raw Chipmunk shapes on top of the overlay.
type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   view
}

func drawPhysicsDebug(screen *ebiten.Image, pw *ecs.PhysicsWorld, v view) {
	if pw == nil || pw.Space() == nil || screen == nil {
		return
	}
	cp.DrawSpace(pw.Space(), &physicsDebugDrawer{screen: screen, view: v})
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
	d.drawLine(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, clr cp.FColor) {
	x1, y1 := d.view.toScreen(a)
	x2, y2 := d.view.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(clr), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, clr cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, clr cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, center.Add(cp.ForAngle(t).Mult(radius)))
	}
	d.drawPolygon(points, clr)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

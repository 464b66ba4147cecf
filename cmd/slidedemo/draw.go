package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/body"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
	"github.com/milk9111/tileslide/scene"
	"github.com/milk9111/tileslide/tilemap"
	"golang.org/x/image/colornames"
)

func drawScene(screen *ebiten.Image, sc *scene.Scene, debug bool) {
	screen.Fill(colornames.Midnightblue)
	if sc == nil {
		return
	}
	drawMap(screen, sc.Map())

	for _, p := range sc.Props.Props() {
		pos, size := p.Rect()
		vector.FillRect(screen, float32(pos.X), float32(pos.Y), float32(size.X), float32(size.Y), colornames.Sienna, false)
	}
	for _, b := range sc.PlatformBodies() {
		drawBody(screen, b, colornames.Seagreen)
	}
	player := sc.PlayerBody()
	drawBody(screen, player, colornames.Crimson)

	if !debug {
		return
	}
	sc.Bodies.Draw(&chipmunkDrawer{screen: screen})
	for i := 0; i < player.SlideCount(); i++ {
		h := player.SlideCollision(i)
		if h == nil {
			continue
		}
		p, n := h.Position(), h.Normal()
		vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(p.X+n.X*12), float32(p.Y+n.Y*12), 1, colornames.Yellow, true)
	}
}

func drawMap(screen *ebiten.Image, m *tilemap.Map) {
	if m == nil {
		return
	}
	ts := m.TileSize()
	catalog := m.Catalog()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			id := m.Tile(x, y)
			if id == tilemap.TileEmpty {
				continue
			}
			px, py := float64(x)*ts, float64(y)*ts
			def, ok := catalog.Lookup(id)
			if !ok {
				vector.FillRect(screen, float32(px), float32(py), float32(ts), float32(ts), colornames.Slategray, false)
				continue
			}
			c := color.Color(colornames.Orange)
			if !def.Solid {
				c = colornames.Lightskyblue
			}
			vector.StrokeLine(screen,
				float32(px+def.X1*ts), float32(py+def.Y1*ts),
				float32(px+def.X2*ts), float32(py+def.Y2*ts),
				2, c, true)
		}
	}
}

func drawBody(screen *ebiten.Image, b *body.Body, c color.Color) {
	if b == nil {
		return
	}
	pos := b.Position()
	for _, sh := range b.Shapes() {
		if sh.Disabled {
			continue
		}
		switch sh.Kind {
		case collision.ShapeBox:
			vector.FillRect(screen, float32(pos.X+sh.Offset.X), float32(pos.Y+sh.Offset.Y), float32(sh.Size.X), float32(sh.Size.Y), c, false)
		case collision.ShapeRay:
			from := pos.Add(sh.Offset)
			to := from.Add(common.Normalize(sh.Dir).Mult(sh.Length))
			vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 1, c, true)
		}
	}
}

// chipmunkDrawer renders the body space's Chipmunk shapes as outlines.
type chipmunkDrawer struct {
	screen *ebiten.Image
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	vector.StrokeCircle(d.screen, float32(pos.X), float32(pos.Y), float32(radius), 1, c, true)
	ax := pos.X + math.Cos(angle)*radius
	ay := pos.Y + math.Sin(angle)*radius
	vector.StrokeLine(d.screen, float32(pos.X), float32(pos.Y), float32(ax), float32(ay), 1, c, true)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, fcolorToRGBA(fill), true)
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	w := float32(math.Max(1, radius*2))
	vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, fcolorToRGBA(outline), true)
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		a, b := verts[i], verts[(i+1)%count]
		vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, true)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	vector.FillCircle(d.screen, float32(pos.X), float32(pos.Y), float32(size/2), fcolorToRGBA(fill), true)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	return color.RGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: uint8(c.A * 255)}
}

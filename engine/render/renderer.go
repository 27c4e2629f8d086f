// package render is the software preview renderer. It rasterizes a posed rig
// into an image.Image: region attachments as transformed quads, deformable
// meshes from their skinned vertices, and optionally the bone segments on
// top. It exists for editor thumbnails, onion-skin ghosts, and the examples;
// it is not a game-speed compositor.
package render

import (
	"image"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
	"github.com/Carmen-Shannon/rig-go/engine/stage"
)

// Renderer rasterizes posed actors into images. A renderer is stateless
// between calls apart from its configuration and registered images, so one
// instance can serve many stages.
type Renderer interface {
	// RegisterImage associates a bitmap with a region attachment name.
	// Region attachments whose name has no registered bitmap are drawn as
	// flat tinted quads.
	//
	// Parameters:
	//   - name: the region name (atlas key or file stem)
	//   - img: the bitmap
	RegisterImage(name string, img image.Image)

	// Render draws every actor on a stage, back to front by slot draw order.
	// Call after Stage.Advance so the poses and skinned vertices are current.
	//
	// Parameters:
	//   - s: the stage to draw
	//
	// Returns:
	//   - image.Image: the rendered frame
	Render(s stage.Stage) image.Image

	// RenderActor draws a single actor.
	//
	// Parameters:
	//   - a: the actor to draw
	//
	// Returns:
	//   - image.Image: the rendered frame
	RenderActor(a stage.Actor) image.Image
}

type renderer struct {
	width, height int
	zoom          float64
	background    gg.RGBA
	drawBones     bool
	images        map[string]image.Image
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer with a given canvas size. The world origin
// maps to the canvas center with +Y up; WithZoom scales world units to
// pixels.
//
// Parameters:
//   - width: canvas width in pixels
//   - height: canvas height in pixels
//   - options: optional configuration
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(width, height int, options ...RendererOption) Renderer {
	r := &renderer{
		width:      width,
		height:     height,
		zoom:       1,
		background: gg.RGBA{R: 0, G: 0, B: 0, A: 0},
		images:     make(map[string]image.Image),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *renderer) RegisterImage(name string, img image.Image) {
	r.images[name] = img
}

func (r *renderer) Render(s stage.Stage) image.Image {
	return r.draw(s.RenderList(), s.Actors())
}

func (r *renderer) RenderActor(a stage.Actor) image.Image {
	skel := a.Skeleton()
	var items []stage.RenderItem
	for _, slot := range skel.SlotsByDrawOrder() {
		bone, ok := skel.Bone(slot.BoneName)
		if !ok {
			continue
		}
		item := stage.RenderItem{Actor: a.Name(), Slot: slot, Bone: bone}
		if slot.Attachment != nil && slot.Attachment.Mesh != nil {
			item.SkinnedVertices = a.SkinnedVertices(slot.Name)
		}
		items = append(items, item)
	}
	return r.draw(items, []stage.Actor{a})
}

func (r *renderer) draw(items []stage.RenderItem, actors []stage.Actor) image.Image {
	ctx := gg.NewContext(r.width, r.height)
	ctx.ClearWithColor(r.background)

	// World origin at canvas center, +Y up.
	ctx.Translate(float64(r.width)/2, float64(r.height)/2)
	ctx.Scale(r.zoom, -r.zoom)

	for _, item := range items {
		att := item.Slot.Attachment
		if att == nil {
			continue
		}
		switch {
		case att.Region != nil:
			r.drawRegion(ctx, item)
		case att.Mesh != nil:
			r.drawMesh(ctx, item)
		}
	}

	if r.drawBones {
		for _, a := range actors {
			r.drawSkeleton(ctx, a.Skeleton())
		}
	}
	return ctx.Image()
}

func (r *renderer) drawRegion(ctx *gg.Context, item stage.RenderItem) {
	region := item.Slot.Attachment.Region
	corners := region.Corners()
	var world [4]common.Vec2
	for i, c := range corners {
		world[i] = item.Bone.WorldMat.TransformPoint(c)
	}

	ctx.MoveTo(world[0].X, world[0].Y)
	for _, p := range world[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()

	if img, ok := r.images[region.Name]; ok {
		r.fillWithImage(ctx, img, world)
		return
	}
	tint := item.Slot.Tint
	ctx.SetRGBA(tint.R, tint.G, tint.B, tint.A)
	ctx.Fill()
}

// fillWithImage fills the current quad path with a bitmap pattern anchored
// at the quad's bounding box. The bitmap is rescaled to the box first, which
// keeps the preview cheap at the cost of ignoring in-plane rotation of the
// texture; tint-only fills stay exact.
func (r *renderer) fillWithImage(ctx *gg.Context, img image.Image, world [4]common.Vec2) {
	minX, minY := world[0].X, world[0].Y
	maxX, maxY := minX, minY
	for _, p := range world[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	w := int(maxX-minX+0.5) + 1
	h := int(maxY-minY+0.5) + 1
	if w < 1 || h < 1 {
		ctx.ClearPath()
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	buf := gg.ImageBufFromImage(scaled)
	pattern := ctx.CreateImagePattern(buf, int(minX), int(minY), w, h)
	ctx.SetFillPattern(pattern)
	ctx.Fill()
}

func (r *renderer) drawMesh(ctx *gg.Context, item stage.RenderItem) {
	m := item.Slot.Attachment.Mesh
	verts := item.SkinnedVertices
	if len(verts) == 0 {
		// Unbound or not yet skinned: fall back to authored positions under
		// the bone's transform.
		for _, v := range m.Vertices() {
			verts = append(verts, item.Bone.WorldMat.TransformPoint(v.Position))
		}
	}

	tint := item.Slot.Tint
	tris := m.Triangles()
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := verts[tris[i]], verts[tris[i+1]], verts[tris[i+2]]
		ctx.MoveTo(a.X, a.Y)
		ctx.LineTo(b.X, b.Y)
		ctx.LineTo(c.X, c.Y)
		ctx.ClosePath()
	}
	ctx.SetRGBA(tint.R, tint.G, tint.B, tint.A*0.5)
	ctx.FillPreserve()
	ctx.SetRGBA(tint.R, tint.G, tint.B, tint.A)
	ctx.SetLineWidth(1 / r.zoom)
	ctx.Stroke()
}

func (r *renderer) drawSkeleton(ctx *gg.Context, skel skeleton.Skeleton) {
	ctx.SetLineWidth(2 / r.zoom)
	for _, b := range skel.Bones() {
		p := b.WorldPosition()
		ctx.SetRGBA(1, 0.85, 0.2, 0.9)
		if b.Length > 0 {
			tip := b.TipPosition()
			ctx.DrawLine(p.X, p.Y, tip.X, tip.Y)
			ctx.Stroke()
		}
		ctx.DrawCircle(p.X, p.Y, 3/r.zoom)
		ctx.SetRGBA(0.2, 0.9, 0.4, 0.9)
		ctx.Fill()
	}
}

package model

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Keys of the built-in procedural meshes.
const (
	MeshKeyBox    = "box"
	MeshKeyPlane  = "plane"
	MeshKeySphere = "sphere"
)

// Geometry is CPU-side mesh data produced by a generator.
type Geometry struct {
	Vertices []common.Vertex
	Indices  []uint32
}

// quadFace describes one square face: its outward normal and two in-plane axes with u × v = normal,
// which makes the generated triangles counter-clockwise seen from outside.
type quadFace struct {
	normal, u, v mgl32.Vec3
}

var boxFaces = [6]quadFace{
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}}, // back
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},   // front
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},  // left
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},  // right
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},  // bottom
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},  // top
}

// appendQuad appends a unit square centered at offset·normal, spanning [-0.5, 0.5] on both axes.
func appendQuad(g *Geometry, f quadFace, offset float32) {
	base := uint32(len(g.Vertices))
	center := f.normal.Mul(offset)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, c := range corners {
		pos := center.Add(f.u.Mul(0.5 * c[0])).Add(f.v.Mul(0.5 * c[1]))
		g.Vertices = append(g.Vertices, common.Vertex{
			Position:  pos,
			Normal:    f.normal,
			TexCoords: mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2},
		})
	}
	g.Indices = append(g.Indices, base, base+1, base+2, base+2, base+3, base)
}

// BoxGeometry returns a unit cube centered on the origin: 24 vertices (4 per face so each face has
// its own normal) and 36 indices.
func BoxGeometry() Geometry {
	g := Geometry{
		Vertices: make([]common.Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range boxFaces {
		appendQuad(&g, f, 0.5)
	}
	return g
}

// PlaneGeometry returns a unit square in the XZ plane facing +Y.
func PlaneGeometry() Geometry {
	var g Geometry
	appendQuad(&g, boxFaces[5], 0)
	return g
}

// SphereGeometry returns a UV sphere of radius 0.5 centered on the origin.
// sectors is the number of longitude slices (minimum 3) and stacks the number of latitude bands (minimum 2).
func SphereGeometry(sectors, stacks int) Geometry {
	sectors = max(sectors, 3)
	stacks = max(stacks, 2)
	const radius = 0.5

	g := Geometry{
		Vertices: make([]common.Vertex, 0, (stacks+1)*(sectors+1)),
		Indices:  make([]uint32, 0, 6*sectors*(stacks-1)),
	}

	sectorStep := 2 * math32.Pi / float32(sectors)
	stackStep := math32.Pi / float32(stacks)
	for i := 0; i <= stacks; i++ {
		stackAngle := math32.Pi/2 - float32(i)*stackStep
		ring := radius * math32.Cos(stackAngle)
		y := radius * math32.Sin(stackAngle)
		for j := 0; j <= sectors; j++ {
			sectorAngle := float32(j) * sectorStep
			pos := mgl32.Vec3{ring * math32.Cos(sectorAngle), y, -ring * math32.Sin(sectorAngle)}
			g.Vertices = append(g.Vertices, common.Vertex{
				Position:  pos,
				Normal:    pos.Mul(1 / radius),
				TexCoords: mgl32.Vec2{float32(j) / float32(sectors), 1 - float32(i)/float32(stacks)},
			})
		}
	}

	for i := 0; i < stacks; i++ {
		k1 := uint32(i * (sectors + 1))
		k2 := k1 + uint32(sectors+1)
		for j := 0; j < sectors; j, k1, k2 = j+1, k1+1, k2+1 {
			if i != 0 {
				g.Indices = append(g.Indices, k1, k2, k1+1)
			}
			if i != stacks-1 {
				g.Indices = append(g.Indices, k1+1, k2, k2+1)
			}
		}
	}
	return g
}

// MeshFactory builds a new Mesh on a renderer. Scenes keep a registry of factories keyed by mesh name.
type MeshFactory func(r renderer.Renderer) (Mesh, error)

// GeometryFactory wraps a generator into a MeshFactory that uploads an untextured mesh.
//
// Parameters:
//   - name: the debug name given to meshes built by the factory
//   - gen: the geometry generator
//
// Returns:
//   - MeshFactory: the factory
func GeometryFactory(name string, gen func() Geometry) MeshFactory {
	return func(r renderer.Renderer) (Mesh, error) {
		g := gen()
		return NewMesh(r, g.Vertices, g.Indices, WithMeshName(name))
	}
}

// DefaultMeshFactories returns the built-in procedural meshes keyed by MeshKeyBox, MeshKeyPlane and MeshKeySphere.
//
// Returns:
//   - map[string]MeshFactory: a fresh map the caller may extend
func DefaultMeshFactories() map[string]MeshFactory {
	return map[string]MeshFactory{
		MeshKeyBox:   GeometryFactory(MeshKeyBox, BoxGeometry),
		MeshKeyPlane: GeometryFactory(MeshKeyPlane, PlaneGeometry),
		MeshKeySphere: GeometryFactory(MeshKeySphere, func() Geometry {
			return SphereGeometry(32, 16)
		}),
	}
}

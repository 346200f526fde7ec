// Package asset builds mesh data from primitives, model files and text.
package asset

import (
	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/resource"
)

var quadIndices = []uint32{0, 1, 2, 2, 3, 0}

// ScreenQuad is the unit square from (0,0) to (1,1) used for compositing.
// Texture coordinates equal positions.
func ScreenQuad() resource.MeshData {
	return resource.MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   append([]uint32(nil), quadIndices...),
	}
}

// Quad is a unit square centered on the origin facing +Z.
func Quad() resource.MeshData {
	n := mgl32.Vec3{0, 0, 1}
	return resource.MeshData{
		Positions: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Normals:   []mgl32.Vec3{n, n, n, n},
		Indices:   append([]uint32(nil), quadIndices...),
	}
}

type face struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
	uvs     [4]mgl32.Vec2
}

// Cube is an axis-aligned cube with edge length size. Each face has its own
// four vertices so normals stay flat.
func Cube(size float32) resource.MeshData {
	s := size / 2
	faces := []face{
		{mgl32.Vec3{0, 0, 1},
			[4]mgl32.Vec3{{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}},
			[4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{mgl32.Vec3{0, 0, -1},
			[4]mgl32.Vec3{{s, -s, -s}, {-s, -s, -s}, {-s, s, -s}, {s, s, -s}},
			[4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{mgl32.Vec3{0, 1, 0},
			[4]mgl32.Vec3{{-s, s, s}, {s, s, s}, {s, s, -s}, {-s, s, -s}},
			[4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{mgl32.Vec3{0, -1, 0},
			[4]mgl32.Vec3{{-s, -s, -s}, {s, -s, -s}, {s, -s, s}, {-s, -s, s}},
			[4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{mgl32.Vec3{1, 0, 0},
			[4]mgl32.Vec3{{s, -s, s}, {s, -s, -s}, {s, s, -s}, {s, s, s}},
			[4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{mgl32.Vec3{-1, 0, 0},
			[4]mgl32.Vec3{{-s, -s, -s}, {-s, -s, s}, {-s, s, s}, {-s, s, -s}},
			[4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
	}

	var d resource.MeshData
	for i, f := range faces {
		base := uint32(i * 4)
		for j := 0; j < 4; j++ {
			d.Positions = append(d.Positions, f.corners[j])
			d.TexCoords = append(d.TexCoords, f.uvs[j])
			d.Normals = append(d.Normals, f.normal)
		}
		for _, idx := range quadIndices {
			d.Indices = append(d.Indices, base+idx)
		}
	}
	return d
}

package asset

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"vector-engine/log"
	"vector-engine/resource"
)

var logger = log.New("asset")

// LoadGLTF opens a .gltf or .glb file and returns one mesh per primitive.
func LoadGLTF(path string) ([]resource.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return MeshesFromGLTF(doc)
}

// MeshesFromGLTF converts every primitive of doc, in mesh order. Primitives
// that fail to decode are logged and skipped.
func MeshesFromGLTF(doc *gltf.Document) ([]resource.MeshData, error) {
	var out []resource.MeshData
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			d, err := gltfPrimitive(doc, prim)
			if err != nil {
				logger.Warningf("gltf mesh %d (%s) primitive %d: %v", mi, m.Name, pi, err)
				continue
			}
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoGeometry
	}
	return out, nil
}

func gltfPrimitive(doc *gltf.Document, prim *gltf.Primitive) (resource.MeshData, error) {
	var d resource.MeshData

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return d, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return d, fmt.Errorf("positions: %w", err)
	}
	d.Positions = make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		d.Positions[i] = mgl32.Vec3(p)
	}

	if prim.Indices != nil {
		d.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return d, fmt.Errorf("indices: %w", err)
		}
	} else {
		d.Indices = make([]uint32, len(positions))
		for i := range d.Indices {
			d.Indices[i] = uint32(i)
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return d, fmt.Errorf("texture coordinates: %w", err)
		}
		if len(uvs) == len(positions) {
			d.TexCoords = make([]mgl32.Vec2, len(uvs))
			for i, uv := range uvs {
				d.TexCoords[i] = mgl32.Vec2(uv)
			}
		}
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return d, fmt.Errorf("normals: %w", err)
		}
		if len(normals) == len(positions) {
			d.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				d.Normals[i] = mgl32.Vec3(n)
			}
		}
	}
	if d.Normals == nil {
		d.Normals = GenerateNormals(d.Positions, d.Indices)
	}

	return d, d.Validate()
}

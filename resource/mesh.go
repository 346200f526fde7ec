package resource

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
)

// Vertex attribute locations shared by every shader.
const (
	AttribPosition uint32 = 0
	AttribTexCoord uint32 = 1
	AttribNormal   uint32 = 2
	// AttribInstance is the first of four consecutive locations holding a
	// per-instance transform, one column each.
	AttribInstance uint32 = 3
)

// ErrInvalidMeshData is returned for mesh data that cannot be uploaded.
var ErrInvalidMeshData = errors.New("invalid mesh data")

// MeshData is the CPU-side geometry handed to the registry.
type MeshData struct {
	Positions []mgl32.Vec3
	Indices   []uint32
	TexCoords []mgl32.Vec2 // optional; one per position when present
	Normals   []mgl32.Vec3 // optional; one per position when present
}

// Validate checks attribute lengths and index bounds.
func (d MeshData) Validate() error {
	if len(d.Positions) == 0 {
		return fmt.Errorf("%w: no positions", ErrInvalidMeshData)
	}
	if len(d.Indices) == 0 {
		return fmt.Errorf("%w: no indices", ErrInvalidMeshData)
	}
	if n := len(d.TexCoords); n != 0 && n != len(d.Positions) {
		return fmt.Errorf("%w: %d texture coordinates for %d positions", ErrInvalidMeshData, n, len(d.Positions))
	}
	if n := len(d.Normals); n != 0 && n != len(d.Positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrInvalidMeshData, n, len(d.Positions))
	}
	for i, idx := range d.Indices {
		if int(idx) >= len(d.Positions) {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInvalidMeshData, idx, i)
		}
	}
	return nil
}

// Mesh is an uploaded vertex array with its buffers. Only the registry that
// created it may update or release it.
type Mesh struct {
	vao      gpu.VertexArray
	elements int32
	buffers  []gpu.Buffer

	texCoords, normals bool

	instances    gpu.Buffer
	instanceCap  int
	instanceData []float32
}

func (m *Mesh) VertexArray() gpu.VertexArray { return m.vao }
func (m *Mesh) ElementCount() int32          { return m.elements }

// CreateMeshBuffers uploads data. When existing is non-nil its vertex array
// is reused: the old buffers are released, new ones attached, and existing
// is updated in place and returned. An update must keep the attribute layout
// of existing; data that adds or drops texture coordinates or normals is
// rejected with ErrInvalidMeshData and leaves existing untouched.
func (r *Registry) CreateMeshBuffers(data MeshData, existing *Mesh) (*Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	mesh := existing
	if mesh == nil {
		mesh = &Mesh{vao: r.createVertexArray()}
	} else {
		if !r.vertexArrays.has(mesh.vao) {
			return nil, fmt.Errorf("update mesh: vertex array %d is not live", mesh.vao)
		}
		if mesh.texCoords != (len(data.TexCoords) > 0) || mesh.normals != (len(data.Normals) > 0) {
			return nil, fmt.Errorf("%w: update changes the attribute layout", ErrInvalidMeshData)
		}
		for _, b := range mesh.buffers {
			r.deleteBuffer(b)
		}
		mesh.buffers = mesh.buffers[:0]
	}

	r.ctx.BindVertexArray(mesh.vao)

	indices := r.createBuffer()
	r.ctx.ElementBufferData(indices, data.Indices)
	mesh.buffers = append(mesh.buffers, indices)

	mesh.buffers = append(mesh.buffers, r.attribute(AttribPosition, 3, flatten3(data.Positions)))
	if len(data.TexCoords) > 0 {
		mesh.buffers = append(mesh.buffers, r.attribute(AttribTexCoord, 2, flatten2(data.TexCoords)))
	}
	if len(data.Normals) > 0 {
		mesh.buffers = append(mesh.buffers, r.attribute(AttribNormal, 3, flatten3(data.Normals)))
	}

	r.ctx.BindVertexArray(0)
	mesh.elements = int32(len(data.Indices))
	mesh.texCoords = len(data.TexCoords) > 0
	mesh.normals = len(data.Normals) > 0
	return mesh, nil
}

// UpdateMesh replaces the contents of mesh, keeping its vertex array.
func (r *Registry) UpdateMesh(mesh *Mesh, data MeshData) error {
	if mesh == nil {
		return fmt.Errorf("update mesh: nil mesh")
	}
	_, err := r.CreateMeshBuffers(data, mesh)
	return err
}

// LoadMeshData uploads a 3D mesh.
func (r *Registry) LoadMeshData(positions []mgl32.Vec3, indices []uint32, texCoords []mgl32.Vec2, normals []mgl32.Vec3) (*Mesh, error) {
	return r.CreateMeshBuffers(MeshData{
		Positions: positions,
		Indices:   indices,
		TexCoords: texCoords,
		Normals:   normals,
	}, nil)
}

// LoadMeshData2D uploads a mesh without normals, as used for UI and text.
// A non-nil existing mesh is updated in place.
func (r *Registry) LoadMeshData2D(positions []mgl32.Vec3, indices []uint32, texCoords []mgl32.Vec2, existing *Mesh) (*Mesh, error) {
	return r.CreateMeshBuffers(MeshData{
		Positions: positions,
		Indices:   indices,
		TexCoords: texCoords,
	}, existing)
}

// DeleteMesh releases the vertex array and every buffer of mesh. It returns
// false if the mesh is not live.
func (r *Registry) DeleteMesh(mesh *Mesh) bool {
	if mesh == nil || !r.vertexArrays.has(mesh.vao) {
		return false
	}
	for _, b := range mesh.buffers {
		r.deleteBuffer(b)
	}
	if mesh.instances != 0 {
		r.deleteBuffer(mesh.instances)
	}
	r.deleteVertexArray(mesh.vao)
	*mesh = Mesh{}
	return true
}

// UploadInstances fills the per-instance transform buffer of mesh, creating
// it and wiring attribute locations AttribInstance..AttribInstance+3 on first
// use. The bound vertex array is left unchanged.
func (r *Registry) UploadInstances(mesh *Mesh, transforms []mgl32.Mat4) {
	const stride = 16 * 4

	if mesh.instances == 0 {
		prev := r.ctx.CurrentVertexArray()
		mesh.instances = r.createBuffer()
		r.ctx.BindVertexArray(mesh.vao)
		r.ctx.ArrayBufferData(mesh.instances, nil, gpu.DynamicDraw)
		for i := uint32(0); i < 4; i++ {
			r.ctx.EnableVertexAttrib(AttribInstance + i)
			r.ctx.VertexAttribPointer(AttribInstance+i, 4, stride, int(i)*16)
			r.ctx.VertexAttribDivisor(AttribInstance+i, 1)
		}
		r.ctx.BindVertexArray(prev)
	}

	mesh.instanceData = mesh.instanceData[:0]
	for _, m := range transforms {
		mesh.instanceData = append(mesh.instanceData, m[:]...)
	}
	if len(transforms) > mesh.instanceCap {
		r.ctx.ArrayBufferData(mesh.instances, mesh.instanceData, gpu.DynamicDraw)
		mesh.instanceCap = len(transforms)
	} else {
		r.ctx.ArrayBufferSubData(mesh.instances, mesh.instanceData)
	}
}

// attribute uploads one float attribute buffer into the bound vertex array.
func (r *Registry) attribute(location uint32, size int, data []float32) gpu.Buffer {
	b := r.createBuffer()
	r.ctx.ArrayBufferData(b, data, gpu.StaticDraw)
	r.ctx.VertexAttribPointer(location, size, 0, 0)
	return b
}

func flatten3(v []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func flatten2(v []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(v)*2)
	for _, p := range v {
		out = append(out, p[0], p[1])
	}
	return out
}

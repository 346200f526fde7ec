package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
	"vector-engine/material"
	"vector-engine/resource"
)

// Batch is one instanced draw. A non-zero Texture is bound on unit 0 for the draw.
type Batch struct {
	Transforms []mgl32.Mat4
	Texture    gpu.Texture
}

// Bucket holds everything queued for one mesh under one material.
// Transforms are drawn first, one draw each, then every batch.
type Bucket struct {
	Mesh       *resource.Mesh
	Transforms []mgl32.Mat4
	Batches    []Batch
}

// Group is the set of buckets sharing a material, in first-submission order.
type Group struct {
	Material *material.Material
	Buckets  []*Bucket

	index map[*resource.Mesh]int
}

// Queue groups draw submissions by material, then by mesh. Groups and
// buckets keep the order in which they were first used; transforms inside
// a bucket are FIFO.
type Queue struct {
	groups []*Group
	index  map[*material.Material]int
}

func NewQueue() *Queue {
	return &Queue{index: make(map[*material.Material]int)}
}

func (q *Queue) bucket(m *material.Material, mesh *resource.Mesh) *Bucket {
	gi, ok := q.index[m]
	if !ok {
		gi = len(q.groups)
		q.index[m] = gi
		q.groups = append(q.groups, &Group{Material: m, index: make(map[*resource.Mesh]int)})
	}
	g := q.groups[gi]
	bi, ok := g.index[mesh]
	if !ok {
		bi = len(g.Buckets)
		g.index[mesh] = bi
		g.Buckets = append(g.Buckets, &Bucket{Mesh: mesh})
	}
	return g.Buckets[bi]
}

// Add queues one draw of mesh at transform. A nil material or mesh is dropped.
func (q *Queue) Add(m *material.Material, mesh *resource.Mesh, transform mgl32.Mat4) {
	if m == nil || mesh == nil {
		return
	}
	b := q.bucket(m, mesh)
	b.Transforms = append(b.Transforms, transform)
}

// AddInstanced queues one instanced draw. The transforms are copied. Nil
// keys and an empty slice queue nothing.
func (q *Queue) AddInstanced(m *material.Material, mesh *resource.Mesh, transforms []mgl32.Mat4, texture gpu.Texture) {
	if m == nil || mesh == nil || len(transforms) == 0 {
		return
	}
	b := q.bucket(m, mesh)
	b.Batches = append(b.Batches, Batch{
		Transforms: append([]mgl32.Mat4(nil), transforms...),
		Texture:    texture,
	})
}

// Groups returns the queued groups in order. The slice is valid until Reset.
func (q *Queue) Groups() []*Group { return q.groups }

// Len is the number of queued materials.
func (q *Queue) Len() int { return len(q.groups) }

// Draws counts the draw calls the queue would issue for one camera.
func (q *Queue) Draws() int {
	n := 0
	for _, g := range q.groups {
		for _, b := range g.Buckets {
			n += len(b.Transforms) + len(b.Batches)
		}
	}
	return n
}

// Reset empties the queue.
func (q *Queue) Reset() {
	clear(q.groups)
	q.groups = q.groups[:0]
	clear(q.index)
}

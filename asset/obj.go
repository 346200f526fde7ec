package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/resource"
)

// ErrNoGeometry is returned when a model file contains no faces.
var ErrNoGeometry = errors.New("no geometry")

type objRef struct{ v, vt, vn int }

// LoadOBJFile opens and parses a Wavefront .obj file.
func LoadOBJFile(path string) (resource.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return resource.MeshData{}, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	d, err := LoadOBJ(f)
	if err != nil {
		return resource.MeshData{}, fmt.Errorf("obj %q: %w", path, err)
	}
	return d, nil
}

// LoadOBJ parses Wavefront .obj geometry into a single mesh. Polygons are
// fan-triangulated and identical position/uv/normal triples share a vertex.
// Objects, groups and materials are ignored.
func LoadOBJ(r io.Reader) (resource.MeshData, error) {
	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		uvs       []mgl32.Vec2
		faces     [][3]objRef
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return resource.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, mgl32.Vec3{v[0], v[1], v[2]})

		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return resource.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, mgl32.Vec3{v[0], v[1], v[2]})

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return resource.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, mgl32.Vec2{v[0], v[1]})

		case "f":
			if len(fields) < 4 {
				return resource.MeshData{}, fmt.Errorf("line %d: face with %d vertices", lineNo, len(fields)-1)
			}
			refs := make([]objRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return resource.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
				}
				refs = append(refs, ref)
			}
			for i := 1; i+1 < len(refs); i++ {
				faces = append(faces, [3]objRef{refs[0], refs[i], refs[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return resource.MeshData{}, fmt.Errorf("scan obj: %w", err)
	}
	if len(faces) == 0 {
		return resource.MeshData{}, ErrNoGeometry
	}
	return buildOBJMesh(faces, positions, uvs, normals), nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components; got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// indices, -1 when absent. Negative indices count back from the end.
func parseFaceVertex(tok string, nv, nvt, nvn int) (objRef, error) {
	ref := objRef{v: -1, vt: -1, vn: -1}
	parts := strings.Split(tok, "/")
	counts := [3]int{nv, nvt, nvn}
	dst := [3]*int{&ref.v, &ref.vt, &ref.vn}
	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return ref, fmt.Errorf("face vertex %q: %w", tok, err)
		}
		if n > 0 {
			n--
		} else {
			n += counts[i]
		}
		if n < 0 || n >= counts[i] {
			return ref, fmt.Errorf("face vertex %q: index out of range", tok)
		}
		*dst[i] = n
	}
	if ref.v < 0 {
		return ref, fmt.Errorf("face vertex %q: missing position", tok)
	}
	return ref, nil
}

func buildOBJMesh(faces [][3]objRef, positions []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3) resource.MeshData {
	var d resource.MeshData
	seen := map[objRef]uint32{}
	hasUV := len(uvs) > 0
	hasNormals := len(normals) > 0

	for _, face := range faces {
		for _, ref := range face {
			if idx, ok := seen[ref]; ok {
				d.Indices = append(d.Indices, idx)
				continue
			}
			idx := uint32(len(d.Positions))
			d.Positions = append(d.Positions, positions[ref.v])
			if hasUV {
				var uv mgl32.Vec2
				if ref.vt >= 0 {
					uv = uvs[ref.vt]
				}
				d.TexCoords = append(d.TexCoords, uv)
			}
			if hasNormals {
				n := mgl32.Vec3{0, 1, 0}
				if ref.vn >= 0 {
					n = normals[ref.vn]
				}
				d.Normals = append(d.Normals, n)
			}
			seen[ref] = idx
			d.Indices = append(d.Indices, idx)
		}
	}

	if !hasNormals {
		d.Normals = GenerateNormals(d.Positions, d.Indices)
	}
	return d
}

// GenerateNormals returns area-weighted vertex normals for a triangle list.
func GenerateNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	accum := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := positions[i0]
		n := positions[i1].Sub(p0).Cross(positions[i2].Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i, n := range accum {
		if n.Len() > 0 {
			accum[i] = n.Normalize()
		} else {
			accum[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return accum
}

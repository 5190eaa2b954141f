package kernel

// Mesh is a triangle soup. All arrays are flat: vertices has 3 floats per
// vertex (x,y,z), normals has 3 floats per vertex, indices has 3 uint32s
// per triangle.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
	Name     string
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) [3][3]float32 {
	var t [3][3]float32
	for j := 0; j < 3; j++ {
		v := m.Indices[3*i+j]
		t[j] = [3]float32{m.Vertices[3*v], m.Vertices[3*v+1], m.Vertices[3*v+2]}
	}
	return t
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// has zero bounds.
func (m *Mesh) Bounds() (min, max [3]float32) {
	for i := 0; i < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if i == 0 || v < min[a] {
				min[a] = v
			}
			if i == 0 || v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max
}

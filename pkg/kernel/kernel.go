// Package kernel defines the solid modelling interface used to preview a
// toolpath. A backend (sdfx) provides primitives, booleans and
// tessellation behind it.
package kernel

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and tessellates solids.
type Kernel interface {
	// Box has its minimum corner at the origin.
	Box(x, y, z float64) Solid
	// Cylinder stands on the XY plane, centred on the Z axis.
	Cylinder(height, radius float64) Solid

	Union(solids ...Solid) Solid
	Difference(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}

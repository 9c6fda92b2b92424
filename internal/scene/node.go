package scene

import "github.com/electroride/configurator/internal/models"

// Shape is a primitive the renderer knows how to build.
type Shape string

const (
	ShapeCylinder Shape = "cylinder" // args: radiusTop, radiusBottom, height, radialSegments
	ShapeTorus    Shape = "torus"    // args: radius, tube, radialSegments, tubularSegments
	ShapeBox      Shape = "box"      // args: width, height, depth
)

// NodeKind tells groups from meshes.
type NodeKind string

const (
	KindGroup NodeKind = "group"
	KindMesh  NodeKind = "mesh"
)

// Geometry is a primitive shape and its constructor arguments.
type Geometry struct {
	Shape Shape     `json:"shape" msgpack:"shape"`
	Args  []float64 `json:"args" msgpack:"args"`
}

// Material is a physically based surface.
type Material struct {
	Color             string  `json:"color" msgpack:"color"`
	Metalness         float64 `json:"metalness" msgpack:"metalness"`
	Roughness         float64 `json:"roughness" msgpack:"roughness"`
	Emissive          string  `json:"emissive,omitempty" msgpack:"emissive,omitempty"`
	EmissiveIntensity float64 `json:"emissiveIntensity,omitempty" msgpack:"emissiveIntensity,omitempty"`
}

// Node is one element of the scene tree. Transforms are relative to the parent.
type Node struct {
	Name          string      `json:"name" msgpack:"name"`
	Kind          NodeKind    `json:"kind" msgpack:"kind"`
	Geometry      *Geometry   `json:"geometry,omitempty" msgpack:"geometry,omitempty"`
	Material      *Material   `json:"material,omitempty" msgpack:"material,omitempty"`
	Position      models.Vec3 `json:"position" msgpack:"position"`
	Rotation      models.Vec3 `json:"rotation" msgpack:"rotation"`
	Scale         models.Vec3 `json:"scale" msgpack:"scale"`
	CastShadow    bool        `json:"castShadow,omitempty" msgpack:"castShadow,omitempty"`
	ReceiveShadow bool        `json:"receiveShadow,omitempty" msgpack:"receiveShadow,omitempty"`
	Children      []Node      `json:"children,omitempty" msgpack:"children,omitempty"`
}

var unitScale = models.Vec3{1, 1, 1}

func group(name string, children ...Node) Node {
	return Node{Name: name, Kind: KindGroup, Scale: unitScale, Children: children}
}

// mesh builds a shadow-casting mesh at the parent origin.
func mesh(name string, g Geometry, m Material) Node {
	return Node{
		Name:          name,
		Kind:          KindMesh,
		Geometry:      &g,
		Material:      &m,
		Scale:         unitScale,
		CastShadow:    true,
		ReceiveShadow: true,
	}
}

func (n Node) at(x, y, z float64) Node {
	n.Position = models.Vec3{x, y, z}
	return n
}

func (n Node) rotated(x, y, z float64) Node {
	n.Rotation = models.Vec3{x, y, z}
	return n
}

func (n Node) scaled(s float64) Node {
	n.Scale = models.Vec3{s, s, s}
	return n
}

func (n Node) with(children ...Node) Node {
	n.Children = append(n.Children, children...)
	return n
}

func cylinder(radiusTop, radiusBottom, height, segments float64) Geometry {
	return Geometry{Shape: ShapeCylinder, Args: []float64{radiusTop, radiusBottom, height, segments}}
}

func torus(radius, tube, radialSegments, tubularSegments float64) Geometry {
	return Geometry{Shape: ShapeTorus, Args: []float64{radius, tube, radialSegments, tubularSegments}}
}

func box(width, height, depth float64) Geometry {
	return Geometry{Shape: ShapeBox, Args: []float64{width, height, depth}}
}

func paint(color string, metalness, roughness float64) Material {
	return Material{Color: color, Metalness: metalness, Roughness: roughness}
}

func glow(color string, intensity float64) Material {
	return Material{Color: color, Emissive: color, EmissiveIntensity: intensity}
}

// Find returns the first node named name in a depth-first walk.
func (n Node) Find(name string) (Node, bool) {
	if n.Name == name {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.Find(name); ok {
			return found, true
		}
	}
	return Node{}, false
}

// Count returns the number of nodes in the subtree, n included.
func (n Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

package formats

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ParseGLTFFile reads a .gltf or .glb file and merges every triangle
// primitive of the default scene into one geometry, with node transforms
// applied. Vertex colors come from COLOR_0, then the material base color,
// then DefaultColor.
func ParseGLTFFile(path string) (*Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading glTF file: %w", err)
	}

	g, err := ParseGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	g.Name = filepath.Base(path)
	return g, nil
}

// ParseGLTF converts a decoded glTF document.
func ParseGLTF(doc *gltf.Document) (*Geometry, error) {
	g := &Geometry{}

	roots := sceneRoots(doc)
	if len(roots) == 0 {
		// No node graph: take every mesh untransformed
		for mi := range doc.Meshes {
			appendGLTFMesh(g, doc, mi, identity64())
		}
	}
	visited := make([]bool, len(doc.Nodes))
	for _, root := range roots {
		walkGLTFNode(g, doc, root, identity64(), visited)
	}

	if len(g.Indices) == 0 {
		return nil, ErrNoGeometry
	}
	return g, nil
}

// sceneRoots returns the root nodes of the default scene, or every parentless
// node when the document names no scene.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 && len(doc.Scenes[0].Nodes) > 0 {
		return doc.Scenes[0].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// walkGLTFNode appends the meshes under idx. Nodes form a forest, so a node
// reached twice is a cycle or a shared child and is skipped.
func walkGLTFNode(g *Geometry, doc *gltf.Document, idx int, parent [16]float64, visited []bool) {
	if idx < 0 || idx >= len(doc.Nodes) {
		g.warnf("node %d out of range", idx)
		return
	}
	if visited[idx] {
		g.warnf("node %d reached twice, skipped", idx)
		return
	}
	visited[idx] = true

	node := doc.Nodes[idx]
	world := mul64(parent, nodeMatrix(node))

	if node.Mesh != nil {
		appendGLTFMesh(g, doc, *node.Mesh, world)
	}
	for _, c := range node.Children {
		walkGLTFNode(g, doc, c, world, visited)
	}
}

func appendGLTFMesh(g *Geometry, doc *gltf.Document, mi int, world [16]float64) {
	if mi < 0 || mi >= len(doc.Meshes) {
		g.warnf("mesh %d out of range", mi)
		return
	}
	for pi, prim := range doc.Meshes[mi].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			g.warnf("mesh %d primitive %d: mode %v skipped", mi, pi, prim.Mode)
			continue
		}
		if err := appendGLTFPrimitive(g, doc, prim, world); err != nil {
			g.warnf("mesh %d primitive %d: %v", mi, pi, err)
		}
	}
}

func appendGLTFPrimitive(g *Geometry, doc *gltf.Document, prim *gltf.Primitive, world [16]float64) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}

	var colors [][4]uint8
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("colors: %w", err)
		}
		if colors, err = modeler.ReadColor(doc, acc, nil); err != nil {
			return fmt.Errorf("colors: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions)/3*3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
		}
	}

	base := materialColor(doc, prim)
	normalMat := normalMatrix(world)
	offset := uint32(len(g.Positions))

	for i, p := range positions {
		var n [3]float32
		if i < len(normals) {
			n = transformDir(normalMat, normals[i])
		}
		c := base
		if i < len(colors) {
			c = [3]float32{
				float32(colors[i][0]) / 255,
				float32(colors[i][1]) / 255,
				float32(colors[i][2]) / 255,
			}
		}
		g.addVertex(transformPoint(world, p), n, c)
	}

	for _, idx := range indices {
		g.Indices = append(g.Indices, offset+idx)
	}
	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func materialColor(doc *gltf.Document, prim *gltf.Primitive) [3]float32 {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return DefaultColor
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil {
		return DefaultColor
	}
	cf := pbr.BaseColorFactorOrDefault()
	return [3]float32{float32(cf[0]), float32(cf[1]), float32(cf[2])}
}

// Column-major float64 matrix helpers for node transforms.

func identity64() [16]float64 {
	return [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func mul64(a, b [16]float64) [16]float64 {
	var out [16]float64
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// nodeMatrix returns the local transform: the explicit matrix when set,
// otherwise translation * rotation * scale (quaternion x, y, z, w).
func nodeMatrix(n *gltf.Node) [16]float64 {
	var m [16]float64
	raw := n.MatrixOrDefault()
	copy(m[:], toFloat64(raw[:]))
	if m != identity64() {
		return m
	}

	tr, rot, sc := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	t, q, s := toFloat64(tr[:]), toFloat64(rot[:]), toFloat64(sc[:])

	x, y, z, w := q[0], q[1], q[2], q[3]
	return [16]float64{
		(1 - 2*(y*y+z*z)) * s[0], (2 * (x*y + z*w)) * s[0], (2 * (x*z - y*w)) * s[0], 0,
		(2 * (x*y - z*w)) * s[1], (1 - 2*(x*x+z*z)) * s[1], (2 * (y*z + x*w)) * s[1], 0,
		(2 * (x*z + y*w)) * s[2], (2 * (y*z - x*w)) * s[2], (1 - 2*(x*x+y*y)) * s[2], 0,
		t[0], t[1], t[2], 1,
	}
}

func toFloat64[T float32 | float64](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// normalMatrix returns the inverse transpose of the upper 3x3, row-major.
// A singular transform falls back to the plain upper 3x3.
func normalMatrix(m [16]float64) [9]float64 {
	a, b, c := m[0], m[4], m[8]
	d, e, f := m[1], m[5], m[9]
	gg, h, i := m[2], m[6], m[10]

	det := a*(e*i-f*h) - b*(d*i-f*gg) + c*(d*h-e*gg)
	if math.Abs(det) < 1e-12 {
		return [9]float64{a, b, c, d, e, f, gg, h, i}
	}
	inv := 1 / det
	// Cofactor matrix divided by det is the inverse transpose
	return [9]float64{
		(e*i - f*h) * inv, -(d*i - f*gg) * inv, (d*h - e*gg) * inv,
		-(b*i - c*h) * inv, (a*i - c*gg) * inv, -(a*h - b*gg) * inv,
		(b*f - c*e) * inv, -(a*f - c*d) * inv, (a*e - b*d) * inv,
	}
}

func transformPoint(m [16]float64, p [3]float32) [3]float32 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	return [3]float32{
		float32(m[0]*x + m[4]*y + m[8]*z + m[12]),
		float32(m[1]*x + m[5]*y + m[9]*z + m[13]),
		float32(m[2]*x + m[6]*y + m[10]*z + m[14]),
	}
}

func transformDir(nm [9]float64, v [3]float32) [3]float32 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	out := [3]float64{
		nm[0]*x + nm[1]*y + nm[2]*z,
		nm[3]*x + nm[4]*y + nm[5]*z,
		nm[6]*x + nm[7]*y + nm[8]*z,
	}
	l := math.Sqrt(out[0]*out[0] + out[1]*out[1] + out[2]*out[2])
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(out[0] / l), float32(out[1] / l), float32(out[2] / l)}
}

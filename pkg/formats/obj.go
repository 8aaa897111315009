package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJSyntax = errors.New("invalid OBJ syntax")
	ErrOBJIndex  = errors.New("OBJ index out of range")
)

// objVertexKey identifies a unique output vertex: position, normal and the
// material active when it was referenced.
type objVertexKey struct {
	position int
	normal   int // -1 when absent
	material string
}

type objParser struct {
	geom *Geometry

	positions [][3]float32
	colors    [][3]float32 // Per position, valid where hasColor is set
	hasColor  []bool
	normals   [][3]float32

	materials map[string][3]float32
	material  string
	vertexMap map[objVertexKey]uint32

	// openMTL resolves a mtllib name. Nil disables material libraries.
	openMTL func(name string) (io.ReadCloser, error)
}

// ParseOBJ parses Wavefront OBJ text. Supported statements: v (with optional
// r g b vertex colors), vn, f (v, v/vt, v//vn, v/vt/vn, negative indices) and
// usemtl. Polygons are fan triangulated. mtllib is ignored; use ParseOBJFile
// to resolve material libraries relative to the file.
func ParseOBJ(r io.Reader) (*Geometry, error) {
	p := newOBJParser(nil)
	return p.parse(r)
}

// ParseOBJFile parses an OBJ file. Diffuse colors (Kd) from its material
// libraries color vertices that carry no color of their own.
func ParseOBJFile(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	p := newOBJParser(func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(dir, name))
	})
	g, err := p.parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	g.Name = filepath.Base(path)
	return g, nil
}

func newOBJParser(openMTL func(string) (io.ReadCloser, error)) *objParser {
	return &objParser{
		geom:      &Geometry{},
		materials: make(map[string][3]float32),
		vertexMap: make(map[objVertexKey]uint32),
		openMTL:   openMTL,
	}
}

func (p *objParser) parse(r io.Reader) (*Geometry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			err = p.parseVertex(fields[1:])
		case "vn":
			var n [3]float32
			n, err = parseFloat3(fields[1:])
			p.normals = append(p.normals, n)
		case "f":
			err = p.parseFace(fields[1:])
		case "usemtl":
			if len(fields) > 1 {
				p.material = fields[1]
			}
		case "mtllib":
			p.loadMaterialLibraries(fields[1:])
		default:
			// vt, o, g, s, l, p and unknown statements carry nothing we draw
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.geom.Indices) == 0 {
		return nil, ErrNoGeometry
	}
	return p.geom, nil
}

func (p *objParser) parseVertex(args []string) error {
	pos, err := parseFloat3(args)
	if err != nil {
		return err
	}
	p.positions = append(p.positions, pos)

	// Common extension: v x y z r g b
	if len(args) >= 6 {
		c, err := parseFloat3(args[3:6])
		if err != nil {
			return err
		}
		p.colors = append(p.colors, c)
		p.hasColor = append(p.hasColor, true)
		return nil
	}
	p.colors = append(p.colors, [3]float32{})
	p.hasColor = append(p.hasColor, false)
	return nil
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrOBJSyntax, len(args))
	}

	face := make([]uint32, 0, len(args))
	for _, ref := range args {
		idx, err := p.resolveFaceVertex(ref)
		if err != nil {
			return err
		}
		face = append(face, idx)
	}

	// Fan triangulation
	for i := 2; i < len(face); i++ {
		p.geom.Indices = append(p.geom.Indices, face[0], face[i-1], face[i])
	}
	return nil
}

// resolveFaceVertex maps a v, v/vt, v//vn or v/vt/vn reference to an output
// vertex, creating it on first use.
func (p *objParser) resolveFaceVertex(ref string) (uint32, error) {
	parts := strings.Split(ref, "/")

	pi, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return 0, fmt.Errorf("position %q: %w", ref, err)
	}

	ni := -1
	if len(parts) >= 3 && parts[2] != "" {
		ni, err = resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return 0, fmt.Errorf("normal %q: %w", ref, err)
		}
	}

	key := objVertexKey{position: pi, normal: ni, material: p.material}
	if idx, ok := p.vertexMap[key]; ok {
		return idx, nil
	}

	color := DefaultColor
	if p.hasColor[pi] {
		color = p.colors[pi]
	} else if kd, ok := p.materials[p.material]; ok {
		color = kd
	}

	var normal [3]float32
	if ni >= 0 {
		normal = p.normals[ni]
	}

	idx := p.geom.addVertex(p.positions[pi], normal, color)
	p.vertexMap[key] = idx
	return idx, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to a
// 0-based one.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad index %q", ErrOBJSyntax, s)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += count
	default:
		return 0, fmt.Errorf("%w: index 0", ErrOBJIndex)
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("%w: %s of %d", ErrOBJIndex, s, count)
	}
	return n, nil
}

func (p *objParser) loadMaterialLibraries(names []string) {
	if p.openMTL == nil {
		return
	}
	for _, name := range names {
		rc, err := p.openMTL(name)
		if err != nil {
			p.geom.warnf("material library %s: %v", name, err)
			continue
		}
		mats, err := ParseMTL(rc)
		rc.Close()
		if err != nil {
			p.geom.warnf("material library %s: %v", name, err)
			continue
		}
		for k, v := range mats {
			p.materials[k] = v
		}
	}
}

// ParseMTL reads the diffuse color (Kd) of every material in a .mtl file.
func ParseMTL(r io.Reader) (map[string][3]float32, error) {
	result := make(map[string][3]float32)
	current := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				current = fields[1]
				result[current] = DefaultColor
			}
		case "Kd":
			if current == "" {
				continue
			}
			kd, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			result[current] = kd
		}
	}
	return result, scanner.Err()
}

func parseFloat3(args []string) ([3]float32, error) {
	var out [3]float32
	if len(args) < 3 {
		return out, fmt.Errorf("%w: need 3 numbers, got %d", ErrOBJSyntax, len(args))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return out, fmt.Errorf("%w: bad number %q", ErrOBJSyntax, args[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}

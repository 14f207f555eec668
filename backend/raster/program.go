package raster

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/shaderdecl"
)

var (
	mainFunc         = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)\s*\{`)
	defaultPrecision = regexp.MustCompile(`\bprecision\s+(lowp|mediump|highp)\s+float\s*;`)
)

// shader is a GLSL ES 1.00 shader object. Compilation checks the source
// against the interface the rasterizer can execute; it does not run a full
// GLSL front end.
type shader struct {
	typ      glprint.Enum
	source   string
	compiled bool
	log      string
	decls    shaderdecl.Decls
}

func (s *shader) compile() {
	s.compiled, s.log, s.decls = false, "", nil
	if err := s.check(); err != nil {
		s.log = "ERROR: 0:0: " + err.Error()
		return
	}
	s.decls = shaderdecl.ParseGLSL(s.source)
	s.compiled = true
}

func (s *shader) check() error {
	src := s.source
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("empty shader source")
	}
	if !mainFunc.MatchString(src) {
		return fmt.Errorf("'main' : function not defined")
	}
	if strings.Count(src, "{") != strings.Count(src, "}") {
		return fmt.Errorf("'}' : syntax error, unbalanced braces")
	}
	decls := shaderdecl.ParseGLSL(src)
	switch s.typ {
	case glprint.VertexShader:
		if !strings.Contains(src, "gl_Position") {
			return fmt.Errorf("'gl_Position' : vertex shader does not write the position")
		}
	case glprint.FragmentShader:
		if len(decls.Of(shaderdecl.Attribute)) > 0 {
			return fmt.Errorf("'attribute' : supported in vertex shaders only")
		}
		if len(decls.Of(shaderdecl.Uniform)) > 0 && !defaultPrecision.MatchString(src) {
			return fmt.Errorf("'float' : no default precision defined")
		}
		if !strings.Contains(src, "gl_FragColor") {
			return fmt.Errorf("'gl_FragColor' : fragment shader does not write a color")
		}
	}
	return nil
}

// program links one vertex and one fragment shader. The rasterizer executes
// a pass-through vertex stage reading one vec2 attribute and a flat fragment
// stage writing one vec4 uniform.
type program struct {
	vertex   *shader
	fragment *shader

	linked   bool
	log      string
	attribs  []shaderdecl.Decl
	uniforms []shaderdecl.Decl
	values   [][4]float32
	color    int
}

func (p *program) attach(s *shader) {
	if s.typ == glprint.VertexShader {
		p.vertex = s
	} else {
		p.fragment = s
	}
}

func (p *program) link() {
	p.linked, p.log = false, ""
	if err := p.resolve(); err != nil {
		p.log = "ERROR: " + err.Error()
		return
	}
	p.linked = true
}

func (p *program) resolve() error {
	if p.vertex == nil || p.fragment == nil {
		return fmt.Errorf("missing vertex or fragment shader")
	}
	if !p.vertex.compiled || !p.fragment.compiled {
		return fmt.Errorf("attached shader not compiled")
	}

	attribs := p.vertex.decls.Of(shaderdecl.Attribute)
	if len(attribs) != 1 || attribs[0].Type != "vec2" {
		return fmt.Errorf("vertex stage must declare exactly one vec2 attribute")
	}

	uniforms := append(p.vertex.decls.Of(shaderdecl.Uniform), p.fragment.decls.Of(shaderdecl.Uniform)...)
	color := -1
	for i, u := range uniforms {
		if u.Type != "vec4" {
			return fmt.Errorf("uniform %q: type %s not supported", u.Name, u.Type)
		}
		if strings.Contains(p.fragment.source, "gl_FragColor = "+u.Name) {
			color = i
		}
	}
	if color < 0 {
		return fmt.Errorf("gl_FragColor must be assigned a vec4 uniform")
	}

	p.attribs = attribs
	p.uniforms = uniforms
	p.values = make([][4]float32, len(uniforms))
	p.color = color
	return nil
}

func (p *program) attribLocation(name string) int {
	for i, a := range p.attribs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

func (p *program) uniformLocation(name string) glprint.Uniform {
	for i, u := range p.uniforms {
		if u.Name == name {
			return glprint.Uniform(i)
		}
	}
	return glprint.NoUniform
}

func (p *program) setUniform(u glprint.Uniform, v [4]float32) bool {
	if int(u) < 0 || int(u) >= len(p.values) {
		return false
	}
	p.values[u] = v
	return true
}

// positionLocation is the attribute index of the vertex position.
func (p *program) positionLocation() int { return 0 }

func (p *program) fillColor() [4]float32 { return p.values[p.color] }

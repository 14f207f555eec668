// Package shaderdecl scans shader source for the attribute and uniform
// declarations a host needs to resolve WebGL names to binding slots.
//
// It is a scanner, not a parser: it recognizes top-level declarations of the
// shapes used by the fingerprint shaders and ignores everything else.
package shaderdecl

import (
	"regexp"
	"strconv"
)

// Kind distinguishes vertex inputs from uniforms.
type Kind int

const (
	Attribute Kind = iota
	Uniform
)

func (k Kind) String() string {
	if k == Uniform {
		return "uniform"
	}
	return "attribute"
}

// Decl is one declaration. Location is the WGSL @location or @binding
// number, or -1 for GLSL where locations are assigned at link time.
type Decl struct {
	Kind     Kind
	Name     string
	Type     string
	Location int
	Group    int
}

// Decls is the declaration list of one shader stage, in source order.
type Decls []Decl

// Find returns the declaration of the given kind and name.
func (d Decls) Find(kind Kind, name string) (Decl, bool) {
	for _, decl := range d {
		if decl.Kind == kind && decl.Name == name {
			return decl, true
		}
	}
	return Decl{}, false
}

// Of returns the declarations of one kind, in source order.
func (d Decls) Of(kind Kind) Decls {
	var out Decls
	for _, decl := range d {
		if decl.Kind == kind {
			out = append(out, decl)
		}
	}
	return out
}

var (
	glslDecl = regexp.MustCompile(`(?m)^\s*(attribute|uniform)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)

	wgslLocation = regexp.MustCompile(`@location\((\d+)\)\s*(\w+)\s*:\s*([\w<>]+)`)
	wgslUniform  = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var<uniform>\s+(\w+)\s*:\s*([\w<>]+)\s*;`)
)

// ParseGLSL returns the attribute and uniform declarations of a GLSL ES
// 1.00 shader.
func ParseGLSL(src string) Decls {
	var out Decls
	for _, m := range glslDecl.FindAllStringSubmatch(stripComments(src), -1) {
		kind := Attribute
		if m[1] == "uniform" {
			kind = Uniform
		}
		out = append(out, Decl{Kind: kind, Type: m[2], Name: m[3], Location: -1})
	}
	return out
}

// ParseWGSL returns the named @location inputs and the var<uniform>
// bindings of a WGSL module. Unnamed @location outputs are skipped.
func ParseWGSL(src string) Decls {
	src = stripComments(src)
	var out Decls
	for _, m := range wgslLocation.FindAllStringSubmatch(src, -1) {
		loc, _ := strconv.Atoi(m[1])
		out = append(out, Decl{Kind: Attribute, Name: m[2], Type: m[3], Location: loc})
	}
	for _, m := range wgslUniform.FindAllStringSubmatch(src, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		out = append(out, Decl{Kind: Uniform, Name: m[3], Type: m[4], Location: binding, Group: group})
	}
	return out
}

var lineComment = regexp.MustCompile(`//[^\n]*`)

func stripComments(src string) string {
	return lineComment.ReplaceAllString(src, "")
}

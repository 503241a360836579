package backend

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/jonwraymond/stagedjit/array"
)

// Param is one named IR value with its structural type.
type Param struct {
	Name  string
	Shape array.Shape
	DType array.DType
}

// Instruction is one IR operation over named values.
type Instruction struct {
	Op      string
	Inputs  []string
	Outputs []string
	Attrs   map[string]string
}

// Program is the data-centric intermediate representation produced by
// lowering. Optimization passes rewrite it in place, which is why stages
// that cache a Program must Clone it before handing it downstream.
type Program struct {
	Inputs  []Param
	Outputs []Param
	Body    []Instruction
}

// Builder accumulates a Program during translation.
type Builder struct {
	prog Program
}

// NewBuilder returns an empty program builder.
func NewBuilder() *Builder { return &Builder{} }

// DeclareInput appends a program input.
func (b *Builder) DeclareInput(name string, aval array.Abstract) {
	b.prog.Inputs = append(b.prog.Inputs, Param{Name: name, Shape: aval.Shape.Clone(), DType: aval.DType})
}

// DeclareOutput appends a program output.
func (b *Builder) DeclareOutput(name string, aval array.Abstract) {
	b.prog.Outputs = append(b.prog.Outputs, Param{Name: name, Shape: aval.Shape.Clone(), DType: aval.DType})
}

// Emit appends an instruction to the program body.
func (b *Builder) Emit(inst Instruction) {
	b.prog.Body = append(b.prog.Body, inst)
}

// Finish returns the accumulated program. The builder must not be reused.
func (b *Builder) Finish() *Program {
	p := b.prog
	b.prog = Program{}
	return &p
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (p *Program) Clone() *Program {
	out := &Program{
		Inputs:  cloneParams(p.Inputs),
		Outputs: cloneParams(p.Outputs),
	}
	if p.Body != nil {
		out.Body = make([]Instruction, len(p.Body))
		for i, inst := range p.Body {
			out.Body[i] = Instruction{
				Op:      inst.Op,
				Inputs:  cloneStrings(inst.Inputs),
				Outputs: cloneStrings(inst.Outputs),
				Attrs:   cloneAttrs(inst.Attrs),
			}
		}
	}
	return out
}

func cloneParams(in []Param) []Param {
	if in == nil {
		return nil
	}
	out := make([]Param, len(in))
	for i, p := range in {
		out[i] = Param{Name: p.Name, Shape: p.Shape.Clone(), DType: p.DType}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneAttrs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Digest returns the xxhash64 of the program's canonical serialization.
// Attribute maps are serialized in sorted key order so the digest is
// independent of map iteration order. The digest only identifies the
// snapshot it was computed from; callers that mutate the program afterwards
// must not reuse it.
func (p *Program) Digest() uint64 {
	d := xxhash.New()
	writeParams(d, "in", p.Inputs)
	writeParams(d, "out", p.Outputs)
	for _, inst := range p.Body {
		_, _ = d.WriteString("op\x00" + inst.Op + "\x00")
		for _, in := range inst.Inputs {
			_, _ = d.WriteString("<" + in)
		}
		for _, out := range inst.Outputs {
			_, _ = d.WriteString(">" + out)
		}
		keys := make([]string, 0, len(inst.Attrs))
		for k := range inst.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = d.WriteString("@" + k + "=" + inst.Attrs[k] + "\x00")
		}
	}
	return d.Sum64()
}

func writeParams(d *xxhash.Digest, tag string, params []Param) {
	_, _ = d.WriteString(tag + "\x00" + strconv.Itoa(len(params)) + "\x00")
	for _, p := range params {
		_, _ = d.WriteString(p.Name + "\x00" + p.Shape.String() + "\x00" + p.DType.String() + "\x00")
	}
}

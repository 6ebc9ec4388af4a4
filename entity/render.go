package entity

import (
	"io"
	"strings"
)

// Renderer output follows the feed server client convention: a feed becomes
// an <entities> element holding one <entity> per record, repeated fields
// emit one element per occurrence with repeatable="true" on the first one
// only, and all text content is XML-escaped. Indentation grows by a fixed
// step around every nested construct and is carried explicitly on the
// printer, so concurrent renders cannot share state.

const indentStep = 2

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape applies XML character escaping to s. All five special characters
// are replaced so that escaped content survives as literal text anywhere in
// a document, including attribute values.
func Escape(s string) string {
	return escaper.Replace(s)
}

// RenderFeed writes feed as indented XML to w. Rendering itself cannot
// fail, the only returned errors are write failures of the sink.
func RenderFeed(w io.Writer, feed Feed) error {
	p := &printer{w: w}
	p.line("<entities>")
	p.indent += indentStep
	for _, e := range feed {
		p.entity(e)
	}
	p.indent -= indentStep
	p.line("</entities>")
	return p.err
}

// RenderEntity writes a single entity as indented XML to w.
func RenderEntity(w io.Writer, e *Entity) error {
	p := &printer{w: w}
	p.entity(e)
	return p.err
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// print emits s prefixed with the current indentation, no newline.
func (p *printer) print(s string) {
	p.write(strings.Repeat(" ", p.indent))
	p.write(s)
}

// line emits s prefixed with the current indentation and ends the line.
func (p *printer) line(s string) {
	p.print(s)
	p.write("\n")
}

func (p *printer) entity(e *Entity) {
	p.line("<entity>")
	p.indent += indentStep
	p.fields(e)
	p.indent -= indentStep
	p.line("</entity>")
}

func (p *printer) fields(e *Entity) {
	for _, f := range e.Fields() {
		p.field(f.Name, f.Value)
	}
}

func (p *printer) field(name string, v Value) {
	switch v := v.(type) {
	case Repeated:
		marked := false
		p.repeated(name, v, &marked)
	case *Entity:
		p.line("<" + name + ">")
		p.indent += indentStep
		p.fields(v)
		p.indent -= indentStep
		p.line("</" + name + ">")
	case Scalar:
		p.print("<" + name + ">")
		p.write(Escape(string(v)))
		p.write("</" + name + ">\n")
	default:
		// absent scalar renders as empty content, never as a missing element
		p.print("<" + name + ">")
		p.write("</" + name + ">\n")
	}
}

// repeated emits one element per group member. Only the very first emitted
// occurrence of the field carries the repeatable marker; a group with zero
// elements emits nothing at all. Nested groups are flattened into further
// occurrences of the same field.
func (p *printer) repeated(name string, values Repeated, marked *bool) {
	for _, v := range values {
		if sub, ok := v.(Repeated); ok {
			p.repeated(name, sub, marked)
			continue
		}
		open := "<" + name + ">"
		if !*marked {
			open = "<" + name + ` repeatable="true">`
			*marked = true
		}
		if e, ok := v.(*Entity); ok {
			p.print(open)
			p.write("\n")
			p.indent += indentStep
			p.fields(e)
			p.indent -= indentStep
			p.line("</" + name + ">")
			continue
		}
		p.print(open)
		if s, ok := v.(Scalar); ok {
			p.write(Escape(string(s)))
		}
		p.write("</" + name + ">\n")
	}
}

package css

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// String returns the stylesheet as CSS text. An indent of zero writes one
// rule per line.
func (s *Stylesheet) String(indent int) string {
	var buf bytes.Buffer

	_ = s.Format(context.Background(), &buf, indent)

	return buf.String()
}

// Format writes the stylesheet as CSS text. An indent of zero writes each
// rule on a single line; otherwise every declaration is written on its own
// line indented by indent spaces per nesting level.
func (s *Stylesheet) Format(_ context.Context, w io.Writer, indent int) error {
	p := printer{w: w, indent: indent}

	for _, r := range s.Rules {
		p.rule(r, 0)
	}

	return p.err
}

// FormatJSON writes the output tree as JSON.
func (s *Stylesheet) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(s.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(s.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the output tree as YAML.
func (s *Stylesheet) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, s.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// printer writes CSS text, keeping the first write error.
type printer struct {
	w      io.Writer
	err    error
	indent int
}

func (p *printer) write(s ...string) {
	for _, x := range s {
		if p.err != nil {
			return
		}

		_, p.err = io.WriteString(p.w, x)
	}
}

func (p *printer) pad(depth int) string {
	return strings.Repeat(" ", depth*p.indent)
}

func (p *printer) rule(r Rule, depth int) {
	switch r := r.(type) {
	case *RuleSet:
		sep := ", "
		if p.indent > 0 {
			sep = ",\n" + p.pad(depth)
		}

		p.write(p.pad(depth), strings.Join(r.Selectors, sep), " ")
		p.block(r.Declarations, nil, depth)

	case *AtRule:
		p.write(p.pad(depth), "@", r.Name)

		if r.Prelude != "" {
			p.write(" ", r.Prelude)
		}

		if !r.Block {
			p.write(";\n")

			return
		}

		p.write(" ")
		p.block(r.Declarations, r.Rules, depth)

	case *Raw:
		p.write(p.pad(depth), r.Text, "\n")
	}
}

func (p *printer) block(decls []Declaration, rules []Rule, depth int) {
	if p.indent == 0 {
		p.write("{")

		for i, d := range decls {
			if i > 0 {
				p.write(";")
			}

			p.write(" ", d.String())
		}

		if len(decls) > 0 {
			p.write(" ")
		}

		if len(rules) > 0 {
			p.write("\n")

			for _, r := range rules {
				p.rule(r, depth)
			}
		}

		p.write("}\n")

		return
	}

	p.write("{\n")

	for _, d := range decls {
		p.write(p.pad(depth+1), d.String(), ";\n")
	}

	for _, r := range rules {
		p.rule(r, depth+1)
	}

	p.write(p.pad(depth), "}\n")
}

// String returns "name: value" with an optional !important flag.
func (d Declaration) String() string {
	s := d.Name + ": " + d.Value
	if d.Important {
		s += " !important"
	}

	return s
}

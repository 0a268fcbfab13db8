// Package gen renders resolved struct layouts as Go constant declarations,
// one const block per struct with a <Struct><Field>Offset constant for every
// field plus <Struct>Size and <Struct>Align. Output is deterministic and
// gofmt-formatted, intended to be written next to the source it describes.
package gen

import (
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/internal/options"
	"github.com/structlab/crepr/schema"
)

// generatedHeader marks output files per the convention recognized by the
// go tool and code hosts.
const generatedHeader = "// Code generated by creprgen. DO NOT EDIT."

// Generator emits layout constant files. The zero value is not usable;
// construct with New.
type Generator struct {
	pkgName  string
	prefix   string
	comment  string
	buildTag string
}

// Option configures a Generator.
type Option = options.Option[*Generator]

// WithPackageName sets the package clause of the generated file. The default
// is "main".
func WithPackageName(name string) Option {
	return options.New(func(g *Generator) error {
		if !token.IsIdentifier(name) {
			return fmt.Errorf("%w: package name %q", errs.ErrInvalidIdentifier, name)
		}

		g.pkgName = name

		return nil
	})
}

// WithConstPrefix prepends prefix to every generated constant name. An empty
// prefix, the default, leaves names as <Struct><Field>Offset.
func WithConstPrefix(prefix string) Option {
	return options.New(func(g *Generator) error {
		if prefix != "" && !token.IsIdentifier(prefix) {
			return fmt.Errorf("%w: const prefix %q", errs.ErrInvalidIdentifier, prefix)
		}

		g.prefix = prefix

		return nil
	})
}

// WithHeaderComment adds comment lines below the generated-code marker.
// Multi-line comments split on newlines.
func WithHeaderComment(comment string) Option {
	return options.NoError(func(g *Generator) {
		g.comment = comment
	})
}

// WithBuildTag adds a //go:build constraint to the generated file.
func WithBuildTag(tag string) Option {
	return options.NoError(func(g *Generator) {
		g.buildTag = tag
	})
}

// New creates a Generator.
//
// Returns:
//   - *Generator: ready to generate with the applied options
//   - error: option validation errors
func New(opts ...Option) (*Generator, error) {
	g := &Generator{pkgName: "main"}

	if err := options.Apply(g, opts...); err != nil {
		return nil, err
	}

	return g, nil
}

// Generate renders the constant file for the named structs. With no names it
// emits every registered struct in registration order, so output is
// deterministic for a given registry.
//
// Returns:
//   - []byte: gofmt-formatted Go source
//   - error: errs.ErrNoStructSelected for an empty selection,
//     errs.ErrStructNotFound for unknown names, errs.ErrInvalidIdentifier or
//     errs.ErrDuplicateConstName for names that cannot become constants
func (g *Generator) Generate(reg *schema.Registry, names ...string) ([]byte, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", errs.ErrNoStructSelected)
	}

	if len(names) == 0 {
		names = reg.Names()
	}

	if len(names) == 0 {
		return nil, errs.ErrNoStructSelected
	}

	var sb strings.Builder

	sb.WriteString(generatedHeader)
	sb.WriteString("\n\n")

	if g.comment != "" {
		for _, line := range strings.Split(g.comment, "\n") {
			sb.WriteString(strings.TrimRight("// "+line, " "))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if g.buildTag != "" {
		fmt.Fprintf(&sb, "//go:build %s\n\n", g.buildTag)
	}

	fmt.Fprintf(&sb, "package %s\n\n", g.pkgName)

	seen := make(map[string]string)

	for _, name := range names {
		sl, err := reg.Layout(name)
		if err != nil {
			return nil, err
		}

		if err := g.writeStruct(&sb, sl, seen); err != nil {
			return nil, err
		}
	}

	src, err := format.Source([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}

	return src, nil
}

// writeStruct emits one const block. seen tracks constant names across
// blocks since Go constants share the package scope.
func (g *Generator) writeStruct(sb *strings.Builder, sl *schema.StructLayout, seen map[string]string) error {
	structName := exportName(sl.Name)

	fmt.Fprintf(sb, "// %s layout: size %d, align %d.\n", sl.Name, sl.Size, sl.Align)
	sb.WriteString("const (\n")

	for _, f := range sl.Fields {
		constName := g.prefix + structName + exportName(f.Name) + "Offset"
		if err := claim(seen, constName, sl.Name); err != nil {
			return err
		}

		fmt.Fprintf(sb, "\t%s = %d\n", constName, f.Offset)
	}

	if len(sl.Fields) > 0 {
		sb.WriteString("\n")
	}

	sizeName := g.prefix + structName + "Size"
	alignName := g.prefix + structName + "Align"

	if err := claim(seen, sizeName, sl.Name); err != nil {
		return err
	}
	if err := claim(seen, alignName, sl.Name); err != nil {
		return err
	}

	fmt.Fprintf(sb, "\t%s = %d\n", sizeName, sl.Size)
	fmt.Fprintf(sb, "\t%s = %d\n", alignName, sl.Align)
	sb.WriteString(")\n\n")

	return nil
}

// claim validates a constant name and records it, rejecting collisions
// between renamed fields or between structs.
func claim(seen map[string]string, constName, structName string) error {
	if !token.IsIdentifier(constName) {
		return fmt.Errorf("%w: %q from struct %q", errs.ErrInvalidIdentifier, constName, structName)
	}

	if prev, dup := seen[constName]; dup {
		return fmt.Errorf("%w: %q from structs %q and %q",
			errs.ErrDuplicateConstName, constName, prev, structName)
	}
	seen[constName] = structName

	return nil
}

// exportName upper-cases the first rune so generated constants are exported
// even for lower-cased struct or field names.
func exportName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

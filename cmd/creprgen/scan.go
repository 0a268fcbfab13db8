package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/structlab/crepr/errs"
	"github.com/structlab/crepr/format"
	"github.com/structlab/crepr/schema"
)

// layoutAnnotation marks a struct type for generation when it appears in the
// type's doc comment, in the //go:generate pragma style.
const layoutAnnotation = "//crepr:layout"

// structDecl pairs a parsed struct type with its selection state.
type structDecl struct {
	name      string
	typ       *ast.StructType
	annotated bool
}

// scanFile collects the struct types to generate constants for: those with a
// //crepr:layout annotation plus those named in keep. It registers them in
// declaration order and returns the selected names in the same order.
func scanFile(file *ast.File, keep map[string]bool) (*schema.Registry, []string, error) {
	decls := collectStructs(file)

	byName := make(map[string]*structDecl, len(decls))
	for _, d := range decls {
		byName[d.name] = d
	}

	for name := range keep {
		if _, ok := byName[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %q is not a struct type in this file",
				errs.ErrStructNotFound, name)
		}
	}

	selected := make(map[string]bool, len(decls))
	for _, d := range decls {
		selected[d.name] = d.annotated || keep[d.name]
	}

	reg := schema.NewRegistry()
	var names []string

	for _, d := range decls {
		if !selected[d.name] {
			continue
		}

		def, err := structDef(d, selected)
		if err != nil {
			return nil, nil, err
		}

		if err := reg.Register(def); err != nil {
			return nil, nil, err
		}

		names = append(names, d.name)
	}

	if len(names) == 0 {
		return nil, nil, fmt.Errorf("%w: no %s annotations found", errs.ErrNoStructSelected, layoutAnnotation)
	}

	return reg, names, nil
}

// collectStructs returns every struct type declaration in the file, in
// declaration order. Annotations are read from the GenDecl doc for single
// declarations and from the TypeSpec doc inside grouped type blocks.
func collectStructs(file *ast.File) []*structDecl {
	var decls []*structDecl

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			decls = append(decls, &structDecl{
				name:      typeSpec.Name.Name,
				typ:       structType,
				annotated: hasAnnotation(genDecl.Doc) || hasAnnotation(typeSpec.Doc),
			})
		}
	}

	return decls
}

func hasAnnotation(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}

	for _, comment := range doc.List {
		if comment.Text == layoutAnnotation || strings.HasPrefix(comment.Text, layoutAnnotation+" ") {
			return true
		}
	}

	return false
}

// structDef converts one struct declaration into a schema definition.
func structDef(d *structDecl, selected map[string]bool) (*schema.Struct, error) {
	def := &schema.Struct{
		Name:   d.name,
		Fields: make([]schema.Field, 0, len(d.typ.Fields.List)),
	}

	for _, field := range d.typ.Fields.List {
		names := fieldNames(field)

		for _, fname := range names {
			wireName, skip := tagName(field, fname)
			if skip {
				continue
			}

			at := d.name + "." + fname

			kind, typeName, count, err := resolveFieldType(field.Type, at, selected)
			if err != nil {
				return nil, err
			}

			def.Fields = append(def.Fields, schema.Field{
				Name:     wireName,
				Kind:     kind,
				TypeName: typeName,
				Count:    count,
			})
		}
	}

	return def, nil
}

// fieldNames lists the declared names of one field entry; a multi-name
// declaration like "X, Y, Z float32" yields one field per name, and an
// embedded field is named after its type.
func fieldNames(field *ast.Field) []string {
	if len(field.Names) == 0 {
		if ident, ok := field.Type.(*ast.Ident); ok {
			return []string{ident.Name}
		}

		// Embedded non-ident types (e.g. *T) fail type resolution with a
		// readable path below.
		return []string{exprString(field.Type)}
	}

	names := make([]string, len(field.Names))
	for i, ident := range field.Names {
		names[i] = ident.Name
	}

	return names
}

// tagName applies the crepr struct tag to a field name.
func tagName(field *ast.Field, fname string) (string, bool) {
	if field.Tag == nil {
		return fname, false
	}

	tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))

	value, ok := tag.Lookup("crepr")
	if !ok {
		return fname, false
	}

	name, _, _ := strings.Cut(value, ",")
	switch name {
	case "-":
		return "", true
	case "":
		return fname, false
	default:
		return name, false
	}
}

// resolveFieldType maps an AST type expression to a field kind, peeling
// fixed-length array layers into the element count.
func resolveFieldType(expr ast.Expr, at string, selected map[string]bool) (format.Kind, string, uint32, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if kind := format.KindFromGoType(t.Name); kind != format.KindInvalid {
			return kind, "", 0, nil
		}

		if included, declared := selected[t.Name]; declared {
			if !included {
				return 0, "", 0, fmt.Errorf("%w: field %s references %q, which has no %s annotation",
					errs.ErrStructNotFound, at, t.Name, layoutAnnotation)
			}

			return format.KindStruct, t.Name, 0, nil
		}

		return 0, "", 0, fmt.Errorf("%w: field %s has type %s", errs.ErrUnsupportedType, at, t.Name)

	case *ast.ArrayType:
		if t.Len == nil {
			return 0, "", 0, fmt.Errorf("%w: field %s is a slice", errs.ErrUnsupportedType, at)
		}

		length, err := arrayLen(t.Len, at)
		if err != nil {
			return 0, "", 0, err
		}

		kind, typeName, inner, err := resolveFieldType(t.Elt, at, selected)
		if err != nil {
			return 0, "", 0, err
		}

		total := uint64(length)
		if inner > 0 {
			total *= uint64(inner)
		}

		if total > math.MaxUint32 {
			return 0, "", 0, fmt.Errorf("%w: field %s has %d elements, maximum is %d",
				errs.ErrUnsupportedType, at, total, uint32(math.MaxUint32))
		}

		if total == 1 {
			return kind, typeName, 0, nil
		}

		return kind, typeName, uint32(total), nil

	default:
		return 0, "", 0, fmt.Errorf("%w: field %s has type %s",
			errs.ErrUnsupportedType, at, exprString(expr))
	}
}

// arrayLen evaluates an array length expression, accepting only integer
// literals; named constants would need full type checking.
func arrayLen(expr ast.Expr, at string) (uint32, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, fmt.Errorf("%w: field %s array length must be an integer literal",
			errs.ErrUnsupportedType, at)
	}

	n, err := strconv.ParseUint(lit.Value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s array length %s: %v",
			errs.ErrUnsupportedType, at, lit.Value, err)
	}

	if n == 0 {
		return 0, fmt.Errorf("%w: field %s is a zero-length array", errs.ErrUnsupportedType, at)
	}

	return uint32(n), nil
}

// exprString renders a type expression for error messages.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprString(t.Elt)
		}
		return "[...]" + exprString(t.Elt)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.StructType:
		return "struct{...}"
	case *ast.InterfaceType:
		return "interface{...}"
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.FuncType:
		return "func"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

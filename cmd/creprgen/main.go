// Command creprgen generates layout constant files for annotated structs.
//
// Given a Go source file, it emits <Struct><Field>Offset, <Struct>Size and
// <Struct>Align constants for every struct type carrying a //crepr:layout
// doc comment, plus any named with -structs. It is designed for go:generate:
//
//	//go:generate creprgen -src $GOFILE
package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/structlab/crepr/gen"
)

var (
	srcPath     = flag.String("src", "", "Go source `file` to scan")
	outPath     = flag.String("out", "", "output `file` (default <src>_layout.go)")
	pkgName     = flag.String("pkg", "", "package `name` for the generated file (default: the source file's package)")
	structNames = flag.String("structs", "", "comma-separated struct `names` to include besides annotated ones")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: creprgen -src file.go [-out file_layout.go] [-pkg name] [-structs A,B]\n\n")
	fmt.Fprintf(out, "creprgen emits field offset, size and alignment constants for struct\ntypes annotated with %s.\n\n", layoutAnnotation)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *srcPath == "" {
		usage()
		os.Exit(2)
	}

	if err := run(*srcPath, *outPath, *pkgName, *structNames); err != nil {
		fmt.Fprintf(os.Stderr, "creprgen: %v\n", err)
		os.Exit(1)
	}
}

func run(src, out, pkg, structList string) error {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, src, nil, parser.ParseComments)
	if err != nil {
		return err
	}

	keep := make(map[string]bool)
	for _, name := range strings.Split(structList, ",") {
		if name = strings.TrimSpace(name); name != "" {
			keep[name] = true
		}
	}

	reg, names, err := scanFile(file, keep)
	if err != nil {
		return err
	}

	if pkg == "" {
		pkg = file.Name.Name
	}

	g, err := gen.New(
		gen.WithPackageName(pkg),
		gen.WithHeaderComment(fmt.Sprintf("Source: %s", src)),
	)
	if err != nil {
		return err
	}

	code, err := g.Generate(reg, names...)
	if err != nil {
		return err
	}

	if out == "" {
		out = strings.TrimSuffix(src, ".go") + "_layout.go"
	}

	return os.WriteFile(out, code, 0o644)
}

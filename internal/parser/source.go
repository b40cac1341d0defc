package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"docweaver/internal/descriptor"
)

// Hash returns the cache key of a source file's content.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// ParseSource extracts the documented declarations of one file. Go sources
// are parsed fully; other files are recorded under defaultPackage without
// elements.
func ParseSource(path string, src []byte, defaultPackage string) (descriptor.File, error) {
	file := descriptor.File{
		Path:    path,
		Hash:    Hash(src),
		Package: defaultPackage,
	}
	if filepath.Ext(path) != ".go" {
		return file, nil
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return descriptor.File{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	file.Package = f.Name.Name
	file.PackageDoc = docText(f.Doc)
	for _, imp := range f.Imports {
		if p, err := strconv.Unquote(imp.Path.Value); err == nil {
			file.Imports = append(file.Imports, p)
		}
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			file.Elements = append(file.Elements, funcElement(fset, d))
		case *ast.GenDecl:
			file.Elements = append(file.Elements, genElements(fset, d)...)
		}
	}
	return file, nil
}

func funcElement(fset *token.FileSet, d *ast.FuncDecl) descriptor.Element {
	e := descriptor.Element{
		Kind:     descriptor.KindFunc,
		Name:     d.Name.Name,
		Doc:      docText(d.Doc),
		Exported: d.Name.IsExported(),
		Line:     fset.Position(d.Pos()).Line,
	}
	if d.Recv != nil && len(d.Recv.List) > 0 {
		e.Kind = descriptor.KindMethod
		e.Receiver = receiverName(d.Recv.List[0].Type)
	}

	var buf bytes.Buffer
	sig := &ast.FuncDecl{Recv: d.Recv, Name: d.Name, Type: d.Type}
	if err := printer.Fprint(&buf, fset, sig); err == nil {
		e.Signature = buf.String()
	}
	return e
}

func genElements(fset *token.FileSet, d *ast.GenDecl) []descriptor.Element {
	var kind string
	switch d.Tok {
	case token.TYPE:
		kind = descriptor.KindType
	case token.CONST:
		kind = descriptor.KindConst
	case token.VAR:
		kind = descriptor.KindVar
	default:
		return nil
	}

	grouped := d.Lparen.IsValid()
	var out []descriptor.Element
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			doc := docText(s.Doc)
			if doc == "" && !grouped {
				doc = docText(d.Doc)
			}
			out = append(out, descriptor.Element{
				Kind:      kind,
				Name:      s.Name.Name,
				Signature: typeSignature(fset, s),
				Doc:       doc,
				Exported:  s.Name.IsExported(),
				Line:      fset.Position(s.Pos()).Line,
			})
		case *ast.ValueSpec:
			doc := docText(s.Doc)
			if doc == "" {
				doc = docText(s.Comment)
			}
			if doc == "" && !grouped {
				doc = docText(d.Doc)
			}
			for _, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				out = append(out, descriptor.Element{
					Kind:     kind,
					Name:     name.Name,
					Doc:      doc,
					Exported: name.IsExported(),
					Line:     fset.Position(name.Pos()).Line,
				})
			}
		}
	}
	return out
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func typeSignature(fset *token.FileSet, s *ast.TypeSpec) string {
	sig := "type " + s.Name.Name + " "
	if s.Assign.IsValid() {
		sig += "= "
	}
	switch s.Type.(type) {
	case *ast.StructType:
		return sig + "struct"
	case *ast.InterfaceType:
		return sig + "interface"
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, s.Type); err != nil {
		return strings.TrimSpace(sig)
	}
	return sig + buf.String()
}

func docText(g *ast.CommentGroup) string {
	if g == nil {
		return ""
	}
	return strings.TrimSpace(g.Text())
}

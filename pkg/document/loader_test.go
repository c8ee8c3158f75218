package document

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/logger"
)

// objectTable 测试用的间接对象表
type objectTable map[int]types.Object

func (t objectTable) Dereference(o types.Object) (types.Object, error) {
	ref, ok := o.(types.IndirectRef)
	if !ok {
		return o, nil
	}
	obj, ok := t[int(ref.ObjectNumber)]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.ObjectNumber)
	}
	return obj, nil
}

func ref(n int) types.IndirectRef {
	return types.IndirectRef{ObjectNumber: types.Integer(n)}
}

func newTestLoader(objects objectTable, root types.Dict) *loader {
	return &loader{
		r:        objects,
		root:     root,
		pageRefs: map[int]int{10: 0, 11: 1, 12: 2},
		log:      logger.Nop(),
	}
}

func TestLoaderAnnotations(t *testing.T) {
	objects := objectTable{
		20: types.Array{
			ref(21),
			types.Dict{
				"Subtype":  types.Name("Text"),
				"Contents": types.StringLiteral("Q:Favourite colour?"),
			},
			types.Dict{
				"Subtype": types.Name("Link"),
				"Rect":    types.Array{types.Integer(0), types.Integer(0), types.Float(1.5), types.Integer(10)},
				"Dest":    types.Array{ref(12), types.Name("Fit")},
			},
			types.Dict{
				"Subtype": types.Name("Link"),
				"Rect":    types.Array{types.Integer(10), types.Integer(10), types.Integer(60), types.Integer(30)},
				"A":       types.Dict{"S": types.Name("Named"), "N": types.Name("GoBack")},
			},
			types.Dict{
				"Subtype": types.Name("Link"),
				"Rect":    types.Array{types.Integer(10), types.Integer(40), types.Integer(60), types.Integer(60)},
				"A":       types.Dict{"S": types.Name("URI"), "URI": types.StringLiteral("https://example.org")},
			},
			types.Dict{
				"Subtype": types.Name("Link"),
				"Rect":    types.Array{types.Integer(10), types.Integer(70), types.Integer(60), types.Integer(90)},
				"A":       types.Dict{"S": types.Name("GoTo"), "D": types.StringLiteral("chapter2")},
			},
			types.Dict{
				"Subtype": types.Name("Link"),
				"Rect":    types.Array{types.Integer(10), types.Integer(100), types.Integer(60), types.Integer(120)},
				"A":       types.Dict{"S": types.Name("Launch"), "F": types.StringLiteral("/tmp/demo.sh")},
			},
			types.Dict{"Subtype": types.Name("Highlight")},
		},
		21: types.Dict{
			"Subtype":  types.Name("Text"),
			"Contents": types.StringLiteral("speaker note"),
		},
	}
	root := types.Dict{
		"Names": types.Dict{
			"Dests": types.Dict{
				"Kids": types.Array{types.Dict{
					"Names": types.Array{types.StringLiteral("chapter2"), types.Array{ref(11), types.Name("Fit")}},
				}},
			},
		},
	}
	l := newTestLoader(objects, root)

	annots := l.annotations(types.Dict{"Annots": ref(20)})
	if len(annots) != 7 {
		t.Fatalf("got %d annotations, want 7", len(annots))
	}

	checks := []struct {
		kind Kind
		text string
		link Link
	}{
		{KindNote, "speaker note", Link{}},
		{KindQuestion, "Favourite colour?", Link{}},
		{KindSectionMarker, "", Link{Dest: 2}},
		{KindLink, "", Link{Dest: NoPage, Named: NamedGoBack}},
		{KindLink, "", Link{Dest: NoPage, URL: "https://example.org"}},
		{KindLink, "", Link{Dest: 1}},
		{KindLink, "", Link{Dest: NoPage, URL: "file:///tmp/demo.sh"}},
	}
	for i, c := range checks {
		a := annots[i]
		if a.Kind != c.kind || a.Text != c.text {
			t.Errorf("annotation %d = %v %q, want %v %q", i, a.Kind, a.Text, c.kind, c.text)
		}
		if c.kind == KindLink || c.kind == KindSectionMarker {
			if a.Link != c.link {
				t.Errorf("annotation %d link = %+v, want %+v", i, a.Link, c.link)
			}
		}
	}
	if annots[3].Bounds != (geom.Rect{X: 10, Y: 10, W: 50, H: 20}) {
		t.Errorf("bounds = %+v", annots[3].Bounds)
	}
}

func TestLoaderCropBoxInheritance(t *testing.T) {
	objects := objectTable{
		5: types.Dict{"MediaBox": types.Array{types.Integer(0), types.Integer(0), types.Integer(800), types.Integer(600)}},
	}
	l := newTestLoader(objects, types.Dict{})

	got := l.cropBox(types.Dict{"Parent": ref(5)})
	if got != (geom.Rect{W: 800, H: 600}) {
		t.Errorf("inherited MediaBox = %+v", got)
	}

	got = l.cropBox(types.Dict{
		"CropBox":  types.Array{types.Integer(10), types.Integer(20), types.Integer(110), types.Integer(220)},
		"MediaBox": types.Array{types.Integer(0), types.Integer(0), types.Integer(800), types.Integer(600)},
	})
	if got != (geom.Rect{X: 10, Y: 20, W: 100, H: 200}) {
		t.Errorf("CropBox should win over MediaBox, got %+v", got)
	}

	if got := l.cropBox(types.Dict{}); got != (geom.Rect{W: 612, H: 792}) {
		t.Errorf("missing boxes should default to Letter, got %+v", got)
	}
}

func TestLoaderPageLabels(t *testing.T) {
	objects := objectTable{
		30: types.Dict{"S": types.Name("r")},
	}
	root := types.Dict{
		"PageLabels": types.Dict{
			"Kids": types.Array{
				types.Dict{"Nums": types.Array{types.Integer(0), ref(30)}},
				types.Dict{"Nums": types.Array{
					types.Integer(2), types.Dict{"S": types.Name("D"), "P": types.StringLiteral("p"), "St": types.Integer(5)},
				}},
			},
		},
	}
	l := newTestLoader(objects, root)

	got := Labels(l.labelRanges(), 4)
	want := []string{"i", "ii", "p5", "p6"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.pdf"), LoadOptions{Logger: logger.Nop()})
	if !apperrors.IsType(err, apperrors.ErrorTypeDocumentLoad) {
		t.Errorf("missing file: got %v, want DocumentLoadError", err)
	}
}

func TestLoadNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("just some text, not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, LoadOptions{Logger: logger.Nop()})
	if !apperrors.IsType(err, apperrors.ErrorTypeDocumentLoad) {
		t.Errorf("non-PDF file: got %v, want DocumentLoadError", err)
	}
}

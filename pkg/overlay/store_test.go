package overlay

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/novvoo/go-presentation/pkg/document"
	"github.com/novvoo/go-presentation/pkg/geom"
)

func newTestStore() *Store {
	return NewStore(document.New([]document.Page{
		{Annotations: []document.Annotation{
			document.NewTextNote(geom.Rect{}, "say hello"),
			document.NewTextNote(geom.Rect{}, "Q:Tabs or spaces?"),
		}},
		{}, {},
	}))
}

func TestAddStrokeExtends(t *testing.T) {
	s := newTestStore()

	stroke := s.AddStroke(1, geom.Point{X: 1, Y: 1})
	stroke.Append(geom.Point{X: 2, Y: 3})
	stroke.Append(geom.Point{X: 4, Y: 5})

	got := s.Strokes(1)
	if len(got) != 1 {
		t.Fatalf("got %d strokes, want 1", len(got))
	}
	want := []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 4, Y: 5}}
	if diff := cmp.Diff(want, got[0].Points); diff != "" {
		t.Errorf("stroke points mismatch (-want +got):\n%s", diff)
	}
}

func TestAddStrokeWithoutPoints(t *testing.T) {
	s := newTestStore()
	stroke := s.AddStroke(0)
	if !s.HasStrokes(0) {
		t.Fatalf("empty stroke should still be reserved")
	}
	stroke.Append(geom.Point{X: 9, Y: 9})
	if len(s.Strokes(0)[0].Points) != 1 {
		t.Errorf("appending to reserved stroke failed")
	}
}

func TestEraseStrokesIsolation(t *testing.T) {
	s := newTestStore()
	s.AddStroke(0, geom.Point{}, geom.Point{X: 1})
	s.AddStroke(1, geom.Point{}, geom.Point{X: 2})
	s.AddStroke(1, geom.Point{}, geom.Point{X: 3})
	s.AddStroke(2, geom.Point{}, geom.Point{X: 4})

	s.EraseStrokes(1)

	if s.HasStrokes(1) {
		t.Errorf("page 1 strokes not erased")
	}
	if len(s.Strokes(0)) != 1 || len(s.Strokes(2)) != 1 {
		t.Errorf("erasing page 1 touched other pages: p0=%d p2=%d", len(s.Strokes(0)), len(s.Strokes(2)))
	}
}

func TestNotesAndQuestions(t *testing.T) {
	s := newTestStore()
	if diff := cmp.Diff([]string{"say hello"}, s.Notes(0)); diff != "" {
		t.Errorf("Notes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Tabs or spaces?"}, s.Questions(0)); diff != "" {
		t.Errorf("Questions mismatch (-want +got):\n%s", diff)
	}
	if len(s.Notes(2)) != 0 {
		t.Errorf("page without notes should be empty")
	}
}

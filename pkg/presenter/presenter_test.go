package presenter

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/novvoo/go-cairo/pkg/cairo"

	"github.com/novvoo/go-presentation/pkg/document"
	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/logger"
	"github.com/novvoo/go-presentation/pkg/overlay"
	"github.com/novvoo/go-presentation/pkg/view"
	"github.com/novvoo/go-presentation/pkg/web"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLayout(t *testing.T) {
	l := NewLayout(1200, 800, false)
	if l.Margin != 30 {
		t.Errorf("margin = %v, want 30", l.Margin)
	}
	if l.CurrentWidth != 740 {
		t.Errorf("current width = %v, want 740", l.CurrentWidth)
	}
	want := geom.Rect{X: 800, Y: 75, W: 370, H: 695}
	if diff := cmp.Diff(want, l.NextSlot()); diff != "" {
		t.Errorf("next slot mismatch (-want +got):\n%s", diff)
	}
	if o := l.ClockOrigin(100); o.X != 1070 || !approx(o.Y, 60-54) {
		t.Errorf("clock origin = %v", o)
	}

	w := NewLayout(1200, 800, true)
	if w.CurrentWidth != 1140 {
		t.Errorf("windowed current width = %v, want 1140", w.CurrentWidth)
	}
}

func TestCurrentPlacementMapsCropToSlot(t *testing.T) {
	l := NewLayout(1200, 800, false)
	crop := geom.Rect{X: 0, Y: 0, W: 370, H: 277.5}
	m := l.CurrentPlacement(crop)

	tl := m.Transform(geom.Point{X: 0, Y: crop.H})
	br := m.Transform(geom.Point{X: crop.W, Y: 0})
	if !approx(tl.X, 30) || !approx(tl.Y, 30) {
		t.Errorf("top-left = %v, want (30,30)", tl)
	}
	if !approx(br.X, 770) || !approx(br.Y, 30+555) {
		t.Errorf("bottom-right = %v, want (770,585)", br)
	}
}

func TestAudiencePlacementCenters(t *testing.T) {
	crop := geom.Rect{W: 400, H: 300}
	m := AudiencePlacement(crop, 1000, 1000)
	r := windowRect(m, crop)
	want := geom.Rect{X: 0, Y: 125, W: 1000, H: 750}
	if !approx(r.X, want.X) || !approx(r.Y, want.Y) || !approx(r.W, want.W) || !approx(r.H, want.H) {
		t.Errorf("window rect = %+v, want %+v", r, want)
	}
}

func keys(entries []HelpEntry) string {
	var ks []string
	for _, e := range entries {
		ks = append(ks, e.Key)
	}
	return strings.Join(ks, " ")
}

func TestHelpDependsOnState(t *testing.T) {
	tests := []struct {
		name    string
		st      HelpState
		want    []string
		notWant []string
	}{
		{"clock slide", HelpState{Absolute: true, View: view.Slide}, []string{"t", "↖"}, []string{"z", "e", "+/-/0"}},
		{"timer", HelpState{View: view.Black}, []string{"z", "[/]", "{/}"}, []string{"↖"}},
		{"web", HelpState{Absolute: true, View: view.Web}, []string{"+/-/0"}, []string{"↖"}},
		{"strokes", HelpState{Absolute: true, View: view.Slide, HasStrokes: true}, []string{"e"}, nil},
		{"strokes hidden outside slide", HelpState{View: view.Poll, HasStrokes: true}, nil, []string{"e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := " " + keys(Help(tt.st)) + " "
			for _, k := range tt.want {
				if !strings.Contains(got, " "+k+" ") {
					t.Errorf("missing key %q in %q", k, got)
				}
			}
			for _, k := range tt.notWant {
				if strings.Contains(got, " "+k+" ") {
					t.Errorf("unexpected key %q in %q", k, got)
				}
			}
		})
	}
}

func TestHelpDoesNotAliasTables(t *testing.T) {
	a := Help(HelpState{Absolute: true, View: view.Slide})
	a[0].Key = "changed"
	if helpGeneral[0].Key != "?" {
		t.Errorf("Help returned a slice aliasing the general table")
	}
}

func TestMetrics(t *testing.T) {
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	short := m.Width("12:00", 20)
	long := m.Width("12:00:00", 20)
	if short <= 0 || long <= short {
		t.Errorf("widths not increasing: %v, %v", short, long)
	}
	if big := m.Width("12:00", 40); math.Abs(big-2*short) > 1 {
		t.Errorf("width should scale with size: %v vs %v", big, 2*short)
	}
	if m.Width("", 20) != 0 {
		t.Errorf("empty string width should be 0")
	}

	lines := m.Wrap("ab ab  ab\nab", 20, m.Width("ab ab", 20)+1)
	if diff := cmp.Diff([]string{"ab ab", "ab ab"}, lines); diff != "" {
		t.Errorf("wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricsUseDrawingFace(t *testing.T) {
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	face, _, err := cairo.LoadEmbeddedFont(fontKey)
	if err != nil {
		t.Fatalf("LoadEmbeddedFont: %v", err)
	}
	drawn := &Metrics{face: face}
	for _, s := range []string{"10:00:00", "12/34 (56/78)", "WWW iii"} {
		if got, want := m.Width(s, 24), drawn.Width(s, 24); got != want {
			t.Errorf("Width(%q) = %v, drawing face gives %v", s, got, want)
		}
	}
}

type whitePages struct{ requests []int }

func (w *whitePages) Page(page int, pageWidth float64, width int) (*image.RGBA, error) {
	w.requests = append(w.requests, page)
	h := int(math.Round(float64(width) * 0.75))
	img := image.NewRGBA(image.Rect(0, 0, width, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func testDocument() *document.Document {
	crop := geom.Rect{W: 400, H: 300}
	return document.New([]document.Page{
		{CropBox: crop, Annotations: []document.Annotation{
			document.NewLink(geom.Rect{X: 10, Y: 10, W: 50, H: 20}, document.Link{Dest: 1}),
		}},
		{CropBox: crop},
	})
}

func newTestRenderer(t *testing.T, pages PageSource) *Renderer {
	t.Helper()
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return NewRenderer(testDocument(), pages, m, logger.Nop())
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	return img
}

// isColor 要求不透明且颜色一致
func isColor(c color.Color, r, g, b uint8) bool {
	cr, cg, cb, ca := c.RGBA()
	return ca == 0xffff && uint8(cr>>8) == r && uint8(cg>>8) == g && uint8(cb>>8) == b
}

type solidPages struct{ col color.RGBA }

func (s solidPages) Page(page int, pageWidth float64, width int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, int(math.Round(float64(width)*0.75))))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = s.col.R
		img.Pix[i+1] = s.col.G
		img.Pix[i+2] = s.col.B
		img.Pix[i+3] = s.col.A
	}
	return img, nil
}

func TestCanvasEncodesDrawnPixels(t *testing.T) {
	c, err := newCanvas(100, 80, black)
	if err != nil {
		t.Fatalf("newCanvas: %v", err)
	}
	defer c.destroy()

	c.fillRect(geom.Rect{X: 0, Y: 0, W: 40, H: 40}, white, 1)
	crop := geom.Rect{W: 40, H: 30}
	place := geom.NewTranslationMatrix(50, 10)
	if err := c.drawPage(solidPages{color.RGBA{R: 255, A: 255}}, 0, crop, place); err != nil {
		t.Fatalf("drawPage: %v", err)
	}
	data, err := c.encodePNG()
	if err != nil {
		t.Fatalf("encodePNG: %v", err)
	}
	img := decode(t, data)

	tests := []struct {
		x, y    int
		r, g, b uint8
	}{
		{20, 20, 255, 255, 255},
		{45, 60, 0, 0, 0},
		{70, 25, 255, 0, 0},
		{95, 70, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := img.At(tt.x, tt.y); !isColor(got, tt.r, tt.g, tt.b) {
			t.Errorf("pixel (%d,%d) = %v, want opaque %d,%d,%d", tt.x, tt.y, got, tt.r, tt.g, tt.b)
		}
	}
}

func TestPresenterFrame(t *testing.T) {
	pages := &whitePages{}
	r := newTestRenderer(t, pages)
	st := PresenterState{
		Page:     0,
		Viewport: geom.NewIdentityMatrix(),
		Clock:    "10:00:00",
		ShowHelp: true,
		Help:     HelpState{Absolute: true, View: view.Slide},
		Notes:    []string{"remember the demo"},
	}
	data, err := r.Presenter(800, 600, st)
	if err != nil {
		t.Fatalf("Presenter: %v", err)
	}
	img := decode(t, data)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if !isColor(img.At(2, 2), 0, 0, 0) {
		t.Errorf("background should be black, got %v", img.At(2, 2))
	}
	// 当前页：margin=20，宽 (800-60)*2/3
	if !isColor(img.At(200, 200), 255, 255, 255) {
		t.Errorf("current page should be white, got %v", img.At(200, 200))
	}
	// 下一页预览变暗
	if c := img.At(600, 100); isColor(c, 0, 0, 0) || isColor(c, 255, 255, 255) {
		t.Errorf("next page preview should be dimmed, got %v", c)
	}
	if diff := cmp.Diff([]int{0, 1}, pages.requests); diff != "" {
		t.Errorf("raster requests mismatch (-want +got):\n%s", diff)
	}
}

func TestPresenterWhileDrawing(t *testing.T) {
	pages := &whitePages{}
	r := newTestRenderer(t, pages)
	stroke := &overlay.Stroke{Points: []geom.Point{{X: 10, Y: 10}, {X: 100, Y: 100}}}
	data, err := r.Presenter(800, 600, PresenterState{
		Viewport: geom.NewIdentityMatrix(),
		Drawing:  true,
		Strokes:  []*overlay.Stroke{stroke},
	})
	if err != nil {
		t.Fatalf("Presenter: %v", err)
	}
	img := decode(t, data)
	if !isColor(img.At(600, 100), 0, 0, 0) {
		t.Errorf("next page must not be drawn while drawing, got %v", img.At(600, 100))
	}
	if diff := cmp.Diff([]int{0}, pages.requests); diff != "" {
		t.Errorf("raster requests mismatch (-want +got):\n%s", diff)
	}
}

func TestAudienceViews(t *testing.T) {
	r := newTestRenderer(t, &whitePages{})

	slide := decode(t, mustRender(t)(r.Audience(400, 400, AudienceState{Viewport: geom.NewIdentityMatrix(), View: view.Slide})))
	if !isColor(slide.At(200, 200), 255, 255, 255) || !isColor(slide.At(200, 10), 0, 0, 0) {
		t.Errorf("slide should be centered with black bars")
	}

	blackFrame := decode(t, mustRender(t)(r.Audience(400, 400, AudienceState{Viewport: geom.NewIdentityMatrix(), View: view.Black})))
	if !isColor(blackFrame.At(200, 200), 0, 0, 0) {
		t.Errorf("black view should be black")
	}

	webFrame := decode(t, mustRender(t)(r.Audience(400, 400, AudienceState{
		View:    view.Web,
		Web:     &web.Page{URL: "http://example.org", Title: "Example"},
		WebZoom: 1,
	})))
	if !isColor(webFrame.At(399, 399), 255, 255, 255) {
		t.Errorf("web view should have a white page")
	}
}

func mustRender(t *testing.T) func([]byte, error) []byte {
	return func(data []byte, err error) []byte {
		t.Helper()
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}
		return data
	}
}

func TestCounter(t *testing.T) {
	doc := testDocument()
	if got := Counter(doc, 0); got != "1/2 (1/2)" {
		t.Errorf("Counter = %q", got)
	}
}

func TestInvalidFrameSize(t *testing.T) {
	r := newTestRenderer(t, nil)
	if _, err := r.Presenter(0, 10, PresenterState{}); err == nil {
		t.Errorf("expected error for empty frame")
	}
}

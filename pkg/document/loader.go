package document

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/geom"
	"github.com/novvoo/go-presentation/pkg/logger"
)

// ErrEncrypted 文档加密且未提供正确密码
var ErrEncrypted = stderrors.New("document is encrypted")

// LoadOptions 加载选项
type LoadOptions struct {
	Password string
	Logger   *logger.Logger
}

// resolver 解引用间接对象，*model.Context 满足该接口
type resolver interface {
	Dereference(o types.Object) (types.Object, error)
}

// Load 打开 PDF 并一次性扫描所有页面的标签和注释
func Load(path string, opts LoadOptions) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDocumentLoadError(path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	if opts.Password != "" {
		conf.UserPW = opts.Password
		conf.OwnerPW = opts.Password
	}

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		if stderrors.Is(err, pdfcpu.ErrWrongPassword) {
			return nil, apperrors.NewDocumentLoadError(path, fmt.Errorf("%w: %v", ErrEncrypted, err))
		}
		return nil, apperrors.NewDocumentLoadError(path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, apperrors.NewDocumentLoadError(path, err)
	}

	count := ctx.PageCount
	pageDicts := make([]types.Dict, count)
	pageRefs := make(map[int]int, count)
	for i := 0; i < count; i++ {
		pageDict, ref, _, err := ctx.PageDict(i+1, false)
		if err != nil {
			return nil, apperrors.NewDocumentLoadError(path, fmt.Errorf("failed to get page dict %d: %w", i+1, err))
		}
		pageDicts[i] = pageDict
		if ref != nil {
			pageRefs[int(ref.ObjectNumber)] = i
		}
	}

	l := &loader{r: ctx, root: ctx.RootDict, pageRefs: pageRefs, log: log}
	labels := Labels(l.labelRanges(), count)

	pages := make([]Page, count)
	for i, pageDict := range pageDicts {
		pages[i] = Page{
			Label:       labels[i],
			CropBox:     l.cropBox(pageDict),
			Annotations: l.annotations(pageDict),
		}
	}

	doc := New(pages)
	doc.Path = path
	doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	log.Info("document loaded", "path", path, "pages", count)
	return doc, nil
}

// loader 保存解析过程中共享的上下文
type loader struct {
	r        resolver
	root     types.Dict
	pageRefs map[int]int
	log      *logger.Logger
}

func (l *loader) deref(o types.Object) types.Object {
	if indRef, ok := o.(types.IndirectRef); ok {
		obj, err := l.r.Dereference(indRef)
		if err != nil {
			l.log.Debug("failed to dereference object", "ref", indRef.String(), "error", err)
			return nil
		}
		return obj
	}
	return o
}

func (l *loader) dict(o types.Object) (types.Dict, bool) {
	d, ok := l.deref(o).(types.Dict)
	return d, ok
}

func (l *loader) array(o types.Object) (types.Array, bool) {
	a, ok := l.deref(o).(types.Array)
	return a, ok
}

func (l *loader) find(d types.Dict, key string) types.Object {
	o, found := d.Find(key)
	if !found {
		return nil
	}
	return l.deref(o)
}

// cropBox 读取 /CropBox，缺失时沿 /Parent 继承，最后退回 /MediaBox
func (l *loader) cropBox(pageDict types.Dict) geom.Rect {
	for _, key := range []string{"CropBox", "MediaBox"} {
		d := pageDict
		for depth := 0; d != nil && depth < 32; depth++ {
			if r, ok := l.rect(l.find(d, key)); ok {
				return r
			}
			parent, ok := l.dict(l.find(d, "Parent"))
			if !ok {
				break
			}
			d = parent
		}
	}
	return geom.Rect{W: 612, H: 792}
}

func (l *loader) rect(o types.Object) (geom.Rect, bool) {
	arr, ok := o.(types.Array)
	if !ok || len(arr) != 4 {
		return geom.Rect{}, false
	}
	var v [4]float64
	for i := range v {
		n, ok := number(l.deref(arr[i]))
		if !ok {
			return geom.Rect{}, false
		}
		v[i] = n
	}
	return geom.RectFromCorners(v[0], v[1], v[2], v[3]), true
}

// annotations 提取页面注释并完成分类
func (l *loader) annotations(pageDict types.Dict) []Annotation {
	annotsArray, ok := l.array(l.find(pageDict, "Annots"))
	if !ok {
		return nil
	}

	var annotations []Annotation
	for _, annotObj := range annotsArray {
		annotDict, ok := l.dict(annotObj)
		if !ok {
			l.log.Debug("annotation is not a dictionary")
			continue
		}
		if a, ok := l.annotation(annotDict); ok {
			annotations = append(annotations, a)
		}
	}
	return annotations
}

func (l *loader) annotation(annotDict types.Dict) (Annotation, bool) {
	subtype, _ := l.find(annotDict, "Subtype").(types.Name)
	bounds, _ := l.rect(l.find(annotDict, "Rect"))
	contents := text(l.find(annotDict, "Contents"))

	switch string(subtype) {
	case "Text":
		return NewTextNote(bounds, contents), true
	case "Link":
		link := Link{Dest: NoPage, Tooltip: contents}
		if dest := l.find(annotDict, "Dest"); dest != nil {
			link.Dest = l.destination(dest, 0)
		}
		if action, ok := l.dict(l.find(annotDict, "A")); ok {
			l.applyAction(&link, action)
		}
		return NewLink(bounds, link), true
	}
	return Annotation{}, false
}

func (l *loader) applyAction(link *Link, action types.Dict) {
	s, _ := l.find(action, "S").(types.Name)
	switch string(s) {
	case "GoTo":
		link.Dest = l.destination(l.find(action, "D"), 0)
	case "URI":
		link.URL = text(l.find(action, "URI"))
	case "Named":
		if n, ok := l.find(action, "N").(types.Name); ok {
			link.Named = ParseNamedAction(string(n))
		}
	case "Launch":
		link.URL = fileURL(l.fileSpec(l.find(action, "F")))
	}
}

func (l *loader) fileSpec(o types.Object) string {
	if d, ok := o.(types.Dict); ok {
		for _, key := range []string{"UF", "F", "Unix"} {
			if s := text(l.find(d, key)); s != "" {
				return s
			}
		}
		return ""
	}
	return text(o)
}

func fileURL(p string) string {
	if p == "" || strings.Contains(p, "://") || strings.HasPrefix(p, "file:") {
		return p
	}
	return "file://" + p
}

// destination 把显式目标、命名目标或目标字典解析为页索引
func (l *loader) destination(o types.Object, depth int) int {
	if o == nil || depth > 8 {
		return NoPage
	}
	switch d := l.deref(o).(type) {
	case types.Array:
		if len(d) == 0 {
			return NoPage
		}
		switch first := d[0].(type) {
		case types.IndirectRef:
			if idx, ok := l.pageRefs[int(first.ObjectNumber)]; ok {
				return idx
			}
		case types.Integer:
			return int(first)
		}
	case types.Dict:
		return l.destination(l.find(d, "D"), depth+1)
	case types.Name:
		return l.destination(l.namedDest(string(d)), depth+1)
	case types.StringLiteral, types.HexLiteral:
		return l.destination(l.namedDest(text(d)), depth+1)
	}
	return NoPage
}

// namedDest 在 /Dests 字典和 /Names /Dests 名称树中查找目标
func (l *loader) namedDest(name string) types.Object {
	if dests, ok := l.dict(l.find(l.root, "Dests")); ok {
		if o := l.find(dests, name); o != nil {
			return o
		}
	}
	names, ok := l.dict(l.find(l.root, "Names"))
	if !ok {
		return nil
	}
	tree, ok := l.dict(l.find(names, "Dests"))
	if !ok {
		return nil
	}
	return l.nameTreeLookup(tree, name, 0)
}

func (l *loader) nameTreeLookup(node types.Dict, name string, depth int) types.Object {
	if depth > 32 {
		return nil
	}
	if arr, ok := l.array(l.find(node, "Names")); ok {
		for i := 0; i+1 < len(arr); i += 2 {
			if text(l.deref(arr[i])) == name {
				return l.deref(arr[i+1])
			}
		}
	}
	if kids, ok := l.array(l.find(node, "Kids")); ok {
		for _, kid := range kids {
			kidDict, ok := l.dict(kid)
			if !ok {
				continue
			}
			if o := l.nameTreeLookup(kidDict, name, depth+1); o != nil {
				return o
			}
		}
	}
	return nil
}

// labelRanges 读取目录中的 /PageLabels 数字树
func (l *loader) labelRanges() []LabelRange {
	tree, ok := l.dict(l.find(l.root, "PageLabels"))
	if !ok {
		return nil
	}

	var ranges []LabelRange
	stack := []types.Dict{tree}
	for visited := 0; len(stack) > 0 && visited < 1024; visited++ {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nums, ok := l.array(l.find(node, "Nums")); ok {
			for i := 0; i+1 < len(nums); i += 2 {
				key, ok := l.deref(nums[i]).(types.Integer)
				if !ok {
					continue
				}
				labelDict, ok := l.dict(nums[i+1])
				if !ok {
					continue
				}
				ranges = append(ranges, l.labelRange(int(key), labelDict))
			}
		}
		if kids, ok := l.array(l.find(node, "Kids")); ok {
			for _, kid := range kids {
				if kidDict, ok := l.dict(kid); ok {
					stack = append(stack, kidDict)
				}
			}
		}
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].StartPage < ranges[j].StartPage
	})
	return ranges
}

func (l *loader) labelRange(start int, d types.Dict) LabelRange {
	r := LabelRange{StartPage: start, Start: 1}
	if s, ok := l.find(d, "S").(types.Name); ok {
		r.Style = LabelStyle(s)
	}
	r.Prefix = text(l.find(d, "P"))
	if st, ok := l.find(d, "St").(types.Integer); ok {
		r.Start = int(st)
	}
	return r
}

func number(o types.Object) (float64, bool) {
	switch v := o.(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

// text 解码 PDF 文本字符串，解码失败时退回原始字节
func text(o types.Object) string {
	switch s := o.(type) {
	case types.StringLiteral:
		if decoded, err := types.StringLiteralToString(s); err == nil {
			return decoded
		}
		return s.String()
	case types.HexLiteral:
		if decoded, err := types.HexLiteralToString(s); err == nil {
			return decoded
		}
		return s.String()
	case types.Name:
		return string(s)
	}
	return ""
}

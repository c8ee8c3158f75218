// Package raster 把 PDF 页面栅格化为位图，并缓存最近使用的结果
package raster

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/gen2brain/go-fitz"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/draw"

	apperrors "github.com/novvoo/go-presentation/pkg/errors"
	"github.com/novvoo/go-presentation/pkg/logger"
)

// MaxPixelWidth 单页栅格化的最大像素宽度
const MaxPixelWidth = 4096

// Rasterizer 页面栅格化接口；scale 为每 PDF 点对应的像素数
type Rasterizer interface {
	Rasterize(page int, scale float64) (image.Image, error)
	Close() error
}

// FitzRasterizer 基于 MuPDF (go-fitz) 的栅格化实现
type FitzRasterizer struct {
	mu  sync.Mutex
	doc *fitz.Document
}

// Open 打开 path 用于栅格化
func Open(path string) (*FitzRasterizer, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, apperrors.NewDocumentLoadError(path, err)
	}
	return &FitzRasterizer{doc: doc}, nil
}

// OpenWithPassword 先用 pdfcpu 在内存中解密，再交给 MuPDF；password 为空时等同 Open
func OpenWithPassword(path, password string) (*FitzRasterizer, error) {
	if password == "" {
		return Open(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDocumentLoadError(path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	var buf bytes.Buffer
	if err := api.Decrypt(f, &buf, conf); err != nil {
		return nil, apperrors.NewDocumentLoadError(path, err)
	}
	doc, err := fitz.NewFromMemory(buf.Bytes())
	if err != nil {
		return nil, apperrors.NewDocumentLoadError(path, err)
	}
	return &FitzRasterizer{doc: doc}, nil
}

// PageCount 页数
func (r *FitzRasterizer) PageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.NumPage()
}

// Rasterize 按 scale 栅格化第 page 页（从 0 开始）
func (r *FitzRasterizer) Rasterize(page int, scale float64) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page < 0 || page >= r.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	img, err := r.doc.ImageDPI(page, 72*scale)
	if err != nil {
		return nil, apperrors.NewRenderError(fmt.Sprintf("cannot rasterize page %d", page), err)
	}
	return img, nil
}

// Close 释放文档
func (r *FitzRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Close()
}

type cacheKey struct {
	page  int
	width int
}

// Cache 按 (页, 像素宽度) 缓存栅格化结果，超出容量时淘汰最久未用的条目
type Cache struct {
	r       Rasterizer
	log     *logger.Logger
	entries *lru.Cache[cacheKey, *image.RGBA]
}

// NewCache 创建容量为 capacity 的缓存
func NewCache(r Rasterizer, capacity int, log *logger.Logger) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	// 容量为正时 lru.New 不会返回错误
	entries, _ := lru.New[cacheKey, *image.RGBA](capacity)
	return &Cache{r: r, log: log, entries: entries}
}

// Page 返回第 page 页缩放到 width 像素宽的位图；pageWidth 为裁剪框宽度（点）
func (c *Cache) Page(page int, pageWidth float64, width int) (*image.RGBA, error) {
	if width > MaxPixelWidth {
		width = MaxPixelWidth
	}
	if width < 1 || pageWidth <= 0 {
		return nil, fmt.Errorf("invalid raster width %d for page width %.2f", width, pageWidth)
	}
	key := cacheKey{page: page, width: width}
	if img, ok := c.entries.Get(key); ok {
		return img, nil
	}

	src, err := c.r.Rasterize(page, float64(width)/pageWidth)
	if err != nil {
		return nil, err
	}
	img := fitWidth(src, width)

	evicted := c.entries.Add(key, img)
	c.log.Debug("page rasterized", "page", page, "width", width, "cached", c.entries.Len(), "evicted", evicted)
	return img, nil
}

// Len 缓存条目数
func (c *Cache) Len() int {
	return c.entries.Len()
}

// fitWidth 将 src 缩放到精确的像素宽度，保持宽高比
func fitWidth(src image.Image, width int) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok && b.Dx() == width && b.Min == (image.Point{}) {
		return rgba
	}
	height := int(math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx())))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

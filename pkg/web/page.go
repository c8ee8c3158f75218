package web

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockKind 网页文本块类型
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockItem
)

// Block 一段可显示的文本
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
}

// Page 已加载的网页
type Page struct {
	URL    string
	Title  string
	Blocks []Block
}

// Parse 解析 HTML，提取标题和正文文本块
func Parse(r io.Reader, url string) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	p := &Page{URL: url}
	p.walk(doc)
	if p.Title == "" {
		p.Title = url
	}
	return p, nil
}

func (p *Page) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Title:
			if p.Title == "" {
				p.Title = extractText(n)
			}
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			p.add(BlockHeading, headingLevel(n.DataAtom), extractText(n))
			return
		case atom.P, atom.Pre, atom.Blockquote:
			p.add(BlockParagraph, 0, extractText(n))
			return
		case atom.Li:
			p.add(BlockItem, 0, extractText(n))
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *Page) add(kind BlockKind, level int, text string) {
	if text == "" {
		return
	}
	p.Blocks = append(p.Blocks, Block{Kind: kind, Level: level, Text: text})
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	}
	return 6
}

// extractText 拼接子树文本并压缩空白
func extractText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

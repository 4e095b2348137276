// Package sandbox builds the isolated preview documents that interactive
// mode swaps in over each frame's content area, and owns the registry of
// live previews. User script never runs against the editable document:
// it is rewritten to run inside the preview's own load event, with a
// graceful fallback when it throws.
package sandbox

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
)

var ErrNotAFrame = errors.New("element is not a frame")

// sandboxCSS forces the preview document to sit flush inside the frame:
// a borderless, transparent, non-scrolling body; a full-size
// frame-content that establishes the positioning context with the
// frame's own padding; and free-floating descendants pinned absolute
// with transitions off, mirroring the outer canvas's drag-performance
// rule so edit and interactive mode look identical.
const sandboxCSS = `html, body {
  margin: 0;
  padding: 0;
  border: none;
  background: transparent;
  overflow: hidden;
  width: 100%;
  height: 100%;
}
.frame-content {
  position: relative;
  width: 100%;
  height: 100%;
  padding: ` + "8px" + `;
  box-sizing: border-box;
}
.free-floating {
  position: absolute !important;
  transition: none !important;
}`

// BuildFrameDocument renders a frame's content as a complete standalone
// HTML document: global CSS, the frame's own style, the sandbox
// overrides, the content wrapped in a frame-content div, and the frame's
// script rewritten for in-preview execution.
func BuildFrameDocument(doc *document.CanvasDocument, frameID string) (string, error) {
	frame, ok := doc.Elements[frameID]
	if !ok || frame.Kind != document.KindFrame {
		return "", fmt.Errorf("%w: %s", ErrNotAFrame, frameID)
	}

	root := &html.Node{Type: html.ElementNode, DataAtom: atom.Html, Data: "html"}

	head := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	root.AppendChild(head)
	head.AppendChild(&html.Node{
		Type: html.ElementNode, DataAtom: atom.Meta, Data: "meta",
		Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}},
	})
	appendStyle(head, doc.GlobalCSS)
	appendStyle(head, frame.Style)
	appendStyle(head, sandboxCSS)

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	root.AppendChild(body)

	content := &html.Node{
		Type: html.ElementNode, DataAtom: atom.Div, Data: "div",
		Attr: []html.Attribute{{Key: "class", Val: "frame-content"}},
	}
	body.AppendChild(content)
	for _, childID := range frame.Children {
		if node := renderElement(doc, childID); node != nil {
			content.AppendChild(node)
		}
	}

	if script := strings.TrimSpace(frame.Script); script != "" {
		scriptNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Script, Data: "script"}
		scriptNode.AppendChild(&html.Node{Type: html.TextNode, Data: RewriteScript(script)})
		body.AppendChild(scriptNode)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>")
	if err := html.Render(&sb, root); err != nil {
		return "", fmt.Errorf("render frame document: %w", err)
	}
	return sb.String(), nil
}

func appendStyle(head *html.Node, css string) {
	if strings.TrimSpace(css) == "" {
		return
	}
	style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	head.AppendChild(style)
}

// renderElement converts a canvas element subtree to markup. Static
// children flow; free-floating and element-frame nodes carry their
// canvas geometry as inline position styles.
func renderElement(doc *document.CanvasDocument, id string) *html.Node {
	el, ok := doc.Elements[id]
	if !ok || !el.Visible {
		return nil
	}

	tag := el.Tag
	if tag == "" {
		tag = "div"
	}

	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     []html.Attribute{{Key: "data-el-id", Val: el.ID}},
	}

	switch el.Kind {
	case document.KindFreeFloating, document.KindElementFrame:
		class := "free-floating"
		if el.Kind == document.KindElementFrame {
			class = "element-frame free-floating"
		}
		node.Attr = append(node.Attr,
			html.Attribute{Key: "class", Val: class},
			html.Attribute{Key: "style", Val: inlineGeometry(el.Geometry)},
		)
	}

	if el.Text != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: el.Text})
	}
	for _, childID := range el.Children {
		if child := renderElement(doc, childID); child != nil {
			node.AppendChild(child)
		}
	}
	return node
}

func inlineGeometry(g document.Geometry) string {
	return fmt.Sprintf("left:%.0fpx;top:%.0fpx;width:%.0fpx;height:%.0fpx", g.Left, g.Top, g.Width, g.Height)
}

// SanitizeContent strips script and style bodies from markup while
// keeping the tags themselves, producing the reduced form sent to the
// enhancement service.
func SanitizeContent(markup string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	})
	if err != nil {
		return "", fmt.Errorf("parse content: %w", err)
	}

	var sb strings.Builder
	for _, node := range nodes {
		stripCode(node)
		if err := html.Render(&sb, node); err != nil {
			return "", fmt.Errorf("render sanitized content: %w", err)
		}
	}
	return sb.String(), nil
}

func stripCode(n *html.Node) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		for n.FirstChild != nil {
			n.RemoveChild(n.FirstChild)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripCode(c)
	}
}

// Package view renders PDS products as standalone HTML pages.
package view

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pds/extract"
	"github.com/tsawler/pds/label"
)

const stylesheet = `
body { font-family: sans-serif; margin: 2em; }
dl { margin: 0 0 0 1.5em; }
dt { font-family: monospace; font-weight: bold; }
dd { font-family: monospace; margin: 0 0 0.3em 1.5em; }
figure { margin: 0 0 2em 0; }
img { image-rendering: pixelated; border: 1px solid #888; }
`

// Options controls rendering.
type Options struct {
	// Title is the page title. Defaults to PRODUCT_ID, then "PDS product".
	Title string

	// ThumbnailSize bounds the longer side of the preview. Zero embeds the
	// image at full size.
	ThumbnailSize int
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{ThumbnailSize: 512}
}

// Render writes an HTML page listing labels and, when img is not nil, an
// inline preview of the image.
func Render(w io.Writer, labels label.Node, img *extract.Image, opts Options) error {
	title := opts.Title
	if title == "" {
		title = "PDS product"
		if id, ok := labels.GetText("PRODUCT_ID"); ok {
			title = trimQuotes(id)
		}
	}

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(element(atom.Title), title))
	head.AppendChild(withText(element(atom.Style), stylesheet))

	body := element(atom.Body)
	body.AppendChild(withText(element(atom.H1), title))

	if img != nil {
		fig, err := figure(img, opts.ThumbnailSize)
		if err != nil {
			return err
		}
		body.AppendChild(fig)
	}

	body.AppendChild(withText(element(atom.H2), "Labels"))
	body.AppendChild(labelList(labels))

	root := element(atom.Html, attr("lang", "en"))
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// labelList builds nested definition lists, keys sorted.
func labelList(n label.Node) *html.Node {
	dl := element(atom.Dl)
	for _, k := range n.Keys() {
		dl.AppendChild(withText(element(atom.Dt), k))
		dd := element(atom.Dd)
		switch v := n[k].(type) {
		case label.Node:
			dd.AppendChild(labelList(v))
		default:
			dd.AppendChild(text(v.String()))
		}
		dl.AppendChild(dd)
	}
	return dl
}

// figure embeds the image as a PNG data URI with a caption.
func figure(img *extract.Image, max int) (*html.Node, error) {
	thumb := img.Thumbnail(max)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	caption := fmt.Sprintf("%d × %d samples, %s, offset %d", img.Width, img.Height, img.SampleType, img.Offset)
	if img.Checksum != "" {
		caption += ", MD5 verified"
	}

	fig := element(atom.Figure)
	fig.AppendChild(element(atom.Img,
		attr("src", src),
		attr("width", strconv.Itoa(thumb.Bounds().Dx())),
		attr("height", strconv.Itoa(thumb.Bounds().Dy())),
		attr("alt", "IMAGE"),
	))
	fig.AppendChild(withText(element(atom.Figcaption), caption))
	return fig, nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

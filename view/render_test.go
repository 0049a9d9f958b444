package view

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/tsawler/pds/extract"
	"github.com/tsawler/pds/label"
)

func sampleLabels() label.Node {
	return label.Node{
		"PRODUCT_ID":  label.Text(`"FHA01118.IMG"`),
		"RECORD_TYPE": label.Text("FIXED_LENGTH"),
		"IMAGE": label.Node{
			"LINES":        label.Text("2"),
			"LINE_SAMPLES": label.Text("<script>"),
		},
	}
}

func find(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func render(t *testing.T, labels label.Node, img *extract.Image, opts Options) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, labels, img, opts); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("label values must be escaped")
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("output is not valid HTML: %v", err)
	}
	return doc
}

func TestRenderLabels(t *testing.T) {
	doc := render(t, sampleLabels(), nil, DefaultOptions())

	titles := find(doc, "title")
	if len(titles) != 1 || textContent(titles[0]) != "FHA01118.IMG" {
		t.Errorf("expected title from PRODUCT_ID, got %v", titles)
	}

	var keys []string
	for _, dt := range find(doc, "dt") {
		keys = append(keys, textContent(dt))
	}
	want := "IMAGE,LINES,LINE_SAMPLES,PRODUCT_ID,RECORD_TYPE"
	if strings.Join(keys, ",") != want {
		t.Errorf("expected keys %s, got %v", want, keys)
	}
	if len(find(doc, "dl")) != 2 {
		t.Error("expected one nested list for IMAGE")
	}
	if len(find(doc, "img")) != 0 {
		t.Error("unexpected image")
	}
}

func TestRenderImage(t *testing.T) {
	header := "PDS_VERSION_ID = PDS3\nRECORD_TYPE = FIXED_LENGTH\nRECORD_BYTES = 10\n" +
		"^IMAGE = 256 <BYTES>\nOBJECT = IMAGE\nLINES = 2\nLINE_SAMPLES = 4\n" +
		"SAMPLE_TYPE = UNSIGNED_INTEGER\nSAMPLE_BITS = 8\nEND_OBJECT = IMAGE\nEND\n"
	product := header + strings.Repeat(" ", 256-len(header)) + "\x00\x40\x80\xff\x10\x20\x30\x40"

	res, err := extract.NewImageExtractor(extract.DefaultConfig()).ExtractImage(strings.NewReader(product))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := render(t, res.Labels, res.Image, Options{Title: "Ramp"})

	imgs := find(doc, "img")
	if len(imgs) != 1 {
		t.Fatalf("expected one image, got %d", len(imgs))
	}
	attrs := map[string]string{}
	for _, a := range imgs[0].Attr {
		attrs[a.Key] = a.Val
	}
	if !strings.HasPrefix(attrs["src"], "data:image/png;base64,") {
		t.Errorf("unexpected src %.40q", attrs["src"])
	}
	if attrs["width"] != "4" || attrs["height"] != "2" {
		t.Errorf("expected 4x2, got %sx%s", attrs["width"], attrs["height"])
	}
	if titles := find(doc, "title"); textContent(titles[0]) != "Ramp" {
		t.Errorf("expected explicit title, got %q", textContent(titles[0]))
	}
}

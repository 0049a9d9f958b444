package label

import (
	"bytes"
	"errors"
	"testing"
)

func sampleNode() Node {
	return Node{
		"RECORD_BYTES": Text("512"),
		"RECORD_TYPE":  Text("FIXED_LENGTH"),
		"IMAGE": Node{
			"LINES":        Text("10"),
			"LINE_SAMPLES": Text("ten"),
			"DISPLAY":      Node{"DIRECTION": Text("SAMPLE")},
		},
	}
}

// TestNodeLookup tests dotted path resolution
func TestNodeLookup(t *testing.T) {
	n := sampleNode()

	tests := []struct {
		path string
		ok   bool
		kind Kind
	}{
		{"RECORD_TYPE", true, KindText},
		{"IMAGE", true, KindNode},
		{"IMAGE.LINES", true, KindText},
		{"IMAGE.DISPLAY.DIRECTION", true, KindText},
		{"IMAGE.MISSING", false, 0},
		{"RECORD_TYPE.X", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := n.Lookup(tt.path)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && v.Kind() != tt.kind {
				t.Errorf("expected %v, got %v", tt.kind, v.Kind())
			}
		})
	}
}

// TestNodeInt tests integer conversion
func TestNodeInt(t *testing.T) {
	n := sampleNode()

	v, err := n.Int("IMAGE.LINES")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 10 {
		t.Errorf("expected 10, got %d", v)
	}

	tests := []struct {
		path    string
		missing bool
	}{
		{"IMAGE.LINE_SAMPLES", false},
		{"IMAGE", false},
		{"IMAGE.NOPE", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := n.Int(tt.path)
			if !errors.Is(err, ErrConversion) {
				t.Fatalf("expected ErrConversion, got %v", err)
			}
			if errors.Is(err, ErrMissing) != tt.missing {
				t.Errorf("expected missing=%v, got %v", tt.missing, err)
			}
		})
	}
}

// TestNodeKeys tests sorted key listing
func TestNodeKeys(t *testing.T) {
	keys := sampleNode().Keys()
	want := []string{"IMAGE", "RECORD_BYTES", "RECORD_TYPE"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

// TestNodeString tests the compact representation
func TestNodeString(t *testing.T) {
	n := Node{"B": Text("2"), "A": Node{"C": Text("x y")}}
	want := `{A: {C: "x y"}, B: "2"}`
	if got := n.String(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// TestFprint tests indented printing
func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, Node{"B": Text("2"), "A": Node{"C": Text("3")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A:\n  C = 3\nB = 2\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	p := &Printer{Indent: "\t", Key: func(k string) string { return "<" + k + ">" }}
	if err := p.Fprint(&buf, Node{"A": Node{"C": Text("3")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "<A>:\n\t<C> = 3\n"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

package label

import (
	"errors"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func readAll(t *testing.T, input string, opts ...Option) ([]Record, *Reader) {
	t.Helper()
	r := NewReader(strings.NewReader(input), opts...)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return records, r
}

// TestReaderRecords tests basic record assembly
func TestReaderRecords(t *testing.T) {
	input := "PDS_VERSION_ID = PDS3\r\n" +
		"RECORD_TYPE    = FIXED_LENGTH\r\n" +
		"\r\n" +
		"RECORD_BYTES   = 1024\r\n" +
		"END\r\n"

	records, _ := readAll(t, input)
	want := []Record{
		{Key: "PDS_VERSION_ID", Value: "PDS3", Line: 1},
		{Key: "RECORD_TYPE", Value: "FIXED_LENGTH", Line: 2},
		{Key: "RECORD_BYTES", Value: "1024", Line: 4},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d: %v", len(want), len(records), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, want[i], records[i])
		}
	}
}

// TestReaderValues tests value spans between markers
func TestReaderValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		want  string
	}{
		{"single token", "A = 1\nEND\n", "A", "1"},
		{"single token last record", "A = 1\nB = 2\n", "B", "2"},
		{"multi token last record", "A = 1\nB = 2 <BYTES>\n", "B", "2 <BYTES>"},
		{"quoted", "NOTE = \"MARS ORBITER\"\nEND\n", "NOTE", "\"MARS ORBITER\""},
		{"multi line", "NOTE = \"A\nB\"\nX = 1\nEND\n", "NOTE", "\"A B\""},
		{"multi line indented", "NOTE = \"FIRST\n      SECOND\n  THIRD\"\nEND\n", "NOTE", "\"FIRST SECOND THIRD\""},
		{"collapsed spaces", "NOTE = \"A    B\"\nEND\n", "NOTE", "\"A B\""},
		{"empty value", "A =\nB = 2\nEND\n", "A", ""},
		{"no spaces needed around tokens", "A = (1, 2,\n 3)\nEND\n", "A", "(1, 2, 3)"},
		{"tab separated", "A\t=\t7\nEND\n", "A", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _ := readAll(t, tt.input)
			for _, rec := range records {
				if rec.Key == tt.key {
					if rec.Value != tt.want {
						t.Errorf("expected %q, got %q", tt.want, rec.Value)
					}
					return
				}
			}
			t.Fatalf("key %s not found in %v", tt.key, records)
		})
	}
}

// TestReaderMultiLineEquivalence tests that a value split over lines reads
// the same as the value on one line
func TestReaderMultiLineEquivalence(t *testing.T) {
	split, _ := readAll(t, "DESC = \"A\nB\"\nEND\n")
	joined, _ := readAll(t, "DESC = \"A B\"\nEND\n")
	if len(split) != 1 || len(joined) != 1 {
		t.Fatalf("expected one record each, got %v and %v", split, joined)
	}
	if split[0].Value != joined[0].Value {
		t.Errorf("expected %q, got %q", joined[0].Value, split[0].Value)
	}
}

// TestReaderComments tests whole-line comment handling
func TestReaderComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		records  int
		warnings int
	}{
		{"closed comment", "/* comment */\nA = 1\nEND\n", 1, 0},
		{"indented comment", "   /* comment */\nA = 1\nEND\n", 1, 0},
		{"open comment", "/* comment\nA = 1\nEND\n", 1, 1},
		{"comment with equals", "/* A = 2 */\nA = 1\nEND\n", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, r := readAll(t, tt.input)
			if len(records) != tt.records {
				t.Errorf("expected %d records, got %d", tt.records, len(records))
			}
			if len(r.Warnings()) != tt.warnings {
				t.Errorf("expected %d warnings, got %v", tt.warnings, r.Warnings())
			}
		})
	}
}

// TestReaderStopsAtEnd tests that nothing after the END line is read as text
func TestReaderStopsAtEnd(t *testing.T) {
	input := "A = 1\r\nEND\r\nB = 2\r\n\xff\xfe\x00\x01binary"
	records, _ := readAll(t, input)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %v", records)
	}
	if records[0].Key != "A" || records[0].Value != "1" {
		t.Errorf("unexpected record %+v", records[0])
	}
}

// TestReaderEndPrefixedKeysAreNotTerminators tests that END_OBJECT lines
// do not end the header
func TestReaderEndPrefixedKeysAreNotTerminators(t *testing.T) {
	records, _ := readAll(t, "OBJECT = IMAGE\nEND_OBJECT = IMAGE\nA = 1\nEND\n")
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %v", records)
	}
}

// TestReaderDecodeError tests invalid UTF-8 in the header
func TestReaderDecodeError(t *testing.T) {
	r := NewReader(strings.NewReader("A = 1\nB = \xff\nEND\n"))
	_, err := r.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Line != 2 {
		t.Errorf("expected line 2, got %d", de.Line)
	}

	// The failure is sticky.
	if _, err := r.Next(); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode on second call, got %v", err)
	}
}

// TestReaderByteOrderMark tests that a leading BOM is dropped
func TestReaderByteOrderMark(t *testing.T) {
	records, _ := readAll(t, "\xef\xbb\xbfPDS_VERSION_ID = PDS3\nEND\n")
	if len(records) != 1 || records[0].Key != "PDS_VERSION_ID" {
		t.Errorf("unexpected records %v", records)
	}
}

// TestReaderEncoding tests legacy single-byte headers
func TestReaderEncoding(t *testing.T) {
	input := "INCIDENCE = 45\xb0\nEND\n"

	if _, err := NewReader(strings.NewReader(input)).ReadAll(); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode without an encoding, got %v", err)
	}

	records, _ := readAll(t, input, WithEncoding(charmap.ISO8859_1))
	if len(records) != 1 || records[0].Value != "45°" {
		t.Errorf("unexpected records %v", records)
	}
}

// TestLookupEncoding tests charset name resolution
func TestLookupEncoding(t *testing.T) {
	enc, err := LookupEncoding("latin1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, _ := readAll(t, "A = \xe9\nEND\n", WithEncoding(enc))
	if records[0].Value != "é" {
		t.Errorf("expected é, got %q", records[0].Value)
	}

	if _, err := LookupEncoding("no-such-charset"); err == nil {
		t.Error("expected error for unknown charset")
	}
}

// TestReaderMarkerWithoutKey tests a leading "=" token
func TestReaderMarkerWithoutKey(t *testing.T) {
	records, r := readAll(t, "= 5\nA = 1\nEND\n")
	if len(records) != 1 || records[0].Key != "A" {
		t.Errorf("unexpected records %v", records)
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("expected 1 warning, got %v", r.Warnings())
	}
}

// TestReaderNext tests record-by-record iteration
func TestReaderNext(t *testing.T) {
	r := NewReader(strings.NewReader("A = 1\nB = 2\nEND\n"))
	var keys []string
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		keys = append(keys, rec.Key)
	}
	if strings.Join(keys, ",") != "A,B" {
		t.Errorf("expected A,B, got %v", keys)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after exhaustion, got %v", err)
	}
}

// TestReaderEmpty tests inputs without records
func TestReaderEmpty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "END\n", "/* only */\nEND"} {
		records, _ := readAll(t, input)
		if len(records) != 0 {
			t.Errorf("input %q: expected no records, got %v", input, records)
		}
	}
}

// Package label reads Planetary Data System (PDS) label headers into a
// nested tree of labels.
//
// A PDS header is ASCII text made of KEY = VALUE records. Values may span
// several physical lines, whole-line comments are delimited by /* and */,
// and the header ends at a line holding only END. Related labels are
// grouped into containers:
//
//	OBJECT = IMAGE
//	  LINES = 1024
//	  LINE_SAMPLES = 1024
//	END_OBJECT = IMAGE
//
// # Reading Records
//
// The [Reader] type turns a byte stream into [Record] values in document
// order. Multi-line values are joined with single spaces and surrounding
// whitespace is removed:
//
//	r := label.NewReader(f)
//	for {
//	    rec, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec.Key, rec.Value)
//	}
//
// # Building the Tree
//
// The [Parser] type consumes records and builds a [Node]. OBJECT and GROUP
// containers become child nodes stored under the name given by their
// closing END_OBJECT or END_GROUP record:
//
//	labels, warnings, err := label.NewParser().Parse(f)
//	lines, err := labels.Int("IMAGE.LINES")
//
// Values are kept exactly as written, as [Text]. Numeric interpretation is
// left to callers that know the expected type of a field.
//
// # Diagnostics
//
// Non-fatal problems (possible multi-line comments, duplicate keys,
// mismatched container names) are returned as [Warning] values and, when
// a logger is supplied with [WithLogger], logged through log/slog. Fatal
// problems are reported as [*DecodeError], [*StructuralError] or
// [*ConversionError].
package label

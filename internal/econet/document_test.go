package econet

import (
	"bytes"
	"encoding/json"
	"testing"
)

// decode parses JSON the same way the client does (UseNumber) so
// resolver tests see real document shapes.
func decode(t *testing.T, raw string) Document {
	t.Helper()
	var doc Document
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("decode test document: %v", err)
	}
	return doc
}

func TestResolve_Present(t *testing.T) {
	doc := decode(t, `{
		"curr": {
			"AxenOutdoorTemp": 5.2,
			"AxenUpperPump": 1,
			"label": "hp",
			"enabled": true
		},
		"tilesParams": [
			[["100", 1, 0]],
			[["21.0", 1, 0]]
		]
	}`)

	tests := []struct {
		name string
		path Path
		want string
	}{
		{"flat number", Path{Key("curr"), Key("AxenOutdoorTemp")}, "5.2"},
		{"flat int", Path{Key("curr"), Key("AxenUpperPump")}, "1"},
		{"flat string", Path{Key("curr"), Key("label")}, "hp"},
		{"nested tile value", Path{Key("tilesParams"), Index(1), Index(0), Index(0)}, "21.0"},
		{"terminal array unwrap", Path{Key("tilesParams"), Index(1), Index(0)}, "21.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(doc, tt.path)
			if !ok {
				t.Fatalf("Resolve(%s) absent, want %q", tt.path, tt.want)
			}
			var s string
			switch v := got.(type) {
			case json.Number:
				s = v.String()
			case string:
				s = v
			default:
				t.Fatalf("Resolve(%s) = %T, want scalar", tt.path, got)
			}
			if s != tt.want {
				t.Errorf("Resolve(%s) = %q, want %q", tt.path, s, tt.want)
			}
		})
	}
}

func TestResolve_PresentBool(t *testing.T) {
	doc := decode(t, `{"curr": {"enabled": true}}`)
	got, ok := Resolve(doc, Path{Key("curr"), Key("enabled")})
	if !ok {
		t.Fatal("Resolve absent, want true")
	}
	if b, isBool := got.(bool); !isBool || !b {
		t.Errorf("Resolve = %v (%T), want true", got, got)
	}
}

func TestResolve_Absent(t *testing.T) {
	doc := decode(t, `{
		"curr": {"AxenOutdoorTemp": 5.2},
		"tilesParams": [[["21.0", 1, 0]]],
		"empty": []
	}`)

	tests := []struct {
		name string
		path Path
	}{
		{"missing key", Path{Key("curr"), Key("NoSuchRegister")}},
		{"missing root key", Path{Key("nope"), Key("x")}},
		{"index out of range", Path{Key("tilesParams"), Index(99), Index(0), Index(0)}},
		{"negative index", Path{Key("tilesParams"), Index(-1)}},
		{"key into array", Path{Key("tilesParams"), Key("first")}},
		{"index into object", Path{Key("curr"), Index(0)}},
		{"descend through scalar", Path{Key("curr"), Key("AxenOutdoorTemp"), Key("deeper")}},
		{"terminal empty array", Path{Key("empty")}},
		{"terminal object", Path{Key("curr")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := Resolve(doc, tt.path); ok {
				t.Errorf("Resolve(%s) = %v, want absent", tt.path, got)
			}
		})
	}
}

func TestResolve_NilDocument(t *testing.T) {
	if _, ok := Resolve(nil, Path{Key("curr")}); ok {
		t.Error("Resolve(nil) should be absent")
	}
}

func TestResolve_EmptyPathUnwraps(t *testing.T) {
	// An empty path addresses the root; a non-empty array root unwraps
	// to its first element like any other terminal array.
	root := []any{json.Number("7"), json.Number("8")}
	got, ok := Resolve(root, nil)
	if !ok {
		t.Fatal("Resolve absent, want 7")
	}
	if n, _ := got.(json.Number); n.String() != "7" {
		t.Errorf("Resolve = %v, want 7", got)
	}
}

func TestPath_String(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{Path{Key("curr"), Key("TempCWU")}, "curr.TempCWU"},
		{Path{Key("tilesParams"), Index(29), Index(0), Index(0)}, "tilesParams[29][0][0]"},
		{Path{Index(3), Key("x")}, "[3].x"},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.want {
			t.Errorf("Path.String() = %q, want %q", got, tt.want)
		}
	}
}

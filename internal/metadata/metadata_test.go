package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/flowscript/internal/apperr"
)

func TestEncodeDecode_Structured(t *testing.T) {
	block := Encode("a1b2.c3", "Parse payload", "tab1")
	m, err := Decode("const x = 1;\n\n" + block + "\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m == nil {
		t.Fatal("expected metadata")
	}
	if m.ID != "a1b2.c3" || m.Name != "Parse payload" || m.Z != "tab1" {
		t.Errorf("decoded = %+v", m)
	}
	if m.Format != FormatStructured {
		t.Errorf("format = %v, want structured", m.Format)
	}
}

func TestEncode_Layout(t *testing.T) {
	want := "/**\n * @node-red-id n1\n * @node-red-name\n * @node-red-z t1\n */"
	if got := Encode("n1", "", "t1"); got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestEncode_NameCollapsedToOneLine(t *testing.T) {
	m, err := Decode(Encode("n1", "two\nlines", "t1"))
	if err != nil || m == nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Name != "two lines" {
		t.Errorf("name = %q", m.Name)
	}
}

func TestDecode_StructuredMissingZ(t *testing.T) {
	_, err := Decode("/**\n * @node-red-id n1\n * @node-red-name x\n */")
	if !errors.Is(err, apperr.ErrMalformedMetadata) {
		t.Errorf("err = %v, want ErrMalformedMetadata", err)
	}
}

func TestDecode_StructuredEmptyZ(t *testing.T) {
	m, err := Decode(Encode("g1", "Top", ""))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m == nil || m.ID != "g1" || m.Z != "" || m.Format != FormatStructured {
		t.Errorf("decoded = %+v, want structured g1 with empty z", m)
	}
}

func TestDecode_BlockStartsOnItsOwnLine(t *testing.T) {
	content := "const files = glob.sync(\"lib/**/*.js\");\nreturn msg;\n};\n\n" + Encode("n1", "Glob", "t1") + "\n"
	m, err := Decode(content)
	if err != nil || m == nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.ID != "n1" || m.Z != "t1" {
		t.Errorf("decoded = %+v", m)
	}
	out := Strip(content)
	want := "const files = glob.sync(\"lib/**/*.js\");\nreturn msg;\n};\n\n\n"
	if out != want {
		t.Errorf("Strip = %q, want %q", out, want)
	}
}

func TestDecode_NoMetadata(t *testing.T) {
	m, err := Decode("/** plain doc comment */\nfunction helper() {}\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil metadata, got %+v", m)
	}
}

func TestDecode_LegacyJSON(t *testing.T) {
	content := "return msg;\n/* @node-red-meta\n{\"id\": \"n9\", \"name\": \"Old\", \"z\": \"t2\"}\n*/\n"
	m, err := Decode(content)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.ID != "n9" || m.Name != "Old" || m.Z != "t2" || m.Format != FormatLegacy {
		t.Errorf("decoded = %+v", m)
	}
}

func TestDecode_LegacyLoose(t *testing.T) {
	content := "/* @node-red-meta\n * id: 'n9',\n * name: \"Loose one\",\n * tab: t7,\n */\nreturn msg;\n"
	m, err := Decode(content)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.ID != "n9" || m.Name != "Loose one" || m.Z != "t7" {
		t.Errorf("decoded = %+v", m)
	}
}

func TestDecode_LegacyTrailingCommaInBraces(t *testing.T) {
	content := "/* @node-red-meta {\"id\": \"n3\", \"tab\": \"t3\",} */"
	m, err := Decode(content)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.ID != "n3" || m.Z != "t3" {
		t.Errorf("decoded = %+v", m)
	}
}

func TestDecode_LegacyWithoutContainer(t *testing.T) {
	m, err := Decode("/* @node-red-meta {\"id\": \"n4\"} */")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Z != "" {
		t.Errorf("z = %q, want empty", m.Z)
	}
}

func TestDecode_LegacyMalformed(t *testing.T) {
	cases := []string{
		"/* @node-red-meta {\"id\": \"n5\", \"name\": [unclosed} */",
		"/* @node-red-meta {\"name\": \"no id\"} */",
		"/* @node-red-meta */",
	}
	for _, c := range cases {
		m, err := Decode(c)
		if !errors.Is(err, apperr.ErrMalformedMetadata) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformedMetadata", c, err)
		}
		if m != nil {
			t.Errorf("Decode(%q) returned %+v", c, m)
		}
	}
}

func TestDecode_StructuredWinsOverLegacy(t *testing.T) {
	content := "/* @node-red-meta {\"id\": \"legacy-id\", \"z\": \"legacy-z\"} */\n" +
		"return msg;\n\n" + Encode("new-id", "New", "new-z") + "\n"
	m, err := Decode(content)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.ID != "new-id" || m.Z != "new-z" || m.Format != FormatStructured {
		t.Errorf("decoded = %+v, want structured values", m)
	}
}

func TestDecode_IncompleteStructuredFallsBackToLegacy(t *testing.T) {
	content := "/**\n * @node-red-id n1\n */\n/* @node-red-meta {\"id\": \"n1\", \"tab\": \"t1\"} */"
	m, err := Decode(content)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Format != FormatLegacy || m.Z != "t1" {
		t.Errorf("decoded = %+v, want legacy fallback", m)
	}
}

func TestStrip_RemovesBothFormsKeepsDocComments(t *testing.T) {
	content := "/* @node-red-meta {\"id\": \"n1\"} */\n" +
		"/** helper docs */\nreturn msg;\n" + Encode("n1", "x", "t1") + "\n"
	out := Strip(content)
	if strings.Contains(out, "@node-red") {
		t.Errorf("metadata left behind: %q", out)
	}
	if !strings.Contains(out, "/** helper docs */") {
		t.Errorf("ordinary doc comment removed: %q", out)
	}
	if !HasLegacy(content) || !HasStructured(content) {
		t.Error("Has* should detect both blocks before stripping")
	}
	if HasLegacy(out) || HasStructured(out) {
		t.Error("Has* should be false after stripping")
	}
}

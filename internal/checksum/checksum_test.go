package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %q", got)
	}
	if got := Short(nil); got != empty[:12] {
		t.Errorf("Short(nil) = %q", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal([]byte("return msg;"), []byte("return msg;")) {
		t.Error("identical content should be equal")
	}
	if Equal([]byte("a"), []byte("b")) {
		t.Error("different content should differ")
	}
}

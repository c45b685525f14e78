package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("") is a well-known constant.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestETagQuoted(t *testing.T) {
	tag := ETag([]byte(`{"x":1}`))
	if tag[0] != '"' || tag[len(tag)-1] != '"' {
		t.Errorf("ETag not quoted: %s", tag)
	}
	if tag[1:len(tag)-1] != Sum([]byte(`{"x":1}`)) {
		t.Errorf("ETag does not wrap Sum: %s", tag)
	}
}

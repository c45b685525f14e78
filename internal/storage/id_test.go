package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/betternotes/internal/apperr"
)

func TestValidateID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"abc", true},
		{"1718000000000", true},
		{"9b2f6c1e-5d2a-4c3b-8e7f-0a1b2c3d4e5f", true},
		{"note with spaces", true},
		{"..hidden", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../escape", false},
		{"a/b", false},
		{`a\b`, false},
		{"/etc/passwd", false},
		{"nul\x00byte", false},
		{"line\nbreak", false},
		{strings.Repeat("x", MaxIDLength), true},
		{strings.Repeat("x", MaxIDLength+1), false},
	}
	for _, tc := range cases {
		err := ValidateID(tc.id)
		if tc.valid && err != nil {
			t.Errorf("ValidateID(%q) = %v, want nil", tc.id, err)
		}
		if !tc.valid {
			if err == nil {
				t.Errorf("ValidateID(%q) = nil, want error", tc.id)
				continue
			}
			if apperr.KindOf(err) != apperr.KindInvalidID || !errors.Is(err, apperr.ErrInvalidID) {
				t.Errorf("ValidateID(%q) kind = %v", tc.id, apperr.KindOf(err))
			}
		}
	}
}

func TestWindowsFileName(t *testing.T) {
	for _, id := range []string{"abc", "note with spaces", "con-notes", "com10", "1718000000000"} {
		if err := windowsFileName(id); err != nil {
			t.Errorf("windowsFileName(%q) = %v, want nil", id, err)
		}
	}
	for _, id := range []string{"CON", "nul", "Com1", "lpt9.backup", "aux ", "a:stream", "trailing.", "trailing ", "what?", "a|b"} {
		if err := windowsFileName(id); err == nil {
			t.Errorf("windowsFileName(%q) = nil, want error", id)
		}
	}
}

package storage

import (
	"errors"
	"os"
	"runtime"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/betternotes/internal/apperr"
)

// MaxIDLength bounds note ids so that <id>.json stays within common file name limits.
const MaxIDLength = 200

var (
	errReservedID    = errors.New("reserved name")
	errSeparatorInID = errors.New("contains a path separator")
	errControlInID   = errors.New("contains a control character")
	errWindowsName   = errors.New("not a valid windows file name")
)

var windowsReserved = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// ValidateID reports whether id can be mapped to a file inside the notes directory.
func ValidateID(id string) error {
	err := validation.Validate(id,
		validation.Required,
		validation.Length(1, MaxIDLength),
		validation.By(plainFileName),
	)
	if err != nil {
		return apperr.InvalidID(id, err)
	}
	return nil
}

func plainFileName(value interface{}) error {
	id, _ := value.(string)
	if id == "." || id == ".." {
		return errReservedID
	}
	if strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, os.PathSeparator) {
		return errSeparatorInID
	}
	for _, r := range id {
		if r == 0 || unicode.IsControl(r) {
			return errControlInID
		}
	}
	if runtime.GOOS == "windows" {
		return windowsFileName(id)
	}
	return nil
}

// windowsFileName rejects names Windows maps to devices or alternate data
// streams, and names ending in a dot or space.
func windowsFileName(id string) error {
	if strings.ContainsAny(id, `:*?"<>|`) {
		return errWindowsName
	}
	if strings.HasSuffix(id, ".") || strings.HasSuffix(id, " ") {
		return errWindowsName
	}
	// The device check applies to the stem of <id>.json too, e.g. "nul.tar".
	stem, _, _ := strings.Cut(id, ".")
	if _, ok := windowsReserved[strings.ToUpper(strings.TrimRight(stem, " "))]; ok {
		return errWindowsName
	}
	return nil
}

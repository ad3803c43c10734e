package herostore

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const blobSuffix = ".json"

// BlobKey returns the blob name a hero with the given id is stored under.
func BlobKey(id int) string {
	return strconv.Itoa(id) + blobSuffix
}

// ParseBlobKey extracts the hero id from a blob name produced by BlobKey.
func ParseBlobKey(name string) (int, bool) {
	idStr, ok := strings.CutSuffix(name, blobSuffix)
	if !ok || idStr == "" {
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsValidBlobName validates that a name can be used as a key in a flat container.
// It checks that the name:
//   - is not empty, "." or ".."
//   - does not contain path separators (/ or \)
//   - does not start with "." (reserved for temporary files)
//   - is valid UTF-8
//   - does not contain control characters, DEL or whitespace
func IsValidBlobName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	if name[0] == '.' {
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

package hackernews

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maskPath keeps the collection part of a store path readable and replaces the
// identifier after it with its xxhash digest: "item/8863" becomes "item/<digest>".
// Paths without an identifier, such as list names, are returned unchanged.
func maskPath(path string) string {
	collection, id, ok := strings.Cut(path, "/")
	if !ok {
		return path
	}

	return collection + "/" + maskValue(id)
}

func maskValue(v string) string {
	return strconv.FormatUint(xxhash.Sum64String(v), 16)
}

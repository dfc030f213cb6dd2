package manifest

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// ClipDirPrefix is the clip sub-directory prefix used by both input and
// output manifests.
const ClipDirPrefix = "wavs/"

// ClipBasename strips a leading "wavs/" from a clip reference.
func ClipBasename(ref string) string {
	return strings.TrimPrefix(ref, ClipDirPrefix)
}

// IsLocalClip reports whether ref stays inside its dataset directory and its
// pool name stays inside the pool: the reference is relative and its
// basename has no ".." element.
func IsLocalClip(ref string) bool {
	if ref == "" || !filepath.IsLocal(filepath.FromSlash(ref)) {
		return false
	}
	base := ClipBasename(ref)
	return base != "" && !slices.Contains(strings.Split(base, "/"), "..")
}

// PoolName is the file name a clip receives inside the shared pool.
func PoolName(sequenceID int, basename string) string {
	return strconv.Itoa(sequenceID) + "_" + basename
}

// FormatLine renders one merged manifest line, newline included:
// "wavs/{id}_{basename}|{text}|{id}".
func FormatLine(sequenceID int, basename, text string) string {
	id := strconv.Itoa(sequenceID)
	var b strings.Builder
	b.Grow(len(ClipDirPrefix) + 2*len(id) + len(basename) + len(text) + 4)
	b.WriteString(ClipDirPrefix)
	b.WriteString(id)
	b.WriteByte('_')
	b.WriteString(basename)
	b.WriteString(Delimiter)
	b.WriteString(text)
	b.WriteString(Delimiter)
	b.WriteString(id)
	b.WriteByte('\n')
	return b.String()
}

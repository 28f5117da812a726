package summarize

import "strings"

// Kind is the role of one unified-diff line, derived from its leading characters.
type Kind int

const (
	KindOther Kind = iota
	KindFileHeader
	KindRangeHeader
	KindHunkHeader
	KindAddition
	KindDeletion
)

var kindNames = [...]string{
	KindOther:       "other",
	KindFileHeader:  "file-header",
	KindRangeHeader: "range-header",
	KindHunkHeader:  "hunk-header",
	KindAddition:    "addition",
	KindDeletion:    "deletion",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsHeader reports whether k delimits a file, a file side or a hunk.
func (k Kind) IsHeader() bool {
	return k == KindFileHeader || k == KindRangeHeader || k == KindHunkHeader
}

// Classify returns the Kind of a single diff line. It is total: any string,
// including the empty one, has a Kind.
func Classify(line string) Kind {
	switch {
	case strings.HasPrefix(line, "diff --git"):
		return KindFileHeader
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return KindRangeHeader
	case strings.HasPrefix(line, "@@"):
		return KindHunkHeader
	case strings.HasPrefix(line, "+"):
		return KindAddition
	case strings.HasPrefix(line, "-"):
		return KindDeletion
	default:
		return KindOther
	}
}

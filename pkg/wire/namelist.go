package wire

import (
	"bytes"
	"fmt"
	"strings"
)

// NameList is an ordered sequence of ASCII tokens, transmitted as a byte
// string containing the tokens joined by commas with no surrounding
// whitespace. Order is significant and duplicates are allowed.
type NameList []string

// Contains reports whether name appears in the list.
func (l NameList) Contains(name string) bool {
	for _, n := range l {
		if n == name {
			return true
		}
	}
	return false
}

// String formats the list in its comma-joined wire content form.
func (l NameList) String() string {
	return strings.Join(l, ",")
}

func (l NameList) join() ([]byte, error) {
	for _, name := range l {
		if !isASCII([]byte(name)) {
			return nil, fmt.Errorf("%w: name list token %q is not pure ASCII", ErrConstraint, name)
		}
		if strings.ContainsRune(name, ',') {
			return nil, fmt.Errorf("%w: name list token %q contains a comma", ErrConstraint, name)
		}
	}
	return []byte(strings.Join(l, ",")), nil
}

// parseNameList splits comma-separated content. Consecutive commas are not
// collapsed: "a,,b" yields three tokens with an empty one in the middle.
func parseNameList(content []byte) (NameList, error) {
	if !isASCII(content) {
		return nil, fmt.Errorf("%w: name list content is not pure ASCII", ErrConstraint)
	}
	if len(content) == 0 {
		return NameList{}, nil
	}
	parts := bytes.Split(content, []byte{','})
	list := make(NameList, len(parts))
	for i, p := range parts {
		list[i] = string(p)
	}
	return list, nil
}

// Package scene models four-part argument scenes: the script, the clip pairs behind it and the manifest that ties them to disk.
package scene

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Name identifies a speaker slot. A scene always has exactly the four slots A, B, C and D, played in that order.
type Name string

const (
	A Name = "A"
	B Name = "B"
	C Name = "C"
	D Name = "D"
)

// Names lists the slots in playback order.
var Names = []Name{A, B, C, D}

// Count is the number of segments in every scene.
const Count = 4

// Index returns the playback position of the slot, or -1 for an unknown name.
func (n Name) Index() int {
	return lo.IndexOf(Names, n)
}

func (n Name) String() string {
	return string(n)
}

// ParseName accepts a slot name in any case.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToUpper(strings.TrimSpace(s)))
	if n.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	return n, nil
}

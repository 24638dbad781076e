package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quarrel-cli/quarrel/constant"
	"github.com/samber/lo"
)

// Clip is an unresolved (video, audio) reference pair for one slot.
type Clip struct {
	Video string `json:"video"`
	Audio string `json:"audio"`
}

// Segment is one fully resolved speaker slot ready for playback.
type Segment struct {
	Name    Name
	Speaker string
	Video   string
	Audio   string
	Caption string
}

// Label is the name shown for the segment in the player.
func (s Segment) Label() string {
	if s.Speaker == "" {
		return s.Name.String()
	}
	return fmt.Sprintf("%s %s", s.Name, s.Speaker)
}

// Resolve turns a clip or voice reference into a playable location.
//
//   - http(s) URLs pass through
//   - refs starting with /clips/ or /voices/ are rooted at root
//   - other absolute paths pass through
//   - bare refs land in root/<dir>
func Resolve(root, dir, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, constant.ClipsPrefix), strings.HasPrefix(ref, constant.VoicesPrefix):
		return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
	case filepath.IsAbs(ref):
		return ref
	default:
		return filepath.Join(root, dir, filepath.FromSlash(ref))
	}
}

// Root decides where references resolve from. An explicit override wins,
// then the manifest's own assets field, then the manifest's directory.
func (m *Manifest) Root(override string) string {
	if override != "" {
		return override
	}

	base := "."
	if m.path != "" {
		base = filepath.Dir(m.path)
	}

	if m.Assets == "" {
		return base
	}
	if filepath.IsAbs(m.Assets) {
		return m.Assets
	}
	return filepath.Join(base, m.Assets)
}

// Segments resolves the manifest into the four playable segments, in slot order.
func (m *Manifest) Segments(assetsRoot string) ([]Segment, error) {
	if err := m.checkSlots(); err != nil {
		return nil, err
	}

	root := m.Root(assetsRoot)
	return lo.Map(Names, func(n Name, _ int) Segment {
		s, _ := m.Slot(n)
		return Segment{
			Name:    n,
			Speaker: s.Speaker,
			Video:   Resolve(root, "clips", s.Video),
			Audio:   Resolve(root, "voices", s.Audio),
			Caption: s.Line,
		}
	}), nil
}

func (m *Manifest) checkSlots() error {
	if len(m.Slots) != Count {
		return fmt.Errorf("%w: got %d", ErrSegmentCount, len(m.Slots))
	}

	seen := make(map[Name]bool, Count)
	for _, s := range m.Slots {
		if s.Name.Index() < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownSlot, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSlot, s.Name)
		}
		seen[s.Name] = true

		if strings.TrimSpace(s.Video) == "" || strings.TrimSpace(s.Audio) == "" {
			return fmt.Errorf("%w: slot %s", ErrMissingAsset, s.Name)
		}
	}

	return nil
}

package scene

import (
	"math"
	"strings"
	"unicode/utf8"
)

// MaxLineChars is the hard limit on a single line accepted by the speech synthesizer.
const MaxLineChars = 200

// Script is the four-line dialogue of a scene, one line per slot.
type Script struct {
	LineA string `json:"lineA" yaml:"lineA"`
	LineB string `json:"lineB" yaml:"lineB"`
	LineC string `json:"lineC" yaml:"lineC"`
	LineD string `json:"lineD" yaml:"lineD"`
}

// Lines returns the lines in playback order.
func (s Script) Lines() [Count]string {
	return [Count]string{s.LineA, s.LineB, s.LineC, s.LineD}
}

// Line returns the line spoken in the given slot.
func (s Script) Line(n Name) string {
	i := n.Index()
	if i < 0 {
		return ""
	}
	return s.Lines()[i]
}

// Words counts whitespace separated words.
func Words(line string) int {
	return len(strings.Fields(line))
}

// EstimateSpeech guesses how long a synthesized line lasts: roughly three characters per second, never under a second.
func EstimateSpeech(line string) float64 {
	seconds := float64(utf8.RuneCountInString(line)) * 0.333
	return math.Max(1, math.Round(seconds*1000)/1000)
}

package scene_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quarrel-cli/quarrel/filesystem"
	"github.com/quarrel-cli/quarrel/scene"
	"github.com/quarrel-cli/quarrel/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const standoff = `title: The Standoff
topic: who pays for the drinks
segments:
  - slot: A
    speaker: Host
    line: I already paid last time and you know it.
    video: video_1_host.mp4
    audio: /voices/host_1.mp3
  - slot: b
    speaker: Guest
    line: That was two years ago, the prices have changed.
    video: video_2_guest.mp4
    audio: guest.mp3
  - slot: C
    speaker: Host
    line: Prices change, principles do not.
    video: /clips/video_3_host.mp4
    audio: https://cdn.example.com/host_2.mp3
  - slot: D
    speaker: Barkeep
    line: Somebody please just pay.
    video: /srv/media/barkeep.mp4
    audio: barkeep.mp3
`

func manifest() *scene.Manifest {
	return lo.Must(scene.Decode([]byte(standoff)))
}

func TestNames(t *testing.T) {
	Convey("Slot names", t, func() {
		So(scene.A.Index(), ShouldEqual, 0)
		So(scene.D.Index(), ShouldEqual, 3)
		So(scene.Name("E").Index(), ShouldEqual, -1)

		Convey("ParseName is case insensitive", func() {
			n, err := scene.ParseName(" c ")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, scene.C)
		})

		Convey("ParseName rejects unknown slots", func() {
			_, err := scene.ParseName("E")
			So(errors.Is(err, scene.ErrUnknownSlot), ShouldBeTrue)
		})
	})
}

func TestDecode(t *testing.T) {
	Convey("Given a manifest", t, func() {
		m := manifest()

		Convey("Slot names are normalised", func() {
			So(m.Slots[1].Name, ShouldEqual, scene.B)
		})

		Convey("Script collects lines in order", func() {
			s := m.Script()
			So(s.LineA, ShouldStartWith, "I already paid")
			So(s.Line(scene.D), ShouldEqual, "Somebody please just pay.")
			So(s.Lines()[2], ShouldEqual, "Prices change, principles do not.")
		})

		Convey("Clips keep the raw references", func() {
			clips := m.Clips()
			So(clips[0], ShouldResemble, scene.Clip{Video: "video_1_host.mp4", Audio: "/voices/host_1.mp3"})
		})

		Convey("Unknown fields are rejected", func() {
			_, err := scene.Decode([]byte("title: x\nbogus: 1\n"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		root := filepath.FromSlash("/data/scene")

		So(scene.Resolve(root, "clips", "a.mp4"), ShouldEqual, filepath.Join(root, "clips", "a.mp4"))
		So(scene.Resolve(root, "voices", "/voices/a.mp3"), ShouldEqual, filepath.Join(root, "voices", "a.mp3"))
		So(scene.Resolve(root, "voices", "/clips/a.mp4"), ShouldEqual, filepath.Join(root, "clips", "a.mp4"))
		So(scene.Resolve(root, "voices", "https://x.test/a.mp3"), ShouldEqual, "https://x.test/a.mp3")
		So(scene.Resolve(root, "clips", ""), ShouldBeEmpty)
	})
}

func TestSegments(t *testing.T) {
	Convey("Given a manifest loaded from disk", t, func() {
		path := filepath.Join(where.Scenes(), "standoff.yaml")
		lo.Must0(filesystem.API().WriteFile(path, []byte(standoff), 0o644))
		m := lo.Must(scene.Load(path))
		dir := filepath.Dir(path)

		Convey("Segments resolve against the manifest directory", func() {
			segments, err := m.Segments("")
			So(err, ShouldBeNil)
			So(segments, ShouldHaveLength, scene.Count)
			So(segments[0].Video, ShouldEqual, filepath.Join(dir, "clips", "video_1_host.mp4"))
			So(segments[0].Audio, ShouldEqual, filepath.Join(dir, "voices", "host_1.mp3"))
			So(segments[2].Audio, ShouldEqual, "https://cdn.example.com/host_2.mp3")
			So(segments[3].Caption, ShouldEqual, "Somebody please just pay.")
			So(segments[3].Label(), ShouldEqual, "D Barkeep")
		})

		Convey("An explicit root wins", func() {
			segments := lo.Must(m.Segments("/assets"))
			So(segments[1].Audio, ShouldEqual, filepath.Join("/assets", "voices", "guest.mp3"))
		})

		Convey("The manifest assets field is relative to the manifest", func() {
			m.Assets = "../static"
			So(m.Root(""), ShouldEqual, filepath.Join(dir, "..", "static"))
		})

		Convey("ID is the file stem", func() {
			So(m.ID(), ShouldEqual, "standoff")
		})
	})

	Convey("A manifest with three slots is refused", t, func() {
		m := manifest()
		m.Slots = m.Slots[:3]
		_, err := m.Segments("")
		So(errors.Is(err, scene.ErrSegmentCount), ShouldBeTrue)
	})

	Convey("A duplicated slot is refused", t, func() {
		m := manifest()
		m.Slots[3].Name = scene.A
		_, err := m.Segments("")
		So(errors.Is(err, scene.ErrDuplicateSlot), ShouldBeTrue)
	})

	Convey("A slot without audio is refused", t, func() {
		m := manifest()
		m.Slots[2].Audio = " "
		_, err := m.Segments("")
		So(errors.Is(err, scene.ErrMissingAsset), ShouldBeTrue)
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		m := manifest()

		Convey("A clean manifest passes", func() {
			r := m.Validate(20)
			So(r.OK(), ShouldBeTrue)
			So(r.Warnings, ShouldBeEmpty)
		})

		Convey("Wordy lines are warnings", func() {
			m.Slots[0].Line = strings.Repeat("word ", 25)
			r := m.Validate(20)
			So(r.OK(), ShouldBeTrue)
			So(r.Warnings, ShouldHaveLength, 1)
		})

		Convey("Lines past the synthesizer limit are errors", func() {
			m.Slots[1].Line = strings.Repeat("x", scene.MaxLineChars+1)
			r := m.Validate(0)
			So(r.OK(), ShouldBeFalse)
			So(errors.Is(r.Err(), scene.ErrLineTooLong), ShouldBeTrue)
		})
	})
}

func TestWriteAndFind(t *testing.T) {
	Convey("Given saved scenes", t, func() {
		m := manifest()
		lo.Must0(m.Write(filepath.Join(where.Scenes(), "bar-argument")))
		So(m.Path(), ShouldEndWith, "bar-argument.yaml")

		other := manifest()
		other.Title = "Parking"
		lo.Must0(other.Write(filepath.Join(where.Scenes(), "parking-dispute.yaml")))

		Convey("It round trips through Load", func() {
			loaded, err := scene.Load(m.Path())
			So(err, ShouldBeNil)
			So(loaded.Title, ShouldEqual, m.Title)
			So(loaded.Slots, ShouldResemble, m.Slots)
		})

		Convey("List returns them", func() {
			paths, err := scene.List()
			So(err, ShouldBeNil)
			So(paths, ShouldContain, m.Path())
			So(paths, ShouldContain, other.Path())
		})

		Convey("Find matches exact names", func() {
			path, err := scene.Find("parking-dispute")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, other.Path())
		})

		Convey("Find falls back to fuzzy matching", func() {
			path, err := scene.Find("bararg")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, m.Path())
		})

		Convey("Find reports misses", func() {
			_, err := scene.Find("zzzzzz")
			So(errors.Is(err, scene.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema describes the segments list", t, func() {
		data, err := scene.Schema()
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "segments")
		So(string(data), ShouldContainSubstring, "quarrel scene")
	})
}

func TestEstimateSpeech(t *testing.T) {
	Convey("EstimateSpeech", t, func() {
		So(scene.EstimateSpeech("hi"), ShouldEqual, 1.0)
		So(scene.EstimateSpeech(strings.Repeat("a", 30)), ShouldAlmostEqual, 9.99, 0.001)

		Convey("counts characters, not bytes", func() {
			So(scene.EstimateSpeech(strings.Repeat("ж", 30)), ShouldEqual, scene.EstimateSpeech(strings.Repeat("a", 30)))
			So(scene.EstimateSpeech("Слава Україні!"), ShouldAlmostEqual, 4.662, 0.001)
		})
	})
}

package track

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFallbacks(t *testing.T) {
	Convey("Given a file with no tags at all", t, func() {
		tr := New("/music/1. Song 1.mp3", Metadata{Duration: time.Minute})

		Convey("The basename is used as title", func() {
			So(tr.Title, ShouldEqual, "1. Song 1")
		})

		Convey("Placeholder album and artist are substituted", func() {
			So(tr.AlbumTitle, ShouldEqual, UnknownAlbum)
			So(tr.Artist, ShouldEqual, UnknownArtist)
			So(tr.AlbumArtist, ShouldEqual, UnknownArtist)
		})

		Convey("The track number defaults to zero", func() {
			So(tr.Number, ShouldEqual, 0)
		})
	})

	Convey("Given a tagged file without an album artist", t, func() {
		tr := New("/music/song.flac", Metadata{
			Album:  "Album X",
			Artist: "Artist A",
			Title:  "Song",
			Number: 3,
		})

		Convey("The album artist falls back to the artist", func() {
			So(tr.AlbumArtist, ShouldEqual, "Artist A")
		})
	})
}

func TestAlbumInfo(t *testing.T) {
	Convey("Album identity string", t, func() {
		Convey("Includes the year when present", func() {
			tr := New("/m/a.mp3", Metadata{Album: "X", Artist: "A", Year: 1982})
			So(tr.AlbumInfo, ShouldEqual, "A: X (1982)")
		})

		Convey("Omits the parenthesized year when absent", func() {
			tr := New("/m/a.mp3", Metadata{Album: "X", Artist: "A"})
			So(tr.AlbumInfo, ShouldEqual, "A: X")
		})

		Convey("Is stable for identical tag sets", func() {
			a := New("/m/a.mp3", Metadata{Album: "X", AlbumArtist: "V", Year: 2001})
			b := New("/m/b.mp3", Metadata{Album: "X", AlbumArtist: "V", Year: 2001})
			So(a.AlbumInfo, ShouldEqual, b.AlbumInfo)
		})
	})
}

func TestCompilation(t *testing.T) {
	Convey("Compilation detection", t, func() {
		va := New("/m/a.mp3", Metadata{Album: "Hits", AlbumArtist: "Various Artists", Artist: "A", Title: "S"})
		solo := New("/m/b.mp3", Metadata{Album: "X", Artist: "A", Title: "S"})

		So(va.Compilation(), ShouldBeTrue)
		So(solo.Compilation(), ShouldBeFalse)

		Convey("Compilation tracks render with the artist prefix", func() {
			So(va.String(), ShouldEqual, "A: S")
			So(solo.String(), ShouldEqual, "S")
		})
	})
}

func TestURI(t *testing.T) {
	Convey("URI conversion", t, func() {
		tr := New("/music/some song.mp3", Metadata{})
		So(tr.URI(), ShouldEqual, "file:///music/some%20song.mp3")
	})
}

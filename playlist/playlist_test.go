package playlist

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/soi-cli/soi/filesystem"
	"github.com/soi-cli/soi/track"
)

// jitterExtract fabricates a track from the file name and sleeps a random
// amount first, so worker completion order never matches submission order.
func jitterExtract(catalog map[string]track.Metadata) Extractor {
	return func(path string) mo.Option[track.Track] {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
		meta, ok := catalog[path]
		if !ok {
			return mo.None[track.Track]()
		}
		return mo.Some(track.New(path, meta))
	}
}

func seedFiles(paths ...string) {
	filesystem.SetMemMapFs()
	for _, p := range paths {
		lo.Must0(filesystem.API().WriteFile(p, []byte("x"), 0o644))
	}
}

func TestBuild(t *testing.T) {
	Convey("Given albums spread over shuffled files", t, func() {
		catalog := map[string]track.Metadata{}
		var files []string
		for album := 0; album < 3; album++ {
			for n := 1; n <= 4; n++ {
				path := fmt.Sprintf("/music/a%d-t%d.mp3", album, n)
				catalog[path] = track.Metadata{
					Album:       fmt.Sprintf("Album %d", album),
					AlbumArtist: "Artist",
					Title:       fmt.Sprintf("Track %d", n),
					Number:      n,
					Year:        2000 + album,
					Duration:    3 * time.Minute,
				}
				files = append(files, path)
			}
		}
		seedFiles(files...)

		shuffled := append([]string(nil), files...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		Convey("The order is deterministic across repeated builds", func() {
			first, err := BuildWith([]string{"/music"}, 8, jitterExtract(catalog))
			So(err, ShouldBeNil)

			for i := 0; i < 5; i++ {
				again, err := BuildWith([]string{"/music"}, 8, jitterExtract(catalog))
				So(err, ShouldBeNil)
				So(again.Items(), ShouldResemble, first.Items())
			}
		})

		Convey("Within one directory argument, tracks group by album and sort by number", func() {
			p, err := BuildWith([]string{"/music"}, 8, jitterExtract(catalog))
			So(err, ShouldBeNil)
			So(p.Len(), ShouldEqual, 12)

			prevAlbum, prevNumber := "", 0
			seen := map[string]bool{}
			for _, item := range p.Items() {
				if item.Track.AlbumInfo != prevAlbum {
					So(seen[item.Track.AlbumInfo], ShouldBeFalse)
					seen[item.Track.AlbumInfo] = true
					prevAlbum, prevNumber = item.Track.AlbumInfo, 0
				}
				So(item.Track.Number, ShouldBeGreaterThan, prevNumber)
				prevNumber = item.Track.Number
			}
		})

		Convey("Files named individually stay in argument order", func() {
			p, err := BuildWith(shuffled, 8, jitterExtract(catalog))
			So(err, ShouldBeNil)

			got := lo.Map(p.Items(), func(i Item, _ int) string {
				return i.Track.Path
			})
			So(got, ShouldResemble, shuffled)
		})
	})

	Convey("Given the same album named by two arguments", t, func() {
		catalog := map[string]track.Metadata{
			"/a/one.mp3": {Album: "X", AlbumArtist: "A", Number: 2},
			"/b/two.mp3": {Album: "X", AlbumArtist: "A", Number: 1},
		}
		seedFiles("/a/one.mp3", "/b/two.mp3")

		Convey("Argument order wins over track number", func() {
			p, err := BuildWith([]string{"/a/one.mp3", "/b/two.mp3"}, 4, jitterExtract(catalog))
			So(err, ShouldBeNil)
			So(p.Items()[0].Track.Path, ShouldEqual, "/a/one.mp3")
			So(p.Items()[1].Track.Path, ShouldEqual, "/b/two.mp3")
		})
	})

	Convey("Given files that fail extraction", t, func() {
		catalog := map[string]track.Metadata{
			"/music/good.mp3": {Title: "Good", Number: 1},
		}
		seedFiles("/music/good.mp3", "/music/cover.jpg", "/music/notes.txt")

		Convey("They are skipped without failing the batch", func() {
			p, err := BuildWith([]string{"/music"}, 4, jitterExtract(catalog))
			So(err, ShouldBeNil)
			So(p.Len(), ShouldEqual, 1)
			So(p.Items()[0].Track.Title, ShouldEqual, "Good")
		})
	})

	Convey("Given no playable files at all", t, func() {
		seedFiles("/music/cover.jpg")

		Convey("Construction fails", func() {
			p, err := BuildWith([]string{"/music"}, 4, jitterExtract(nil))
			So(err, ShouldEqual, ErrNoPlayableFiles)
			So(p, ShouldBeNil)
		})
	})

	Convey("Given a path that does not exist", t, func() {
		seedFiles("/music/good.mp3")
		catalog := map[string]track.Metadata{
			"/music/good.mp3": {Title: "Good"},
		}

		Convey("It contributes nothing and the rest still builds", func() {
			p, err := BuildWith([]string{"/nowhere", "/music"}, 4, jitterExtract(catalog))
			So(err, ShouldBeNil)
			So(p.Len(), ShouldEqual, 1)
		})
	})
}

func TestCursor(t *testing.T) {
	Convey("Given a playlist of three tracks", t, func() {
		p := &Playlist{store: []track.Track{
			{Path: "/1", Title: "one"},
			{Path: "/2", Title: "two"},
			{Path: "/3", Title: "three"},
		}}

		Convey("The cursor starts at the first track", func() {
			So(p.Current().MustGet().Title, ShouldEqual, "one")
		})

		Convey("Next walks forward and stops at the end", func() {
			So(p.Next().MustGet().Title, ShouldEqual, "two")
			So(p.Next().MustGet().Title, ShouldEqual, "three")
			So(p.Next().IsAbsent(), ShouldBeTrue)
			So(p.Current().MustGet().Title, ShouldEqual, "three")
		})

		Convey("Prev walks backward and stops at the start", func() {
			p.Next()
			So(p.Prev().MustGet().Title, ShouldEqual, "one")
			So(p.Prev().IsAbsent(), ShouldBeTrue)
			So(p.Current().MustGet().Title, ShouldEqual, "one")
		})

		Convey("Peek does not move the cursor", func() {
			So(p.Peek().MustGet().Title, ShouldEqual, "two")
			So(p.Peek().MustGet().Title, ShouldEqual, "two")
			So(p.Current().MustGet().Title, ShouldEqual, "one")
		})

		Convey("Items flags exactly the current track", func() {
			p.Next()
			playing := lo.Filter(p.Items(), func(i Item, _ int) bool {
				return i.Playing
			})
			So(playing, ShouldHaveLength, 1)
			So(playing[0].Track.Title, ShouldEqual, "two")
		})
	})
}

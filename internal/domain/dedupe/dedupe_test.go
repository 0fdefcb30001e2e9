package dedupe_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given a new tracker", t, func() {
		d := dedupe.New(dedupe.WithExpectedSize(8))

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When recording a new id", func() {
			seen := d.SeenAndRecord("users", "u1")

			Convey("Then it is not a duplicate", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same id twice", func() {
			d.SeenAndRecord("users", "u1")
			seen := d.SeenAndRecord("users", "u1")

			Convey("Then the second call reports a duplicate", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same id appears in another namespace", func() {
			d.SeenAndRecord("users", "x")
			seen := d.SeenAndRecord("jobs", "x")

			Convey("Then namespaces are independent", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When the id is empty", func() {
			So(d.SeenAndRecord("users", ""), ShouldBeFalse)
			So(d.SeenAndRecord("users", ""), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When reset", func() {
			d.SeenAndRecord("users", "u1")
			d.Reset()

			Convey("Then ids can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord("users", "u1"), ShouldBeFalse)
			})
		})
	})
}

func TestTrackerConcurrent(t *testing.T) {
	Convey("Given concurrent writers recording overlapping ids", t, func() {
		d := dedupe.New()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord("events", fmt.Sprintf("e-%d", i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each id is recorded exactly once", func() {
			So(fresh, ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}

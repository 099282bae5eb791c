package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roundup/internal/adapters/store"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory store", t, func() {
		st := store.NewMemory()

		Convey("When a missing collection is listed", func() {
			docs, err := st.ListUnder(ctx, "acme", "teams")
			So(err, ShouldBeNil)
			So(docs, ShouldBeEmpty)
		})

		Convey("When documents are written and rewritten", func() {
			So(st.SetMerge(ctx, "acme", "teams", "t1", map[string]any{"name": "Alpha", "active": true}), ShouldBeNil)
			So(st.SetMerge(ctx, "acme", "teams", "t2", map[string]any{"name": "Nova"}), ShouldBeNil)
			So(st.SetMerge(ctx, "acme", "teams", "t1", map[string]any{"name": "Alpha Squad"}), ShouldBeNil)

			docs, err := st.ListUnder(ctx, "acme", "teams")
			So(err, ShouldBeNil)

			Convey("Then listings keep insertion order", func() {
				So(len(docs), ShouldEqual, 2)
				So(docs[0].ID, ShouldEqual, "t1")
				So(docs[1].ID, ShouldEqual, "t2")
			})

			Convey("Then set merges into the existing document", func() {
				So(docs[0].Data["name"], ShouldEqual, "Alpha Squad")
				So(docs[0].Data["active"], ShouldEqual, true)
			})

			Convey("Then returned documents are copies, not aliases", func() {
				docs[0].Data["name"] = "mutated"
				again, err := st.ListUnder(ctx, "acme", "teams")
				So(err, ShouldBeNil)
				So(again[0].Data["name"], ShouldEqual, "Alpha Squad")
			})
		})

		Convey("When tenants share a collection name", func() {
			So(st.SetMerge(ctx, "acme", "teams", "t1", map[string]any{"name": "Alpha"}), ShouldBeNil)
			docs, err := st.ListUnder(ctx, "globex", "teams")
			So(err, ShouldBeNil)

			Convey("Then the partitions stay isolated", func() {
				So(docs, ShouldBeEmpty)
			})
		})

		Convey("When creating conditionally", func() {
			So(st.CreateIfAbsent(ctx, "acme", "joincodes", "ALPHA-123X", nil), ShouldBeNil)
			err := st.CreateIfAbsent(ctx, "acme", "joincodes", "ALPHA-123X", nil)

			Convey("Then the second create is rejected", func() {
				So(errors.Is(err, store.ErrAlreadyExists), ShouldBeTrue)
			})
		})

		Convey("When creating with a generated id", func() {
			id, err := st.Create(ctx, "acme", "teams", map[string]any{"name": "Fresh"})
			So(err, ShouldBeNil)
			So(id, ShouldNotBeEmpty)

			docs, err := st.ListUnder(ctx, "acme", "teams")
			So(err, ShouldBeNil)
			So(docs[0].ID, ShouldEqual, id)
		})

		Convey("When appending children", func() {
			first, err := st.AppendChild(ctx, "acme", "bounties", "b1", "assignments", map[string]any{"teamId": "t1"})
			So(err, ShouldBeNil)
			second, err := st.AppendChild(ctx, "acme", "bounties", "b1", "assignments", map[string]any{"teamId": "t2"})
			So(err, ShouldBeNil)
			So(first, ShouldNotEqual, second)

			records, err := st.ListUnder(ctx, "acme", "bounties/b1/assignments")
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 2)
		})

		Convey("When incrementing a counter field", func() {
			So(st.SetMerge(ctx, "acme", "teams", "t1", map[string]any{"current_workload": 2}), ShouldBeNil)
			So(st.AtomicIncrement(ctx, "acme", "teams", "t1", "current_workload", 1), ShouldBeNil)

			docs, err := st.ListUnder(ctx, "acme", "teams")
			So(err, ShouldBeNil)
			So(docs[0].Data["current_workload"], ShouldEqual, int64(3))

			Convey("And an absent document starts from zero", func() {
				So(st.AtomicIncrement(ctx, "acme", "teams", "t9", "current_workload", 1), ShouldBeNil)
				docs, err := st.ListUnder(ctx, "acme", "teams")
				So(err, ShouldBeNil)
				So(docs[1].Data["current_workload"], ShouldEqual, int64(1))
			})
		})

		Convey("When 50 goroutines increment the same counter", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = st.AtomicIncrement(ctx, "acme", "teams", "t1", "current_workload", 1)
				}()
			}
			wg.Wait()

			docs, err := st.ListUnder(ctx, "acme", "teams")
			So(err, ShouldBeNil)

			Convey("Then no increment is lost", func() {
				So(docs[0].Data["current_workload"], ShouldEqual, int64(50))
			})
		})

		Convey("When racing conditional creates on one id", func() {
			var wg sync.WaitGroup
			errs := make([]error, 20)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = st.CreateIfAbsent(ctx, "acme", "joincodes", "NOVAA-500K", map[string]any{"n": i})
				}(i)
			}
			wg.Wait()

			Convey("Then exactly one winner emerges", func() {
				var ok int
				for _, err := range errs {
					if err == nil {
						ok++
					} else {
						So(errors.Is(err, store.ErrAlreadyExists), ShouldBeTrue)
					}
				}
				So(ok, ShouldEqual, 1)
			})
		})

		Convey("When counting writes", func() {
			before := st.Writes()
			So(st.SetMerge(ctx, "acme", "teams", "t1", map[string]any{"name": "Alpha"}), ShouldBeNil)
			_, err := st.AppendChild(ctx, "acme", "bounties", "b1", "assignments", nil)
			So(err, ShouldBeNil)

			Convey("Then each mutation bumps the counter once", func() {
				So(st.Writes(), ShouldEqual, before+2)
			})
		})
	})
}

func TestUnconfigured(t *testing.T) {
	ctx := context.Background()

	Convey("Given the unconfigured store stub", t, func() {
		st := store.Unconfigured{}

		Convey("When any operation is attempted", func() {
			_, listErr := st.ListUnder(ctx, "acme", "teams")
			setErr := st.SetMerge(ctx, "acme", "teams", "t1", nil)
			_, appendErr := st.AppendChild(ctx, "acme", "bounties", "b1", "assignments", nil)
			incErr := st.AtomicIncrement(ctx, "acme", "teams", "t1", "current_workload", 1)
			_, createErr := st.Create(ctx, "acme", "teams", nil)
			condErr := st.CreateIfAbsent(ctx, "acme", "joincodes", "X", nil)

			Convey("Then every call reports the missing configuration", func() {
				for _, err := range []error{listErr, setErr, appendErr, incErr, createErr, condErr} {
					So(errors.Is(err, store.ErrNotConfigured), ShouldBeTrue)
				}
			})
		})
	})
}

func BenchmarkMemorySetMerge(b *testing.B) {
	ctx := context.Background()
	st := store.NewMemory()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = st.SetMerge(ctx, "acme", "teams", fmt.Sprintf("t%d", i%100), map[string]any{"n": i})
	}
}

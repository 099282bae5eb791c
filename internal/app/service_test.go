package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roundup/internal/adapters/store"
	service "github.com/okian/roundup/internal/app"
	"github.com/okian/roundup/internal/domain/selector"
	"github.com/okian/roundup/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func seededStore(ctx context.Context, t *testing.T) *store.Memory {
	t.Helper()
	st := store.NewMemory()
	teams := []struct {
		id     string
		fields map[string]any
	}{
		{"t1", map[string]any{
			"name":              "Alpha Squad",
			"skills":            []any{"python", "go"},
			"productivity_rate": 0.8,
			"current_workload":  1,
			"max_capacity":      5,
		}},
		{"t2", map[string]any{
			"name":              "Nova Crew",
			"skills":            []any{"java"},
			"productivity_rate": 0.9,
			"current_workload":  0,
			"max_capacity":      4,
		}},
		{"t3", map[string]any{
			"name":              "Drift Riders",
			"skills":            []any{"python"},
			"productivity_rate": 0.6,
			"current_workload":  2,
			"max_capacity":      2,
		}},
	}
	for _, tm := range teams {
		if err := st.SetMerge(ctx, "acme", "teams", tm.id, tm.fields); err != nil {
			t.Fatal(err)
		}
	}
	bounties := []struct {
		id     string
		fields map[string]any
	}{
		{"b1", map[string]any{
			"title":           "Webhook hardening",
			"difficulty":      "medium",
			"required_skills": []any{"python"},
			"status":          "open",
		}},
		{"b2", map[string]any{
			"title":      "Docs sweep",
			"difficulty": "easy",
			"status":     "open",
		}},
		{"b3", map[string]any{
			"title":  "Mystery task",
			"status": "open",
		}},
	}
	for _, b := range bounties {
		if err := st.SetMerge(ctx, "acme", "bounties", b.id, b.fields); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func emptyDataDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func snapshotDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	teams := `
- id: snap_team
  name: Snapshot Squad
  skills: [go]
  productivity_rate: 0.7
  current_workload: 0
  max_capacity: 4
`
	bounties := `
- id: snap_bounty
  title: Snapshot bounty
  difficulty: easy
  required_skills: [go]
  status: open
`
	if err := os.WriteFile(filepath.Join(dir, "teams.yaml"), []byte(teams), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bounties.yaml"), []byte(bounties), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestAllocate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a seeded store", t, func() {
		st := seededStore(ctx, t)
		svc := service.New(
			service.WithStore(st),
			service.WithTenant("acme"),
			service.WithDataDir(emptyDataDir(t)))

		Convey("When allocating a skill-matched bounty", func() {
			assignment, err := svc.Allocate(ctx, "b1")
			So(err, ShouldBeNil)

			Convey("Then the decision carries the winner, score, and full ranking", func() {
				So(assignment.Team.ID, ShouldEqual, "t1")
				So(assignment.FitScore, ShouldAlmostEqual, 90.0, 1e-9)
				So(len(assignment.Scores), ShouldEqual, 3)
				So(assignment.Reasoning, ShouldContainSubstring, "Alpha Squad selected based on:")
			})
		})

		Convey("When the bounty id is blank", func() {
			_, err := svc.Allocate(ctx, "   ")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the bounty id is unknown", func() {
			_, err := svc.Allocate(ctx, "b404")
			So(errors.Is(err, selector.ErrBountyNotFound), ShouldBeTrue)
		})

		Convey("When two callers race for the same bounty", func() {
			var wg sync.WaitGroup
			results := make([]error, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, results[i] = svc.Allocate(ctx, "b1")
				}(i)
			}
			wg.Wait()

			Convey("Then both receive a decision, neither blocks on the other", func() {
				So(results[0], ShouldBeNil)
				So(results[1], ShouldBeNil)
			})
		})
	})

	Convey("Given a service with no store but a snapshot dataset", t, func() {
		svc := service.New(service.WithDataDir(snapshotDir(t)))

		Convey("When allocating from the fallback dataset", func() {
			assignment, err := svc.Allocate(ctx, "snap_bounty")

			Convey("Then the degraded store never blocks the decision", func() {
				So(err, ShouldBeNil)
				So(assignment.Team.ID, ShouldEqual, "snap_team")
			})
		})
	})
}

func TestCreateTeam(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over an empty store", t, func() {
		st := store.NewMemory()
		svc := service.New(
			service.WithStore(st),
			service.WithTenant("acme"),
			service.WithDataDir(emptyDataDir(t)))

		Convey("When creating a team with defaults left blank", func() {
			result, err := svc.CreateTeam(ctx, service.CreateTeamRequest{
				Name:   "Rocket Crew",
				Skills: []string{"go"},
			})
			So(err, ShouldBeNil)

			Convey("Then the join code follows the team name", func() {
				So(result.JoinCode, ShouldStartWith, "ROCKE-")
				So(len(result.JoinCode), ShouldEqual, 10)
			})

			Convey("Then the record lands with policy defaults applied", func() {
				docs, err := st.ListUnder(ctx, "acme", "teams")
				So(err, ShouldBeNil)
				So(len(docs), ShouldEqual, 1)
				So(docs[0].ID, ShouldEqual, result.TeamID)
				So(docs[0].Data["name"], ShouldEqual, "Rocket Crew")
				So(docs[0].Data["joinCode"], ShouldEqual, result.JoinCode)
				So(docs[0].Data["max_capacity"], ShouldEqual, 5)
				So(docs[0].Data["current_workload"], ShouldEqual, 0)
				So(docs[0].Data["productivity_rate"], ShouldEqual, 0.75)
				So(docs[0].Data["active"], ShouldEqual, true)
			})
		})

		Convey("When the tenant is given on the request", func() {
			result, err := svc.CreateTeam(ctx, service.CreateTeamRequest{
				TenantID: "globex",
				Name:     "Side Project",
			})
			So(err, ShouldBeNil)

			Convey("Then the record lands in that tenant's partition", func() {
				docs, err := st.ListUnder(ctx, "globex", "teams")
				So(err, ShouldBeNil)
				So(len(docs), ShouldEqual, 1)
				So(docs[0].ID, ShouldEqual, result.TeamID)
			})
		})

		Convey("When the name is blank", func() {
			_, err := svc.CreateTeam(ctx, service.CreateTeamRequest{Name: "  "})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When a capacity is requested", func() {
			result, err := svc.CreateTeam(ctx, service.CreateTeamRequest{Name: "Big Crew", MaxCapacity: 12})
			So(err, ShouldBeNil)

			docs, err := st.ListUnder(ctx, "acme", "teams")
			So(err, ShouldBeNil)
			So(docs[len(docs)-1].ID, ShouldEqual, result.TeamID)
			So(docs[len(docs)-1].Data["max_capacity"], ShouldEqual, 12)
		})
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a seeded store", t, func() {
		st := seededStore(ctx, t)
		svc := service.New(
			service.WithStore(st),
			service.WithTenant("acme"),
			service.WithDataDir(emptyDataDir(t)))

		Convey("When building the dashboard", func() {
			summary, err := svc.Dashboard(ctx)
			So(err, ShouldBeNil)

			Convey("Then the totals aggregate every team and bounty", func() {
				So(summary.Summary.TotalTeams, ShouldEqual, 3)
				So(summary.Summary.TotalBounties, ShouldEqual, 3)
				So(summary.Summary.TotalCapacityUsed, ShouldEqual, 3)
				So(summary.Summary.TotalCapacity, ShouldEqual, 11)
			})

			Convey("Then averages are percentages rounded to 2 decimals", func() {
				// (0.8 + 0.9 + 0.6) / 3 * 100
				So(summary.Summary.AvgTeamProductivity, ShouldAlmostEqual, 76.67, 1e-9)
				So(summary.Summary.OverallUtilization, ShouldAlmostEqual, 27.27, 1e-9)
			})

			Convey("Then per-team utilization reflects its own capacity", func() {
				So(len(summary.TeamWorkload), ShouldEqual, 3)
				So(summary.TeamWorkload[0].TeamID, ShouldEqual, "t1")
				So(summary.TeamWorkload[0].Utilization, ShouldAlmostEqual, 20.0, 1e-9)
				So(summary.TeamWorkload[2].Utilization, ShouldAlmostEqual, 100.0, 1e-9)
			})

			Convey("Then missing difficulty buckets as unknown", func() {
				So(summary.BountyDifficulty["medium"], ShouldEqual, 1)
				So(summary.BountyDifficulty["easy"], ShouldEqual, 1)
				So(summary.BountyDifficulty["unknown"], ShouldEqual, 1)
			})

			Convey("Then top performers rank by productivity", func() {
				So(len(summary.TopPerformers), ShouldEqual, 3)
				So(summary.TopPerformers[0].Name, ShouldEqual, "Nova Crew")
				So(summary.TopPerformers[1].Name, ShouldEqual, "Alpha Squad")
			})
		})
	})

	Convey("Given no teams and no bounties anywhere", t, func() {
		svc := service.New(service.WithDataDir(emptyDataDir(t)))

		Convey("When building the dashboard", func() {
			_, err := svc.Dashboard(ctx)

			Convey("Then the missing dataset surfaces instead of fake zeros", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	service "github.com/okian/matchpredictor/internal/app"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

// writeSeasons writes a spi_matches style file with a fixed pattern per
// season: Lions beat everyone at home, Owls and Hares draw.
func writeSeasons(t *testing.T, dir, name string, seasons ...int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("season,date,league_id,league,team1,team2,spi1,spi2,prob1,prob2,probtie,score1,score2\n")
	for _, s := range seasons {
		fmt.Fprintf(&b, "%d,%d-08-10,2411,Barclays Premier League,Lions,Owls,80,60,0.6,0.2,0.2,2,0\n", s, s)
		fmt.Fprintf(&b, "%d,%d-08-17,2411,Barclays Premier League,Owls,Hares,60,55,0.4,0.3,0.3,1,1\n", s, s)
		fmt.Fprintf(&b, "%d,%d-08-24,2411,Barclays Premier League,Lions,Hares,80,55,0.7,0.1,0.2,3,1\n", s, s)
		fmt.Fprintf(&b, "%d,%d-08-10,1845,German Bundesliga,Bayern,Owls,90,40,0.8,0.1,0.1,5,0\n", s, s)
	}
	fmt.Fprintf(&b, "2022,2022-08-10,2411,Barclays Premier League,Lions,Owls,80,60,0.6,0.2,0.2,,\n")

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service reading overlapping results files", t, func() {
		dir := t.TempDir()
		older := writeSeasons(t, dir, "older.csv", 2017, 2018, 2019)
		newer := writeSeasons(t, dir, "newer.csv", 2019, 2020, 2021)

		svc := service.New(
			service.WithResultsPaths(older, newer),
			service.WithLeague("Barclays Premier League"),
			service.WithValidationSeason(2021),
			service.WithWorkerCount(2),
			service.WithQueueSize(2),
			service.WithDedupeSize(1000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("Then the repeated season and other leagues are not counted", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["model"].(training.Stats).Results, ShouldEqual, 12)
			})

			Convey("Then the held-out season is predicted perfectly", func() {
				rep, ok := svc.Report()
				So(ok, ShouldBeTrue)
				So(rep.Total, ShouldEqual, 3)
				So(rep.Accuracy, ShouldEqual, 1.0)
			})

			Convey("Then foreign league teams are unknown to the model", func() {
				b, err := svc.Predict(ctx, "Bayern", "Dortmund", "German Bundesliga")
				So(err, ShouldBeNil)
				So(b.Votes, ShouldBeEmpty)
				So(b.Fallback, ShouldBeTrue)
				So(b.Prediction.Outcome, ShouldEqual, model.Home)
			})

			Convey("Then the form table only uses recent seasons", func() {
				rows, err := svc.Teams(ctx, 10)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].Team, ShouldEqual, "Lions")
				So(rows[0].GoalDiff, ShouldEqual, 2.0)
				So(rows[1].Team, ShouldEqual, "Hares")
			})

			Convey("And when predicting the marquee fixture", func() {
				b, err := svc.Predict(ctx, "Lions", "Owls", "Barclays Premier League")

				Convey("Then every signal agrees on a home win", func() {
					So(err, ShouldBeNil)
					So(b.Prediction.Outcome, ShouldEqual, model.Home)
					So(len(b.Votes), ShouldEqual, 5)
					So(b.Scores.Home, ShouldEqual, 9)
				})
			})
		})
	})
}

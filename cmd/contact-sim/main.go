// contact-sim drives the contact estimator through a synthetic insertion
// trajectory: the plug starts above the socket and descends onto it over
// a number of steps. Per-step score summaries are written as CSV and a
// run summary as JSON, with optional PNG scatter plots per step.
//
// Usage:
//
//	contact-sim -plug plug.obj -socket socket.obj -steps 100 -out runs/
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ismarou/extrinsic-contact/internal/config"
	"github.com/ismarou/extrinsic-contact/internal/contact"
	"github.com/ismarou/extrinsic-contact/internal/contact/monitor"
	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

type runSummary struct {
	RunID      string    `json:"run_id"`
	PlugMesh   string    `json:"plug_mesh"`
	SocketMesh string    `json:"socket_mesh"`
	NumEnvs    int       `json:"num_envs"`
	NumPoints  int       `json:"num_points"`
	Steps      int       `json:"steps"`
	Threshold  float64   `json:"threshold"`
	FirstTouch int       `json:"first_touch_step"` // -1 when never in contact
	PeakMean   float64   `json:"peak_mean_score"`
	StartedAt  time.Time `json:"started_at"`
}

func main() {
	var (
		plugPath   = flag.String("plug", "", "path to plug OBJ mesh (required)")
		socketPath = flag.String("socket", "", "path to socket OBJ mesh (required)")
		tuningPath = flag.String("tuning", "", "optional tuning config JSON")
		numEnvs    = flag.Int("envs", 4, "parallel instance count")
		steps      = flag.Int("steps", 100, "trajectory steps")
		startZ     = flag.Float64("start-z", 0.05, "plug start height above socket (m)")
		outDir     = flag.String("out", "runs", "output directory root")
		plots      = flag.Bool("plots", false, "render per-step PNG scatter plots")
		seed       = flag.Int64("seed", 0, "RNG seed override (0 = tuning/default)")
	)
	flag.Parse()

	if *plugPath == "" || *socketPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *steps < 2 {
		log.Fatalf("need at least 2 trajectory steps, got %d", *steps)
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
	}

	cfg := tuning.EstimatorConfig(*plugPath, *socketPath, *numEnvs)
	if *seed != 0 {
		cfg.Seed = *seed
	}

	runID := uuid.NewString()
	runDir := filepath.Join(*outDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Fatalf("create run dir: %v", err)
	}

	var plotter *monitor.ContactPlotter
	if *plots {
		plotter = monitor.NewContactPlotter()
		if err := plotter.Start(filepath.Join(runDir, "plots")); err != nil {
			log.Fatalf("start plotter: %v", err)
		}
		defer plotter.Stop()
		cfg.Observer = plotter
	}

	est, err := contact.New(cfg)
	if err != nil {
		log.Fatalf("build estimator: %v", err)
	}

	log.Printf("run %s: %d envs, %d sample points, threshold %gm", runID, est.NumEnvs(), est.NumPoints(), cfg.Threshold)

	summary := runSummary{
		RunID:      runID,
		PlugMesh:   *plugPath,
		SocketMesh: *socketPath,
		NumEnvs:    est.NumEnvs(),
		NumPoints:  est.NumPoints(),
		Steps:      *steps,
		Threshold:  cfg.Threshold,
		FirstTouch: -1,
		StartedAt:  time.Now().UTC(),
	}

	csvFile, err := os.Create(filepath.Join(runDir, "scores.csv"))
	if err != nil {
		log.Fatalf("create scores.csv: %v", err)
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()
	if err := w.Write([]string{"step", "env", "mean_score", "max_score", "contact_points"}); err != nil {
		log.Fatalf("write csv header: %v", err)
	}

	socketPoses := make([]geom.Pose, *numEnvs)
	objPoses := make([]geom.Pose, *numEnvs)
	for i := range socketPoses {
		socketPoses[i] = geom.IdentityPose()
	}

	for step := 0; step < *steps; step++ {
		// Linear descent from startZ down to the socket surface.
		z := *startZ * (1 - float64(step)/float64(*steps-1))
		for i := range objPoses {
			objPoses[i] = geom.MustPose(r3.Vec{Z: z}, 0, 0, 0, 1)
		}

		scores, err := est.Contact(objPoses, socketPoses, 0)
		if err != nil {
			log.Fatalf("step %d: %v", step, err)
		}
		if _, err := est.Track(objPoses); err != nil {
			log.Fatalf("step %d: track: %v", step, err)
		}

		for env, row := range scores {
			var sum, max float64
			touching := 0
			for _, s := range row {
				sum += s
				if s > max {
					max = s
				}
				if s == 1.0 {
					touching++
				}
			}
			mean := sum / float64(len(row))
			if mean > summary.PeakMean {
				summary.PeakMean = mean
			}
			if touching > 0 && summary.FirstTouch < 0 {
				summary.FirstTouch = step
			}
			if err := w.Write([]string{
				strconv.Itoa(step),
				strconv.Itoa(env),
				strconv.FormatFloat(mean, 'g', -1, 64),
				strconv.FormatFloat(max, 'g', -1, 64),
				strconv.Itoa(touching),
			}); err != nil {
				log.Fatalf("write csv row: %v", err)
			}
		}
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("marshal summary: %v", err)
	}
	summaryPath := filepath.Join(runDir, "summary.json")
	if err := os.WriteFile(summaryPath, summaryJSON, 0644); err != nil {
		log.Fatalf("write summary: %v", err)
	}

	if summary.FirstTouch >= 0 {
		fmt.Printf("first contact at step %d, peak mean score %.3f\n", summary.FirstTouch, summary.PeakMean)
	} else {
		fmt.Println("no contact during trajectory")
	}
	fmt.Printf("results in %s\n", runDir)
}

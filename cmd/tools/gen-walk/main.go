// Command gen-walk generates synthetic landmark frames (JSONL) for testing
// the ingest pipeline without a live pose detector.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/strut-data/gait.report/internal/pose"
)

func main() {
	output := flag.String("o", "walk.jsonl", "output path")
	frames := flag.Int("n", 100, "number of frames")
	style := flag.String("style", "catwalk", "walk style: catwalk or drunk")
	intervalMs := flag.Int64("interval", 150, "milliseconds between frames")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *style != "catwalk" && *style != "drunk" {
		log.Fatalf("unknown style %q (want catwalk or drunk)", *style)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	enc := json.NewEncoder(f)

	x, y := 0.15, 0.5
	ts := int64(1000)
	for i := 0; i < *frames; i++ {
		switch *style {
		case "catwalk":
			// Steady diagonal progress with millimetre-scale jitter.
			x += 0.006 + rng.Float64()*0.002
			y += 0.003 + rng.Float64()*0.001
		case "drunk":
			// Heavy lateral sway plus random stalls.
			x += rng.NormFloat64() * 0.08
			y += rng.NormFloat64() * 0.08
		}
		x = clamp01(x)
		y = clamp01(y)

		if err := enc.Encode(frameAt(x, y, ts, rng)); err != nil {
			log.Fatalf("failed to write frame: %v", err)
		}
		ts += *intervalMs

		if (i+1)%25 == 0 {
			log.Printf("%d/%d frames", i+1, *frames)
		}
	}
	log.Printf("✓ Created: %s", *output)
}

// frameAt builds a full landmark set placed anatomically around the given
// hip midpoint: shoulders above, knees and ankles below.
func frameAt(x, y float64, ts int64, rng *rand.Rand) pose.Frame {
	landmarks := make([]pose.Landmark, pose.LandmarkCount)
	place := func(idx int, dx, dy float64) {
		vis := 0.8 + rng.Float64()*0.2
		landmarks[idx] = pose.Landmark{
			X:          clamp01(x + dx + rng.NormFloat64()*0.005),
			Y:          clamp01(y + dy + rng.NormFloat64()*0.005),
			Visibility: &vis,
		}
	}
	place(pose.LeftShoulder, -0.08, -0.25)
	place(pose.RightShoulder, 0.08, -0.25)
	place(pose.LeftHip, -0.05, 0)
	place(pose.RightHip, 0.05, 0)
	place(pose.LeftKnee, -0.05, 0.18)
	place(pose.RightKnee, 0.05, 0.18)
	place(pose.LeftAnkle, -0.05, 0.35)
	place(pose.RightAnkle, 0.05, 0.35)

	return pose.Frame{TimestampMs: ts, Landmarks: landmarks}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Command plot-trajectory renders a recorded center-of-gravity JSONL file
// (as written by the server's -record flag) to a PNG.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/strut-data/gait.report/internal/pose"
)

func main() {
	input := flag.String("i", "walk.jsonl", "input JSONL path")
	output := flag.String("o", "trajectory.png", "output PNG path")
	flag.Parse()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	defer f.Close()

	pts := make(plotter.XYs, 0, 256)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var cog pose.CenterOfGravity
		if err := json.Unmarshal(scanner.Bytes(), &cog); err != nil {
			log.Printf("skipping line %d: %v", line, err)
			continue
		}
		// Flip Y so the plot matches screen coordinates (origin top-left).
		pts = append(pts, plotter.XY{X: cog.X, Y: 1 - cog.Y})
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("failed to read input: %v", err)
	}
	if len(pts) == 0 {
		log.Fatal("no samples found in input")
	}

	p := plot.New()
	p.Title.Text = "Center-of-Gravity Trajectory"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	pathLine, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatalf("failed to build line: %v", err)
	}
	points, err := plotter.NewScatter(pts)
	if err != nil {
		log.Fatalf("failed to build scatter: %v", err)
	}
	points.Radius = vg.Points(2)

	p.Add(plotter.NewGrid(), pathLine, points)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("✓ Plotted %d samples: %s", len(pts), *output)
}

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// viridis ramp shared by the debug charts.
var chartColorRamp = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// handleTrajectoryChart renders the buffered center-of-gravity trajectory as
// a scatter plot (HTML), colored by sample confidence. Debugging-only
// endpoint to eyeball a session without the frontend.
// Query params:
//   - session_id (optional; defaults to the default session)
//   - max_points (optional; default 500)
func (s *Server) handleTrajectoryChart(w http.ResponseWriter, r *http.Request) {
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	maxPoints := 500
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 10 && v <= 5000 {
			maxPoints = v
		}
	}

	samples := session.Tracker().Snapshot()
	if len(samples) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no samples buffered")
		return
	}

	stride := 1
	if len(samples) > maxPoints {
		stride = (len(samples) + maxPoints - 1) / maxPoints
	}

	data := make([]opts.ScatterData, 0, len(samples)/stride+1)
	for i := 0; i < len(samples); i += stride {
		c := samples[i]
		data = append(data, opts.ScatterData{Value: []interface{}{c.X, c.Y, c.Confidence}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Gait Trajectory", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Center-of-Gravity Trajectory", Subtitle: fmt.Sprintf("session=%s points=%d stride=%d", session.ID, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: 1, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: chartColorRamp},
		}),
	)
	scatter.AddSeries("trajectory", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleScoresChart renders the session's classification score history as a
// line chart (HTML): stability, regularity, and linearity over time.
func (s *Server) handleScoresChart(w http.ResponseWriter, r *http.Request) {
	session := s.resolveSession(w, r)
	if session == nil {
		return
	}

	history := session.ScoreHistory()
	if len(history) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no score history available")
		return
	}

	x := make([]string, 0, len(history))
	stability := make([]opts.LineData, 0, len(history))
	regularity := make([]opts.LineData, 0, len(history))
	linearity := make([]opts.LineData, 0, len(history))
	for _, sample := range history {
		x = append(x, time.UnixMilli(sample.TimestampMs).UTC().Format("15:04:05"))
		stability = append(stability, opts.LineData{Value: sample.Scores.Stability})
		regularity = append(regularity, opts.LineData{Value: sample.Scores.Regularity})
		linearity = append(linearity, opts.LineData{Value: sample.Scores.Linearity})
	}

	latest := history[len(history)-1]

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Gait Scores", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Classification Scores",
			Subtitle: fmt.Sprintf("session=%s latest=%s conf=%.3f", session.ID, latest.Pattern, latest.Confidence),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, Name: "score"}),
	)
	line.SetXAxis(x).
		AddSeries("stability", stability).
		AddSeries("regularity", regularity).
		AddSeries("linearity", linearity)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render scores chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

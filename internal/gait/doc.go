// Package gait turns a stream of noisy per-frame center-of-gravity samples
// into a confidence-scored walking-pattern classification.
//
// The pipeline is: Tracker (bounded, throttled rolling buffer of samples) ->
// outlier filter (Tukey fences) -> metrics engine (dispersion, linearity,
// velocity variation) -> classifier (adaptive thresholds over weighted
// component scores). All stages degrade to well-typed sentinel outputs on
// sparse or low-confidence input; nothing in this package panics or fails
// on bad sensor data.
package gait

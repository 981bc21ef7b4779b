package domain

import "fmt"

// RatingInput models the star-rating widget interaction as an explicit
// two-state machine. The widget may preview many values while dragging, but
// the catalog only ever receives the single committed value from Release.
type RatingInput struct {
	dragging bool
	preview  float64
}

// Dragging reports whether a drag is in progress.
func (r *RatingInput) Dragging() bool {
	return r.dragging
}

// Begin starts a drag from the given value.
func (r *RatingInput) Begin(value float64) {
	r.dragging = true
	r.preview = snapRating(value)
}

// Move updates the preview value while dragging. Ignored when idle.
func (r *RatingInput) Move(value float64) {
	if !r.dragging {
		return
	}
	r.preview = snapRating(value)
}

// Preview returns the value the widget is currently showing.
func (r *RatingInput) Preview() float64 {
	return r.preview
}

// Release ends the drag and returns the committed value.
// Returns an error when no drag was in progress.
func (r *RatingInput) Release() (float64, error) {
	if !r.dragging {
		return 0, fmt.Errorf("rating input: release without drag")
	}
	r.dragging = false
	return r.preview, nil
}

// Cancel ends the drag without committing.
func (r *RatingInput) Cancel() {
	r.dragging = false
	r.preview = 0
}

// snapRating clamps to [0, 5] and rounds to the nearest half star.
func snapRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	steps := int(v*2 + 0.5)
	return float64(steps) / 2
}

package statistics_test

import (
	"errors"
	"go/token"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pouriyajamshidi/optionalize/statistics"
)

func TestDurationToString(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{
			name:     "zero",
			duration: 0,
			want:     "0 µs",
		},
		{
			name:     "microseconds",
			duration: 250 * time.Microsecond,
			want:     "250 µs",
		},
		{
			name:     "milliseconds",
			duration: 500 * time.Millisecond,
			want:     "500 ms",
		},
		{
			name:     "one second",
			duration: time.Second,
			want:     "1 second",
		},
		{
			name:     "two seconds",
			duration: 2 * time.Second,
			want:     "2 seconds",
		},
		{
			name:     "one minute",
			duration: time.Minute,
			want:     "1 minute",
		},
		{
			name:     "one minute thirty seconds",
			duration: time.Minute + 30*time.Second,
			want:     "1 minute 30 seconds",
		},
		{
			name:     "two minutes",
			duration: 2 * time.Minute,
			want:     "2 minutes 0 seconds",
		},
		{
			name:     "one hour",
			duration: time.Hour,
			want:     "1 hour",
		},
		{
			name:     "one hour thirty minutes",
			duration: time.Hour + 30*time.Minute,
			want:     "1 hour 30 minutes 0 seconds",
		},
		{
			name:     "two hours",
			duration: 2 * time.Hour,
			want:     "2 hours 0 minutes 0 seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statistics.DurationToString(tt.duration)
			if got != tt.want {
				t.Errorf("DurationToString(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestStatistics_Add(t *testing.T) {
	var s statistics.Statistics

	s.Add(statistics.Result{Record: "Widget", Generated: "WidgetOptional", Fields: 3, Wrapped: 2, PassedThrough: 1})
	s.Add(statistics.Result{Record: "Page", Generated: "PageOptional", Fields: 1, Wrapped: 1})
	s.Add(statistics.Result{Record: "Store", Err: errors.New("rejected")})

	assert.Equal(t, uint(2), s.RecordsGenerated)
	assert.Equal(t, uint(1), s.RecordsRejected)
	assert.Equal(t, uint(3), s.TotalRecords())
	assert.Equal(t, uint(3), s.FieldsWrapped)
	assert.Equal(t, uint(1), s.FieldsPassedThrough)
	assert.False(t, s.Succeeded())
	assert.Equal(t, "Store", s.Latest.Record)
	assert.Len(t, s.Results, 3)

	for _, r := range s.Results {
		assert.False(t, r.When.IsZero(), r.Record)
	}
}

func TestStatistics_AddFile(t *testing.T) {
	var s statistics.Statistics

	s.AddFile("a_optional.go")
	s.AddFile("b_optional.go")

	assert.Equal(t, uint(2), s.FilesWritten)
	assert.Equal(t, "b_optional.go", s.LatestFile)
	assert.Equal(t, []string{"a_optional.go", "b_optional.go"}, s.WrittenFiles)
	assert.True(t, s.Succeeded())
}

func TestStatistics_WrappedRatio(t *testing.T) {
	tests := []struct {
		name    string
		wrapped uint
		passed  uint
		want    float64
	}{
		{"no fields", 0, 0, 0},
		{"all wrapped", 4, 0, 100},
		{"three quarters", 3, 1, 75},
		{"none wrapped", 0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := statistics.Statistics{FieldsWrapped: tt.wrapped, FieldsPassedThrough: tt.passed}
			assert.InDelta(t, tt.want, s.WrappedRatio(), 0.001)
		})
	}
}

func TestStatistics_Duration(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)

	assert.Zero(t, (&statistics.Statistics{}).Duration())

	s := statistics.Statistics{StartTime: start, EndTime: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, s.Duration())
	assert.Equal(t, "2024-01-15 10:30:45", s.StartTimeFormatted())
	assert.Equal(t, "2024-01-15 10:30:46", s.EndTimeFormatted())

	running := statistics.Statistics{StartTime: time.Now().Add(-time.Second)}
	assert.GreaterOrEqual(t, running.Duration(), time.Second)
}

func TestResult(t *testing.T) {
	r := statistics.Result{
		Pos:    token.Position{Filename: "widget.go", Line: 7, Column: 6},
		Record: "Store",
		Err:    errors.New("rejected"),
		When:   time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
	}

	assert.True(t, r.Rejected())
	assert.Equal(t, "widget.go:7:6", r.PositionStr())
	assert.Equal(t, "rejected", r.ErrStr())
	assert.Equal(t, "2024-01-15 10:30:45", r.WhenFormatted())

	ok := statistics.Result{Pos: token.Position{Filename: "widget.go"}}
	assert.False(t, ok.Rejected())
	assert.Equal(t, "widget.go", ok.PositionStr())
	assert.Empty(t, ok.ErrStr())
}

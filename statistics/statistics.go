// Package statistics tracks what a generation run did.
package statistics

import (
	"fmt"
	"go/token"
	"math"
	"time"
)

// Result is the outcome of transforming one declaration.
type Result struct {
	Pos           token.Position
	Record        string // Record is the source declaration name.
	Generated     string // Generated is the derived record name, empty on rejection.
	Fields        int
	Wrapped       int
	PassedThrough int
	Output        string // Output is the file the record was written to.
	Err           error
	When          time.Time
}

// Rejected reports whether the declaration could not be transformed.
func (r Result) Rejected() bool {
	return r.Err != nil
}

// PositionStr renders the declaration position as file:line:column.
func (r Result) PositionStr() string {
	if !r.Pos.IsValid() {
		return r.Pos.Filename
	}

	return r.Pos.String()
}

// ErrStr returns the error message, or "" for a successful result.
func (r Result) ErrStr() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}

// WhenFormatted returns the time the result was recorded.
func (r Result) WhenFormatted() string {
	return r.When.Format(time.DateTime)
}

type Statistics struct {
	// Run information
	Inputs  []string
	Wrapper string

	// Time tracking
	StartTime time.Time
	EndTime   time.Time

	// Counters
	FilesScanned        uint
	FilesWritten        uint
	RecordsGenerated    uint
	RecordsRejected     uint
	FieldsWrapped       uint
	FieldsPassedThrough uint

	// Latest events, for printers
	Latest     Result
	LatestFile string

	Results      []Result
	WrittenFiles []string
}

// Add records a result and makes it the latest one.
func (s *Statistics) Add(r Result) {
	if r.When.IsZero() {
		r.When = time.Now()
	}

	if r.Rejected() {
		s.RecordsRejected++
	} else {
		s.RecordsGenerated++
		s.FieldsWrapped += uint(r.Wrapped)
		s.FieldsPassedThrough += uint(r.PassedThrough)
	}

	s.Latest = r
	s.Results = append(s.Results, r)
}

// AddFile records a written output file and makes it the latest one.
func (s *Statistics) AddFile(path string) {
	s.FilesWritten++
	s.LatestFile = path
	s.WrittenFiles = append(s.WrittenFiles, path)
}

// TotalRecords returns the number of declarations that were transformed or rejected.
func (s *Statistics) TotalRecords() uint {
	return s.RecordsGenerated + s.RecordsRejected
}

// Succeeded reports whether no declaration was rejected.
func (s *Statistics) Succeeded() bool {
	return s.RecordsRejected == 0
}

// WrappedRatio returns the percentage of fields that had to be wrapped.
func (s *Statistics) WrappedRatio() float64 {
	ratio := float64(s.FieldsWrapped) / float64(s.FieldsWrapped+s.FieldsPassedThrough) * 100
	if math.IsNaN(ratio) {
		return 0
	}

	return ratio
}

// Duration returns how long the run took. A run still in progress is measured until now.
func (s *Statistics) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}

	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}

	return s.EndTime.Sub(s.StartTime)
}

func (s *Statistics) StartTimeFormatted() string {
	return s.StartTime.Format(time.DateTime)
}

func (s *Statistics) EndTimeFormatted() string {
	return s.EndTime.Format(time.DateTime)
}

// DurationToString creates a human-readable string for a given duration
func DurationToString(duration time.Duration) string {
	hours := math.Floor(duration.Hours())
	if hours > 0 {
		duration -= time.Duration(hours * float64(time.Hour))
	}

	minutes := math.Floor(duration.Minutes())
	if minutes > 0 {
		duration -= time.Duration(minutes * float64(time.Minute))
	}

	seconds := duration.Seconds()

	switch {
	// Hours
	case hours >= 2:
		return fmt.Sprintf("%.0f hours %.0f minutes %.0f seconds", hours, minutes, seconds)
	case hours == 1 && minutes == 0 && seconds == 0:
		return fmt.Sprintf("%.0f hour", hours)
	case hours == 1:
		return fmt.Sprintf("%.0f hour %.0f minutes %.0f seconds", hours, minutes, seconds)

	// Minutes
	case minutes >= 2:
		return fmt.Sprintf("%.0f minutes %.0f seconds", minutes, seconds)
	case minutes == 1 && seconds == 0:
		return fmt.Sprintf("%.0f minute", minutes)
	case minutes == 1:
		return fmt.Sprintf("%.0f minute %.0f seconds", minutes, seconds)

	// Sub-second runs are the norm for a generator
	case seconds < 0.001:
		return fmt.Sprintf("%d µs", duration.Microseconds())
	case seconds < 1:
		return fmt.Sprintf("%.0f ms", seconds*1000)

	// Seconds
	case seconds == 1 || seconds >= 1 && seconds < 1.1:
		return fmt.Sprintf("%.0f second", seconds)

	default:
		return fmt.Sprintf("%.0f seconds", seconds)
	}
}

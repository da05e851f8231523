package printers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

// JSONEventType is a special type for each method
// in the printer interface so that automatic tools
// can understand what kind of an event they've received.
type JSONEventType string

const (
	startEvent      JSONEventType = "start"      // Event type for `PrintStart` method.
	recordEvent     JSONEventType = "record"     // Event type for both `PrintRecordGenerated` and `PrintRecordRejected`.
	fileEvent       JSONEventType = "file"       // Event type for `PrintFileWritten` method.
	statisticsEvent JSONEventType = "statistics" // Event type for `PrintStatistics` method.
	errorEvent      JSONEventType = "error"      // Event type for `PrintError` method.
)

// JSONData contains all possible fields for JSON output.
// Because one event usually contains only a subset of fields,
// other fields will be omitted in the output.
type JSONData struct {
	Type JSONEventType `json:"type"`
	// Success is set for record events only. It's a pointer on purpose,
	// otherwise success=false would be omitted.
	Success   *bool  `json:"success,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message"`

	Inputs        []string `json:"inputs,omitempty"`
	Wrapper       string   `json:"wrapper,omitempty"`
	Position      string   `json:"position,omitempty"`
	Record        string   `json:"record,omitempty"`
	Generated     string   `json:"generated,omitempty"`
	Fields        *int     `json:"fields,omitempty"`
	Wrapped       *int     `json:"wrapped,omitempty"`
	PassedThrough *int     `json:"passedThrough,omitempty"`
	Error         string   `json:"error,omitempty"`
	File          string   `json:"file,omitempty"`

	StartTimestamp      string  `json:"startTimestamp,omitempty"`
	EndTimestamp        string  `json:"endTimestamp,omitempty"`
	TotalDuration       string  `json:"totalDuration,omitempty"`
	FilesScanned        uint    `json:"filesScanned,omitempty"`
	FilesWritten        uint    `json:"filesWritten,omitempty"`
	RecordsGenerated    uint    `json:"recordsGenerated,omitempty"`
	RecordsRejected     uint    `json:"recordsRejected,omitempty"`
	FieldsWrapped       uint    `json:"fieldsWrapped,omitempty"`
	FieldsPassedThrough uint    `json:"fieldsPassedThrough,omitempty"`
	WrappedRatio        float64 `json:"wrappedRatio,omitempty"`
}

// JSONPrinter is a struct that holds a JSON encoder to print structured JSON output.
type JSONPrinter struct {
	encoder *json.Encoder
	pretty  bool
	opt     options
}

type JSONPrinterOption = option.Option[JSONPrinter]

func (p *JSONPrinter) options() *options {
	return &p.opt
}

// WithPrettyJSON enables indented output.
func WithPrettyJSON() JSONPrinterOption {
	return func(p *JSONPrinter) {
		p.pretty = true
	}
}

// NewJSONPrinter creates a new JSONPrinter instance.
func NewJSONPrinter(opts ...JSONPrinterOption) *JSONPrinter {
	p := &JSONPrinter{}
	option.Apply(p, opts...)

	p.encoder = json.NewEncoder(p.opt.writer())
	if p.pretty {
		p.encoder.SetIndent("", "\t")
	}

	return p
}

func (p *JSONPrinter) encode(data JSONData) {
	if p.opt.ShowTimestamp && data.Timestamp == "" {
		data.Timestamp = time.Now().Format(time.DateTime)
	}

	// there is no better place to report an encoding failure than the same stream
	_ = p.encoder.Encode(data)
}

// Shutdown does nothing: every event is written as it happens.
func (p *JSONPrinter) Shutdown(_ *statistics.Statistics) {}

// PrintStart prints the initial message before generating.
func (p *JSONPrinter) PrintStart(s *statistics.Statistics) {
	p.encode(JSONData{
		Type:    startEvent,
		Message: fmt.Sprintf("Generating optional records using %s wrapper", s.Wrapper),
		Inputs:  s.Inputs,
		Wrapper: s.Wrapper,
	})
}

// PrintRecordGenerated prints the latest generated record.
func (p *JSONPrinter) PrintRecordGenerated(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	r := s.Latest
	success := true

	data := JSONData{
		Type:          recordEvent,
		Success:       &success,
		Message:       generatedMessage(r, options{}),
		Record:        r.Record,
		Generated:     r.Generated,
		Fields:        &r.Fields,
		Wrapped:       &r.Wrapped,
		PassedThrough: &r.PassedThrough,
		File:          r.Output,
	}

	if p.opt.ShowTimestamp {
		data.Timestamp = r.WhenFormatted()
	}

	if p.opt.ShowPosition {
		data.Position = r.PositionStr()
	}

	p.encode(data)
}

// PrintRecordRejected prints the latest rejected declaration.
func (p *JSONPrinter) PrintRecordRejected(s *statistics.Statistics) {
	r := s.Latest
	success := false

	data := JSONData{
		Type:     recordEvent,
		Success:  &success,
		Message:  rejectedMessage(r, options{}),
		Record:   r.Record,
		Error:    r.ErrStr(),
		Position: r.PositionStr(),
	}

	if p.opt.ShowTimestamp {
		data.Timestamp = r.WhenFormatted()
	}

	p.encode(data)
}

// PrintFileWritten prints the latest written file.
func (p *JSONPrinter) PrintFileWritten(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	p.encode(JSONData{
		Type:    fileEvent,
		Message: fmt.Sprintf("Wrote %s", s.LatestFile),
		File:    s.LatestFile,
	})
}

// PrintStatistics prints all gathered stats of the run.
func (p *JSONPrinter) PrintStatistics(s *statistics.Statistics) {
	data := JSONData{
		Type: statisticsEvent,
		Message: fmt.Sprintf("%d records generated | %d rejected | %d files written",
			s.RecordsGenerated,
			s.RecordsRejected,
			s.FilesWritten),
		Inputs:              s.Inputs,
		Wrapper:             s.Wrapper,
		TotalDuration:       s.Duration().String(),
		FilesScanned:        s.FilesScanned,
		FilesWritten:        s.FilesWritten,
		RecordsGenerated:    s.RecordsGenerated,
		RecordsRejected:     s.RecordsRejected,
		FieldsWrapped:       s.FieldsWrapped,
		FieldsPassedThrough: s.FieldsPassedThrough,
		WrappedRatio:        s.WrappedRatio(),
	}

	if !s.StartTime.IsZero() {
		data.StartTimestamp = s.StartTimeFormatted()
	}

	if !s.EndTime.IsZero() {
		data.EndTimestamp = s.EndTimeFormatted()
	}

	p.encode(data)
}

// PrintError formats and prints an error message in JSON format.
func (p *JSONPrinter) PrintError(format string, args ...any) {
	p.encode(JSONData{
		Type:    errorEvent,
		Message: fmt.Sprintf(format, args...),
	})
}

package diagnostics

import "github.com/rs/zerolog"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Level maps a severity onto a zerolog level.
func (s Severity) Level() zerolog.Level {
	switch s {
	case Warn:
		return zerolog.WarnLevel
	case Err:
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// Log writes each diagnostic as one structured event.
func Log(l zerolog.Logger, ds []Diagnostic) {
	for _, d := range ds {
		ev := l.WithLevel(d.Severity.Level()).Str("code", d.Code)
		if d.Detail != "" {
			ev = ev.Str("detail", d.Detail)
		}
		if len(d.Evidence) > 0 {
			ev = ev.Fields(d.Evidence)
		}
		ev.Msg(d.Summary)
	}
}

// Worst returns the highest severity in ds, or "" when ds is empty.
func Worst(ds []Diagnostic) Severity {
	var w Severity
	rank := map[Severity]int{"": 0, Info: 1, Warn: 2, Err: 3}
	for _, d := range ds {
		if rank[d.Severity] > rank[w] {
			w = d.Severity
		}
	}
	return w
}

package trace

// TraceLevel controls the verbosity of search tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelImprovements keeps only attempts that replaced the incumbent.
	TraceLevelImprovements TraceLevel = "improvements"
	// TraceLevelAttempts captures every attempt.
	TraceLevelAttempts TraceLevel = "attempts"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:         true,
	TraceLevelImprovements: true,
	TraceLevelAttempts:     true,
	"":                     true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SearchTrace collects attempt records during a selection run.
type SearchTrace struct {
	Level    TraceLevel      `yaml:"level"`
	Attempts []AttemptRecord `yaml:"attempts"`
}

// NewSearchTrace creates a SearchTrace ready for recording.
func NewSearchTrace(level TraceLevel) *SearchTrace {
	return &SearchTrace{
		Level:    level,
		Attempts: make([]AttemptRecord, 0),
	}
}

// RecordAttempt appends an attempt record, filtered by the trace level.
// Safe to call on a nil trace.
func (st *SearchTrace) RecordAttempt(record AttemptRecord) {
	if st == nil {
		return
	}
	switch st.Level {
	case TraceLevelAttempts:
		st.Attempts = append(st.Attempts, record)
	case TraceLevelImprovements:
		if record.Improved {
			st.Attempts = append(st.Attempts, record)
		}
	}
}

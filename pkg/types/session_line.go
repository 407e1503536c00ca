package types

// LineKind classifies a transcript line by its origin.
type LineKind string

const (
	LineCommand LineKind = "command" // a command the user issued
	LineOutput  LineKind = "output"  // normal output produced by a command
	LineError   LineKind = "error"   // error output produced by a command
	LineSystem  LineKind = "system"  // a marker emitted by the subsystem itself
)

// SessionLine is a single line of the session transcript. Lines are
// immutable once appended; the transcript only ever evicts whole lines.
type SessionLine struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
	Dir  string   `json:"dir,omitempty"` // working directory the line originated from, if known
}

package diag

// Severity ranks a diagnostic. Lint rules report warnings; errors mean the
// file itself could not be analysed.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the upper-case form used by pretty and JSON output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form of the short one-line format; unknown
// values read as "info".
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

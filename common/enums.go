// Enums which are shared between the configuration layer and the rest of
// the program live here, so that config does not have to import domain
// packages to parse its own file.
package common

// Navigation action a key binding can trigger.
// ENUM(nextStep, previousStep, nextSlide, previousSlide, start, end, blank)
type Action int

// Form of the export destination.
// ENUM(dir, zip)
type ExportFmt int

func (e ExportFmt) Ext() string {
	switch e {
	case ExportFmtDir:
		return ""
	case ExportFmtZip:
		return ".zip"
	default:
		// this should never happen
		panic("unsupported export format requested")
	}
}

// Severity of a lint finding.
// ENUM(hint, warning, error)
type Severity int

// Fails reports whether a finding of this severity fails the lint run.
func (s Severity) Fails() bool {
	return s == SeverityError
}

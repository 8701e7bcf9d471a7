package catalog

import (
	"fmt"
	"time"
)

// Severity classifies a load diagnostic.
type Severity string

const (
	// SeverityWarn marks an anomaly that was tolerated (a skipped file,
	// a dropped alias, a duplicate key).
	SeverityWarn Severity = "warn"

	// SeverityError marks a source that contributed nothing to the build.
	SeverityError Severity = "error"
)

// Kind identifies the category of a load diagnostic.
type Kind string

const (
	// KindSourceRead is a file or source location that was unreadable or
	// malformed and therefore excluded from the build.
	KindSourceRead Kind = "source_read"

	// KindDuplicateKey is a key defined by more than one source; the
	// later-loaded source won.
	KindDuplicateKey Kind = "duplicate_key"

	// KindAliasConflict is an alias registered for two different target
	// keys; the first registration won.
	KindAliasConflict Kind = "alias_conflict"

	// KindDanglingAlias is an alias whose target key is absent from the
	// catalog; the alias was dropped.
	KindDanglingAlias Kind = "dangling_alias"

	// KindUnknownBlock is a content block with an unrecognized type tag;
	// the block was skipped.
	KindUnknownBlock Kind = "unknown_block"

	// KindSourceFailed is a configured source that contributed nothing.
	KindSourceFailed Kind = "source_failed"
)

// Diagnostic records one load-time anomaly. Diagnostics are collected and
// returned alongside a best-effort catalog; they never abort a load.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Source   string
	Message  string
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	if d.Source != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Source, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
}

// Warnf creates a warning diagnostic of the given kind.
func Warnf(kind Kind, source, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarn,
		Kind:     kind,
		Source:   source,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Errorf creates an error diagnostic of the given kind.
func Errorf(kind Kind, source, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Source:   source,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Report summarizes one load/reload cycle: counts of entries loaded, files
// skipped, and aliases dropped, plus the individual anomaly records.
type Report struct {
	Entries        int
	Aliases        int
	SkippedFiles   int
	DroppedAliases int
	DuplicateKeys  int
	FailedSources  int
	Duration       time.Duration
	Diagnostics    []Diagnostic
}

// Add appends diagnostics to the report and updates the counters.
func (r *Report) Add(diags ...Diagnostic) {
	for _, d := range diags {
		r.Diagnostics = append(r.Diagnostics, d)
		switch d.Kind {
		case KindSourceRead:
			r.SkippedFiles++
		case KindDanglingAlias:
			r.DroppedAliases++
		case KindDuplicateKey:
			r.DuplicateKeys++
		case KindSourceFailed:
			r.FailedSources++
		}
	}
}

// Clean reports whether the load completed without any diagnostics.
func (r *Report) Clean() bool {
	return len(r.Diagnostics) == 0
}

// String implements fmt.Stringer.
func (r *Report) String() string {
	return fmt.Sprintf("%d entries, %d aliases, %d files skipped, %d aliases dropped, %d duplicate keys (%s)",
		r.Entries, r.Aliases, r.SkippedFiles, r.DroppedAliases, r.DuplicateKeys, r.Duration.Round(time.Millisecond))
}

// Package report provides shared severity-tagged issue types used by the
// validation rules, the sensor mounter and the document inspector.
package report

import "fmt"

// Severity classifies how serious a validation issue is.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a single finding against a robot model. Field names the
// offending configuration field where one can be identified.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Field, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

// Infof builds an info-severity issue.
func Infof(field, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityInfo, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a warning-severity issue.
func Warningf(field, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityWarning, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error-severity issue.
func Errorf(field, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityError, Field: field, Message: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any issue in the list is error severity.
// Warnings accompany output; errors block it.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues at the given severity.
func Count(issues []Issue, sev Severity) int {
	n := 0
	for _, i := range issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

package terminology

import (
	"testing"
)

func TestAcquireResult_StartsValid(t *testing.T) {
	r := AcquireResult()
	defer r.Release()

	if !r.Valid {
		t.Error("AcquireResult() should start valid")
	}
	if len(r.Issues) != 0 {
		t.Errorf("AcquireResult() should start with no issues, got %d", len(r.Issues))
	}
}

func TestResult_AddIssue_MarksInvalidOnError(t *testing.T) {
	r := NewResult()
	r.AddIssue(Issue{Severity: SeverityWarning, Code: IssueTypeBusinessRule})
	if !r.Valid {
		t.Error("a warning should not invalidate the result")
	}

	r.AddIssue(Issue{Severity: SeverityError, Code: IssueTypeNotFound})
	if r.Valid {
		t.Error("an error issue should invalidate the result")
	}
	if len(r.Issues) != 2 {
		t.Errorf("Issues length = %d; want 2", len(r.Issues))
	}
}

func TestResult_AddIssues(t *testing.T) {
	r := NewResult()
	r.AddIssues([]Issue{
		{Severity: SeverityInformation},
		{Severity: SeverityError, Code: IssueTypeTooCostly},
	})
	if r.Valid {
		t.Error("Valid should be false after an error issue")
	}
	if len(r.Issues) != 2 {
		t.Errorf("Issues length = %d; want 2", len(r.Issues))
	}
}

func TestResult_AddError_AddWarning(t *testing.T) {
	r := NewResult()
	r.AddError(IssueTypeNotFound, "unknown system", "UNKNOWN_CODESYSTEM_EXP")
	r.AddWarning(IssueTypeBusinessRule, "deprecated code")

	if r.Valid {
		t.Error("Valid should be false after AddError")
	}
	if !r.HasErrors() {
		t.Error("HasErrors() should be true")
	}
	if !r.HasWarnings() {
		t.Error("HasWarnings() should be true")
	}
	if r.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d; want 1", r.ErrorCount())
	}
}

func TestResult_Errors_Warnings(t *testing.T) {
	r := NewResult()
	r.AddIssue(Issue{Severity: SeverityError, Diagnostics: "e1"})
	r.AddIssue(Issue{Severity: SeverityWarning, Diagnostics: "w1"})
	r.AddIssue(Issue{Severity: SeverityFatal, Diagnostics: "e2"})

	errs := r.Errors()
	if len(errs) != 2 {
		t.Errorf("Errors() length = %d; want 2", len(errs))
	}
	warns := r.Warnings()
	if len(warns) != 1 {
		t.Errorf("Warnings() length = %d; want 1", len(warns))
	}
}

func TestResult_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		issues []Issue
		want   int
	}{
		{name: "no issues", want: 200},
		{name: "warning only", issues: []Issue{{Severity: SeverityWarning}}, want: 200},
		{name: "not found", issues: []Issue{{Severity: SeverityError, Code: IssueTypeNotFound}}, want: 404},
		{
			name: "not found wins over processing",
			issues: []Issue{
				{Severity: SeverityError, Code: IssueTypeProcessing},
				{Severity: SeverityError, Code: IssueTypeNotFound},
			},
			want: 404,
		},
	}

	for _, tt := range tests {
		r := NewResult()
		r.AddIssues(tt.issues)
		if got := r.HTTPStatus(); got != tt.want {
			t.Errorf("%s: HTTPStatus() = %d; want %d", tt.name, got, tt.want)
		}
	}
}

func TestResult_Merge(t *testing.T) {
	a := NewResult()
	a.AddError(IssueTypeNotFound, "a", "")

	b := NewResult()
	b.AddWarning(IssueTypeBusinessRule, "b")

	a.Merge(b)
	if len(a.Issues) != 2 {
		t.Errorf("Issues length after Merge = %d; want 2", len(a.Issues))
	}
}

func TestResult_Clone(t *testing.T) {
	a := NewResult()
	a.AddError(IssueTypeNotFound, "x", "")
	a.Operation = "lookup"
	a.SystemURLs = []string{"http://loinc.org"}

	clone := a.Clone()
	clone.Issues[0].Diagnostics = "mutated"

	if a.Issues[0].Diagnostics == "mutated" {
		t.Error("Clone() should deep-copy Issues")
	}
	if clone.Operation != "lookup" {
		t.Errorf("Clone().Operation = %q; want lookup", clone.Operation)
	}
}

func TestResult_Reset(t *testing.T) {
	r := NewResult()
	r.AddError(IssueTypeNotFound, "x", "")
	r.JobID = "job-1"
	r.Operation = "lookup"

	r.Reset()
	if !r.Valid || len(r.Issues) != 0 || r.JobID != "" || r.Operation != "" {
		t.Error("Reset() should clear all fields")
	}
}

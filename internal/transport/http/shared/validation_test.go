package shared

import (
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Enum("status", "bogus", []string{"Draft", "Submitted"}, "unknown status")
	v.IntRange("month", 13, 1, 12, "must be between 1 and 12")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3", len(issues))
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("from", "2025-01-06")
	if !ok || parsed.IsZero() {
		t.Fatal("expected valid date")
	}
	if _, ok := v.Date("to", "06/01/2025"); ok {
		t.Error("expected invalid date to fail")
	}
	if !v.HasIssues() {
		t.Error("expected an issue for the invalid date")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start, _ := v.Date("start", "2025-02-10")
	end, _ := v.Date("end", "2025-02-01")
	v.DateOrder("start", start, "end", end)
	if !v.HasIssues() {
		t.Fatal("expected reversed range to be flagged")
	}
}

func TestValidatorRejectWritesValidationError(t *testing.T) {
	v := NewValidator()
	v.Add("field", "bad")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected rejection")
	}
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	clean := NewValidator()
	rec = httptest.NewRecorder()
	if clean.Reject(rec, "req-1") {
		t.Error("clean validator should not reject")
	}
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&perPage=25", nil)
	p := ParsePagination(r, 50, 200)
	if p.Page != 3 || p.PerPage != 25 {
		t.Errorf("got %+v", p)
	}

	r = httptest.NewRequest("GET", "/?perPage=9999", nil)
	p = ParsePagination(r, 50, 200)
	if p.PerPage != 200 {
		t.Errorf("perPage = %d, want capped at 200", p.PerPage)
	}

	r = httptest.NewRequest("GET", "/", nil)
	p = ParsePagination(r, 50, 200)
	if p.Page != 1 || p.PerPage != 50 {
		t.Errorf("defaults: got %+v", p)
	}
}

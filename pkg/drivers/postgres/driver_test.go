package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsTransient(t *testing.T) {
	d := &Driver{}

	if !d.IsTransient(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"}) {
		t.Error("deadlock_detected (40P01) must be transient")
	}
	if !d.IsTransient(&pgconn.PgError{Code: "40001", Message: "serialization failure"}) {
		t.Error("serialization_failure (40001) must be transient")
	}
	if d.IsTransient(&pgconn.PgError{Code: "23505", Message: "duplicate key"}) {
		t.Error("unique_violation (23505) must not be transient")
	}

	wrapped := fmt.Errorf("exec failed: %w", &pgconn.PgError{Code: "40P01"})
	if !d.IsTransient(wrapped) {
		t.Error("Wrapped deadlock must stay transient")
	}
}

func TestDialect(t *testing.T) {
	d := &Driver{}
	if d.Placeholder("Id", 3) != "$3" {
		t.Errorf("Unexpected placeholder: %s", d.Placeholder("Id", 3))
	}
	if d.QuoteIdentifier("users") != `"users"` {
		t.Errorf("Unexpected quoting: %s", d.QuoteIdentifier("users"))
	}
}

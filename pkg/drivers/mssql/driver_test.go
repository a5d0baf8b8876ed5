package mssql

import (
	"fmt"
	"testing"

	gomssql "github.com/denisenkom/go-mssqldb"
)

func TestIsTransient(t *testing.T) {
	d := &Driver{}

	if !d.IsTransient(gomssql.Error{Number: 1205, Message: "deadlock victim"}) {
		t.Error("Deadlock victim (1205) must be transient")
	}
	if d.IsTransient(gomssql.Error{Number: 2627, Message: "unique constraint"}) {
		t.Error("Constraint violation (2627) must not be transient")
	}

	wrapped := fmt.Errorf("exec failed: %w", gomssql.Error{Number: 1205})
	if !d.IsTransient(wrapped) {
		t.Error("Wrapped deadlock must stay transient")
	}
}

func TestDialect(t *testing.T) {
	d := &Driver{}
	if d.Placeholder("Id", 3) != "@Id" {
		t.Errorf("Unexpected placeholder: %s", d.Placeholder("Id", 3))
	}
	if d.QuoteIdentifier("users") != "[users]" {
		t.Errorf("Unexpected quoting: %s", d.QuoteIdentifier("users"))
	}
	if !d.BindsByName() {
		t.Error("MS SQL must bind parameters by name")
	}
	if got := d.ProcCall("DoWork", []string{"@A"}); got != "EXEC DoWork @A = @A" {
		t.Errorf("Unexpected proc call syntax: %s", got)
	}
}

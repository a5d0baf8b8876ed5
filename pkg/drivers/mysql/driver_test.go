package mysql

import (
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
)

func TestIsTransient(t *testing.T) {
	d := &Driver{}

	if !d.IsTransient(&gomysql.MySQLError{Number: 1213, Message: "Deadlock found"}) {
		t.Error("Deadlock (1213) must be transient")
	}
	if !d.IsTransient(&gomysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}) {
		t.Error("Lock wait timeout (1205) must be transient")
	}
	if d.IsTransient(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}) {
		t.Error("Duplicate entry (1062) must not be transient")
	}

	// Классификация работает через цепочку обернутых ошибок
	wrapped := fmt.Errorf("exec failed: %w", &gomysql.MySQLError{Number: 1213})
	if !d.IsTransient(wrapped) {
		t.Error("Wrapped deadlock must stay transient")
	}
}

func TestDialect(t *testing.T) {
	d := &Driver{}
	if d.Placeholder("Id", 3) != "?" {
		t.Errorf("Unexpected placeholder: %s", d.Placeholder("Id", 3))
	}
	if d.QuoteIdentifier("users") != "`users`" {
		t.Errorf("Unexpected quoting: %s", d.QuoteIdentifier("users"))
	}
}

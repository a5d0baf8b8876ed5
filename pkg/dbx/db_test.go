package dbx_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ruslano69/sqlgate/pkg/bag"
	"github.com/ruslano69/sqlgate/pkg/dbx"
	"github.com/ruslano69/sqlgate/pkg/sqlgen"

	sqlitedrv "github.com/ruslano69/sqlgate/pkg/drivers/sqlite"
)

func openTestDB(t *testing.T) *dbx.DB {
	t.Helper()
	db, err := dbx.New(&sqlitedrv.Driver{}, ":memory:", dbx.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create handle: %v", err)
	}
	return db
}

func mustExec(t *testing.T, db *dbx.DB, text string) {
	t.Helper()
	if _, err := db.Exec(context.Background(), dbx.NewCommand(text)); err != nil {
		t.Fatalf("Exec %q failed: %v", text, err)
	}
}

func seedUsers(t *testing.T, db *dbx.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)`)

	d := db.Driver()
	rows := []*bag.Bag{
		bag.New().Add("id", 1).Add("name", "alice").Add("age", 30),
		bag.New().Add("id", 2).Add("name", "bob").Add("age", 40),
		bag.New().Add("id", 3).Add("name", "carol").Add("age", nil),
	}
	for _, b := range rows {
		cmd, err := sqlgen.Insert(d, "users", b)
		if err != nil {
			t.Fatalf("Insert build failed: %v", err)
		}
		if _, err := db.Exec(context.Background(), cmd); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
}

func TestDB_CloseIsTerminalAndIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Повторный Close безопасен
	if err := db.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}

	// Доступ после Close - детерминированная ошибка, не переподключение
	if _, err := db.Conn(ctx); !errors.Is(err, dbx.ErrClosed) {
		t.Errorf("Expected ErrClosed, got: %v", err)
	}
	if _, err := db.Exec(ctx, dbx.NewCommand("SELECT 1")); !errors.Is(err, dbx.ErrClosed) {
		t.Errorf("Expected ErrClosed from Exec, got: %v", err)
	}
}

func TestDB_ResetConnection(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := db.ResetConnection(); err != nil {
		t.Fatalf("ResetConnection failed: %v", err)
	}
	// Следующее обращение открывает новое соединение
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping after reset failed: %v", err)
	}
}

func TestDB_ResetConnectionDuringTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Close()

	if err := db.ResetConnection(); !errors.Is(err, dbx.ErrTxActive) {
		t.Errorf("Expected ErrTxActive, got: %v", err)
	}
}

func TestTx_SingleActivePerHandle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	// Вторая конкурентная транзакция запрещена
	if _, err := db.Begin(ctx); !errors.Is(err, dbx.ErrTxActive) {
		t.Errorf("Expected ErrTxActive, got: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// После завершения можно открыть новую
	tx2, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin after commit failed: %v", err)
	}
	tx2.Close()
}

func TestTx_CommitAndRollbackAreTerminal(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if tx.State() != dbx.TxCommitted {
		t.Errorf("Expected TxCommitted, got %v", tx.State())
	}
	if err := tx.Commit(ctx); !errors.Is(err, dbx.ErrTxFinished) {
		t.Errorf("Second commit: expected ErrTxFinished, got: %v", err)
	}
	if err := tx.Rollback(ctx); !errors.Is(err, dbx.ErrTxFinished) {
		t.Errorf("Rollback after commit: expected ErrTxFinished, got: %v", err)
	}
	// Close завершенной транзакции - no-op
	if err := tx.Close(); err != nil {
		t.Errorf("Close after commit failed: %v", err)
	}
}

func TestTx_ImplicitEnlistmentAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	mustExec(t, db, `CREATE TABLE t (id INTEGER)`)

	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	// Команда без явного runner'а неявно попадает в транзакцию
	if _, err := db.Exec(ctx, dbx.NewCommand(`INSERT INTO t (id) VALUES (1)`)); err != nil {
		t.Fatalf("Insert in tx failed: %v", err)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	// Откат отменил вставку
	n, err := db.ScalarInt64(ctx, dbx.NewCommand(`SELECT COUNT(*) FROM t`), -1)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 rows after rollback, got %d", n)
	}
}

func TestTx_ScopedCloseRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	mustExec(t, db, `CREATE TABLE t (id INTEGER)`)

	func() {
		tx, err := db.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		defer tx.Close() // без Commit - откат на выходе из scope

		if _, err := db.Exec(ctx, dbx.NewCommand(`INSERT INTO t (id) VALUES (1)`)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}()

	n, err := db.ScalarInt64(ctx, dbx.NewCommand(`SELECT COUNT(*) FROM t`), -1)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rollback via Close, got %d rows", n)
	}
}

func TestExec_AffectedRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	cmd, err := sqlgen.Update(db.Driver(), "users",
		bag.New().Add("age", 50), bag.New().Add("name", "bob"))
	if err != nil {
		t.Fatalf("Update build failed: %v", err)
	}

	affected, err := db.Exec(ctx, cmd)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 affected row, got %d", affected)
	}
}

func TestExec_CommandDetachedAfterRun(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()

	cmd := dbx.NewCommand("SELECT 1")
	if _, err := db.Exec(ctx, cmd); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	// Назначенное конвейером соединение отвязано
	if cmd.Runner != nil {
		t.Error("Pipeline-assigned runner must be detached after execution")
	}
}

func TestScalar_DefaultSubstitution(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	// Пустой результат - default
	v, err := db.Scalar(ctx, dbx.NewCommand(`SELECT age FROM users WHERE id = 99`), "absent")
	if err != nil {
		t.Fatalf("Scalar failed: %v", err)
	}
	if v != "absent" {
		t.Errorf("Expected default for empty result, got %v", v)
	}

	// NULL значение - default
	n, err := db.ScalarInt64(ctx, dbx.NewCommand(`SELECT age FROM users WHERE id = 3`), -1)
	if err != nil {
		t.Fatalf("ScalarInt64 failed: %v", err)
	}
	if n != -1 {
		t.Errorf("Expected default for NULL, got %d", n)
	}

	// Обычное значение
	n, err = db.ScalarInt64(ctx, dbx.NewCommand(`SELECT age FROM users WHERE id = 1`), -1)
	if err != nil {
		t.Fatalf("ScalarInt64 failed: %v", err)
	}
	if n != 30 {
		t.Errorf("Expected 30, got %d", n)
	}
}

func TestStream_EarlyExit(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	defer db.Close()
	seedUsers(t, db)

	handled := 0
	err := db.Stream(ctx, dbx.NewCommand(`SELECT id FROM users ORDER BY id`),
		func(rows *sql.Rows) (bool, error) {
			handled++
			return false, nil // стоп после первой строки
		})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if handled != 1 {
		t.Errorf("Expected handler called once, got %d", handled)
	}
}

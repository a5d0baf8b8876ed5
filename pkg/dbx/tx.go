package dbx

import (
	"context"
	"fmt"
)

// TxState - состояние транзакции
type TxState int

const (
	// TxActive - транзакция открыта
	TxActive TxState = iota
	// TxCommitted - транзакция зафиксирована (терминальное состояние)
	TxCommitted
	// TxRolledBack - транзакция откачена (терминальное состояние)
	TxRolledBack
)

// Tx - координатор транзакции handle.
// На один handle допустима максимум одна активная транзакция.
// Пока транзакция активна, все команды конвейера неявно выполняются
// в ней (если команде не назначен явный Runner).
//
// Рекомендуемый шаблон - scoped acquisition:
//
//	tx, err := db.Begin(ctx)
//	if err != nil { return err }
//	defer tx.Close() // откат, если не было явного Commit
//	...
//	return tx.Commit(ctx)
type Tx struct {
	db    *DB
	sqltx txHandle
	state TxState
}

// txHandle - минимальный срез *sql.Tx, используемый координатором
type txHandle interface {
	Runner
	Commit() error
	Rollback() error
}

// Begin открывает транзакцию на соединении handle. Соединение
// открывается, если еще не открыто. Возвращает ErrTxActive, если
// транзакция уже активна.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	if d.tx != nil && d.tx.Active() {
		return nil, ErrTxActive
	}

	conn, err := d.connLocked(ctx)
	if err != nil {
		return nil, err
	}
	sqltx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	t := &Tx{db: d, sqltx: sqltx, state: TxActive}
	d.tx = t
	return t, nil
}

// State возвращает состояние транзакции
func (t *Tx) State() TxState {
	return t.state
}

// Active проверяет открыта ли транзакция
func (t *Tx) Active() bool {
	return t.state == TxActive
}

// Runner возвращает исполнителя транзакции для явного назначения
// команде (Command.Runner)
func (t *Tx) Runner() Runner {
	return t.sqltx
}

// Commit фиксирует транзакцию и снимает ее с handle
func (t *Tx) Commit(ctx context.Context) error {
	if !t.Active() {
		return ErrTxFinished
	}
	err := t.sqltx.Commit()
	t.state = TxCommitted
	t.detach()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback откатывает транзакцию и снимает ее с handle
func (t *Tx) Rollback(ctx context.Context) error {
	if !t.Active() {
		return ErrTxFinished
	}
	return t.rollbackLocked()
}

// rollbackLocked выполняет откат без проверки состояния
func (t *Tx) rollbackLocked() error {
	err := t.sqltx.Rollback()
	t.state = TxRolledBack
	t.detach()
	if err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Close откатывает транзакцию, если она не была явно завершена.
// Для завершенной транзакции ничего не делает, поэтому безопасен
// в defer на любом пути выхода.
func (t *Tx) Close() error {
	if !t.Active() {
		return nil
	}
	return t.rollbackLocked()
}

// detach снимает ссылку на транзакцию с handle
func (t *Tx) detach() {
	if t.db != nil && t.db.tx == t {
		t.db.tx = nil
	}
}

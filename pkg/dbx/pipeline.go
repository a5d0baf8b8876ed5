package dbx

import (
	"context"
	"fmt"
)

// isTxRunner определяет является ли runner транзакцией.
// *sql.Tx (и любой транзакционный runner) имеет Commit/Rollback.
func isTxRunner(r Runner) bool {
	type txLike interface {
		Commit() error
		Rollback() error
	}
	_, ok := r.(txLike)
	return ok
}

// Action - драйверная часть выполнения команды (exec / scalar / reader).
// Конвейер вызывает ее с уже назначенным runner'ом.
type Action func(r Runner) error

// ExecuteCommand - единая точка, через которую проходят все операции
// handle. Контракт:
//
//  1. Если команде не назначен Runner, назначается активная транзакция
//     handle, а при ее отсутствии - соединение handle.
//  2. Выполняется action.
//  3. Временная ошибка (deadlock и т.п. по классификации драйвера)
//     повторяется до настроенного количества повторов, но ТОЛЬКО вне
//     транзакции: повтор частично примененного транзакционного
//     выражения небезопасен, вызывающий код должен повторять всю
//     транзакцию целиком.
//  4. Любая другая ошибка возвращается без изменений.
//  5. Назначенный конвейером Runner отвязывается от команды на любом
//     пути выхода, чтобы переиспользованная команда не утащила
//     устаревшее соединение/транзакцию в следующий вызов.
func (d *DB) ExecuteCommand(ctx context.Context, cmd *Command, action Action) error {
	if cmd == nil {
		return fmt.Errorf("%w: command is nil", ErrInvalidArgument)
	}

	inTx := false
	if cmd.Runner == nil {
		// Шаг 1: привязываем команду к handle
		if d.tx != nil && d.tx.Active() {
			cmd.Runner = d.tx.sqltx
			inTx = true
		} else {
			conn, err := d.Conn(ctx)
			if err != nil {
				return err
			}
			cmd.Runner = conn
		}
		// Шаг 5: отвязка на любом пути выхода
		defer func() { cmd.Runner = nil }()
	} else if isTxRunner(cmd.Runner) {
		// Явно назначенная транзакция: retry запрещен
		inTx = true
	}

	retries := d.retryAttempts()
	if inTx {
		retries = 0
	}

	attempt := 0
	for {
		attempt++
		cmd.Attempts = attempt

		err := action(cmd.Runner)
		if err == nil {
			return nil
		}

		if !d.driver.IsTransient(err) {
			return err
		}
		if attempt > retries {
			if retries > 0 {
				return fmt.Errorf("transient error persisted after %d attempts: %w", attempt, err)
			}
			return err
		}
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}

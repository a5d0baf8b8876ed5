package dbx

import "errors"

// Ошибки структурного неправильного использования handle.
// Все они фатальны и никогда не повторяются конвейером.
var (
	// ErrClosed - обращение к handle после Close.
	// Строка подключения очищена, переподключение невозможно.
	ErrClosed = errors.New("database handle is closed")

	// ErrTxActive - операция недопустима пока активна транзакция
	// (например ResetConnection или повторный Begin)
	ErrTxActive = errors.New("transaction is already active")

	// ErrTxFinished - commit/rollback уже завершенной транзакции
	ErrTxFinished = errors.New("transaction is already finished")

	// ErrInvalidArgument - пустой или nil обязательный аргумент
	ErrInvalidArgument = errors.New("invalid argument")
)

// Package audit - журнал операций фасада доступа к БД.
// Записи рассылаются в appender'ы: файл, таблицу БД или Redis.
package audit

import (
	"encoding/json"
	"time"
)

// Operation - тип операции фасада
type Operation string

const (
	OpExec     Operation = "exec"
	OpQuery    Operation = "query"
	OpScalar   Operation = "scalar"
	OpInsert   Operation = "insert"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
	OpProc     Operation = "proc"
	OpBegin    Operation = "begin"
	OpCommit   Operation = "commit"
	OpRollback Operation = "rollback"
	OpConnect  Operation = "connect"
)

// Status - статус выполнения операции
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry - запись журнала
type Entry struct {
	// Timestamp - время операции
	Timestamp time.Time `json:"timestamp"`

	// Operation - тип операции
	Operation Operation `json:"operation"`

	// Status - статус выполнения
	Status Status `json:"status"`

	// Table - таблица или процедура (если применимо)
	Table string `json:"table,omitempty"`

	// Duration - длительность операции
	Duration time.Duration `json:"duration_ns"`

	// Rows - количество затронутых/прочитанных строк
	Rows int64 `json:"rows"`

	// Attempts - количество попыток выполнения (больше 1 при retry)
	Attempts int `json:"attempts,omitempty"`

	// Error - текст ошибки при неуспехе
	Error string `json:"error,omitempty"`
}

// NewEntry создает запись для операции
func NewEntry(op Operation, table string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Operation: op,
		Status:    StatusSuccess,
		Table:     table,
	}
}

// Fail помечает запись неуспешной
func (e *Entry) Fail(err error) *Entry {
	e.Status = StatusFailure
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// ToJSON сериализует запись в JSON
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

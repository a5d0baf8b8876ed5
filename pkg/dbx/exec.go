package dbx

import (
	"context"
	"database/sql"
	"time"
)

// RowHandler - обработчик одной строки результата.
// Возвращаемый флаг управляет продолжением чтения: false немедленно
// останавливает итерацию (остальные строки не читаются).
type RowHandler func(rows *sql.Rows) (bool, error)

// Exec выполняет команду без результата и возвращает количество
// затронутых строк
func (d *DB) Exec(ctx context.Context, cmd *Command) (int64, error) {
	var affected int64
	err := d.ExecuteCommand(ctx, cmd, func(r Runner) error {
		res, err := r.ExecContext(ctx, cmd.Text, cmd.args(d.driver.BindsByName())...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			// Драйвер не сообщает количество строк - не ошибка операции
			n = 0
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Stream выполняет команду и вызывает handler для каждой строки
// результата по порядку. Возврат false из handler'а останавливает
// чтение (используется для выборки только первой строки).
//
// При повторе временной ошибки чтение начинается заново с первой
// строки. Handler, накапливающий результат, обязан сбрасывать
// накопленное в начале каждой попытки - иначе строки неудачной
// попытки задвоятся (см. stream и reset-хук).
func (d *DB) Stream(ctx context.Context, cmd *Command, handler RowHandler) error {
	return d.stream(ctx, cmd, nil, handler)
}

// stream - Stream с reset-хуком. Хук вызывается в начале КАЖДОЙ
// попытки конвейера, до открытия reader'а: накопители результата
// сбрасываются в нем, чтобы строки, прочитанные до временного сбоя,
// не попали в результат дважды.
func (d *DB) stream(ctx context.Context, cmd *Command, reset func(), handler RowHandler) error {
	return d.ExecuteCommand(ctx, cmd, func(r Runner) error {
		if reset != nil {
			reset()
		}
		rows, err := r.QueryContext(ctx, cmd.Text, cmd.args(d.driver.BindsByName())...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			cont, err := handler(rows)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return rows.Err()
	})
}

// Scalar возвращает первую колонку первой строки результата.
// Для пустого результата или NULL возвращается def.
func (d *DB) Scalar(ctx context.Context, cmd *Command, def any) (any, error) {
	result := def
	err := d.stream(ctx, cmd, func() { result = def }, func(rows *sql.Rows) (bool, error) {
		var v any
		if err := rows.Scan(&v); err != nil {
			return false, err
		}
		if v != nil {
			result = v
		}
		return false, nil
	})
	if err != nil {
		return def, err
	}
	return result, nil
}

// ScalarInt64 возвращает скаляр, сконвертированный в int64
func (d *DB) ScalarInt64(ctx context.Context, cmd *Command, def int64) (int64, error) {
	v, err := d.Scalar(ctx, cmd, nil)
	if err != nil || v == nil {
		return def, err
	}
	return ToInt64(v)
}

// ScalarFloat64 возвращает скаляр, сконвертированный в float64
func (d *DB) ScalarFloat64(ctx context.Context, cmd *Command, def float64) (float64, error) {
	v, err := d.Scalar(ctx, cmd, nil)
	if err != nil || v == nil {
		return def, err
	}
	return ToFloat64(v)
}

// ScalarString возвращает скаляр, сконвертированный в строку
func (d *DB) ScalarString(ctx context.Context, cmd *Command, def string) (string, error) {
	v, err := d.Scalar(ctx, cmd, nil)
	if err != nil || v == nil {
		return def, err
	}
	return ToString(v)
}

// ScalarBool возвращает скаляр, сконвертированный в bool
func (d *DB) ScalarBool(ctx context.Context, cmd *Command, def bool) (bool, error) {
	v, err := d.Scalar(ctx, cmd, nil)
	if err != nil || v == nil {
		return def, err
	}
	return ToBool(v)
}

// ScalarTime возвращает скаляр, сконвертированный в time.Time
func (d *DB) ScalarTime(ctx context.Context, cmd *Command, def time.Time) (time.Time, error) {
	v, err := d.Scalar(ctx, cmd, nil)
	if err != nil || v == nil {
		return def, err
	}
	return ToTime(v)
}

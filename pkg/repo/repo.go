// Package repo - тонкая база для репозиториев приложения.
// Репозиторий либо сам создает handle по имени подключения (и тогда
// владеет им и закрывает), либо получает готовый handle от вызывающего
// кода (и тогда не закрывает его).
package repo

import (
	"context"

	"github.com/ruslano69/sqlgate/pkg/bag"
	"github.com/ruslano69/sqlgate/pkg/config"
	"github.com/ruslano69/sqlgate/pkg/dbx"
	"github.com/ruslano69/sqlgate/pkg/record"
	"github.com/ruslano69/sqlgate/pkg/sqlgen"
)

// Repository - база репозитория. Собственного поведения БД не несет:
// все операции - форвардеры в построитель выражений и конвейер handle.
type Repository struct {
	db    *dbx.DB
	owned bool
}

// New создает репозиторий поверх чужого handle (не закрывает его)
func New(db *dbx.DB) *Repository {
	return &Repository{db: db, owned: false}
}

// NewOwned создает репозиторий с собственным handle по имени
// подключения из конфигурации. Close закроет handle.
func NewOwned(f *config.File, name string, opts dbx.Options) (*Repository, error) {
	db, err := f.Open(name, opts)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, owned: true}, nil
}

// DB возвращает handle репозитория
func (r *Repository) DB() *dbx.DB {
	return r.db
}

// Close закрывает handle, только если репозиторий им владеет
func (r *Repository) Close() error {
	if r.owned {
		return r.db.Close()
	}
	return nil
}

// Insert вставляет значение (структура, map или bag) в таблицу
func (r *Repository) Insert(ctx context.Context, table string, values any) (int64, error) {
	b, err := bag.From(values)
	if err != nil {
		return 0, err
	}
	cmd, err := sqlgen.Insert(r.db.Driver(), table, b)
	if err != nil {
		return 0, err
	}
	return r.db.Exec(ctx, cmd)
}

// InsertReturning вставляет значение и возвращает вставленную строку
// как динамическую запись (для диалектов с OUTPUT/RETURNING).
// Для остальных диалектов возвращает nil запись.
func (r *Repository) InsertReturning(ctx context.Context, table string, values any) (*record.Record, error) {
	b, err := bag.From(values)
	if err != nil {
		return nil, err
	}
	cmd, err := sqlgen.InsertReturning(r.db.Driver(), table, b)
	if err != nil {
		return nil, err
	}

	d := r.db.Driver()
	if d.OutputClause() == "" && d.ReturningSuffix() == "" {
		if _, err := r.db.Exec(ctx, cmd); err != nil {
			return nil, err
		}
		return nil, nil
	}

	rec, _, err := r.db.GetRecord(ctx, cmd)
	return rec, err
}

// Update обновляет строки таблицы по ключу.
// Nil ключ обновляет всю таблицу.
func (r *Repository) Update(ctx context.Context, table string, set any, key any) (int64, error) {
	setBag, err := bag.From(set)
	if err != nil {
		return 0, err
	}
	keyBag, err := bag.From(key)
	if err != nil {
		return 0, err
	}
	cmd, err := sqlgen.Update(r.db.Driver(), table, setBag, keyBag)
	if err != nil {
		return 0, err
	}
	return r.db.Exec(ctx, cmd)
}

// Delete удаляет строки таблицы по ключу.
// Nil ключ удаляет все строки.
func (r *Repository) Delete(ctx context.Context, table string, key any) (int64, error) {
	keyBag, err := bag.From(key)
	if err != nil {
		return 0, err
	}
	cmd, err := sqlgen.Delete(r.db.Driver(), table, keyBag)
	if err != nil {
		return 0, err
	}
	return r.db.Exec(ctx, cmd)
}

// Call вызывает хранимую процедуру с параметрами из значения
func (r *Repository) Call(ctx context.Context, procName string, args any) (int64, error) {
	argsBag, err := bag.From(args)
	if err != nil {
		return 0, err
	}
	cmd, err := sqlgen.Proc(r.db.Driver(), procName, argsBag)
	if err != nil {
		return 0, err
	}
	return r.db.Exec(ctx, cmd)
}

package config

import (
	"github.com/ruslano69/sqlgate/pkg/dbx"
	"github.com/ruslano69/sqlgate/pkg/drivers"
)

// Open создает handle по имени подключения из конфигурации.
// Неизвестное имя - ErrNotFound, неизвестный тип БД - ошибка фабрики
// драйверов. Соединение открывается лениво при первом обращении.
func (f *File) Open(name string, opts dbx.Options) (*dbx.DB, error) {
	c, err := f.Lookup(name)
	if err != nil {
		return nil, err
	}

	d, err := drivers.Get(c.Type)
	if err != nil {
		return nil, err
	}
	return dbx.New(d, c.BuildDSN(), opts)
}

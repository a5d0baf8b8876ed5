package drivers

import (
	"fmt"
	"sort"
	"sync"
)

// Factory - реестр драйверов СУБД.
// Управляет регистрацией и поиском драйверов по типу БД.
type Factory struct {
	registry map[string]Driver
	mu       sync.RWMutex
}

// NewFactory создает новую фабрику драйверов
func NewFactory() *Factory {
	return &Factory{
		registry: make(map[string]Driver),
	}
}

// Register регистрирует драйвер для определенного типа БД
func (f *Factory) Register(name string, d Driver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry[name] = d
}

// Get возвращает драйвер по типу БД
func (f *Factory) Get(name string) (Driver, error) {
	f.mu.RLock()
	d, ok := f.registry[name]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown database type: %s (available types: %v)",
			name, f.Registered())
	}
	return d, nil
}

// IsRegistered проверяет, зарегистрирован ли драйвер
func (f *Factory) IsRegistered(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.registry[name]
	return ok
}

// Registered возвращает список зарегистрированных типов БД
func (f *Factory) Registered() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.registry))
	for name := range f.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ========== Global Factory ==========

var globalFactory = NewFactory()

// Register регистрирует драйвер в глобальной фабрике.
// Обычно вызывается в init() функциях пакетов драйверов:
//
//	func init() {
//	    drivers.Register("postgres", Driver{})
//	}
func Register(name string, d Driver) {
	globalFactory.Register(name, d)
}

// Get возвращает драйвер из глобальной фабрики
func Get(name string) (Driver, error) {
	return globalFactory.Get(name)
}

// IsRegistered проверяет регистрацию в глобальной фабрике
func IsRegistered(name string) bool {
	return globalFactory.IsRegistered(name)
}

// Registered возвращает типы из глобальной фабрики
func Registered() []string {
	return globalFactory.Registered()
}

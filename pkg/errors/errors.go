package errors

import "errors"

// ----------------- cache ------------------
var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// ----------------- cards ------------------
var (
	// ErrCardNotFound возвращается, когда по координате не найдено ни одной
	// строки. Это ожидаемый результат для товаров без настроек маркетплейса,
	// а не ошибка выполнения.
	ErrCardNotFound = errors.New("card not found")
)

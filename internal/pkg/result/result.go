// Package result содержит Result — единый тип исхода для вызовов
// внешних коллабораторов (HTTP клиент, publisher).
package result

// Result представляет исход fallible-операции: success с значением
// или failure с причиной. Никакие panic/ошибки не пересекают границы
// компонентов — caller всегда проверяет исход явно.
type Result[T any] struct {
	ok     bool
	value  T
	reason string
}

// Success создаёт успешный Result с указанным значением
func Success[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// Failure создаёт неуспешный Result с причиной
func Failure[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// Success возвращает true для успешного исхода
func (r Result[T]) Success() bool {
	return r.ok
}

// Failure возвращает true для неуспешного исхода
func (r Result[T]) Failure() bool {
	return !r.ok
}

// Value возвращает значение успешного исхода
// Для failure возвращает zero value типа T
func (r Result[T]) Value() T {
	return r.value
}

// Reason возвращает причину неуспешного исхода
// Для success возвращает пустую строку
func (r Result[T]) Reason() string {
	return r.reason
}

package session

import "errors"

var (
	// ErrSessionNotFound сессия с таким ID не существует или уже истекла
	ErrSessionNotFound = errors.New("session not found")
	// ErrWrongMode операция недоступна в режиме сессии
	ErrWrongMode = errors.New("operation is not available in this session mode")
)

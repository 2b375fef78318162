package tutorapi

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("tutorapi client: internal error")

	// ErrInvalidResponse возвращается, если ответ не соответствует схеме
	ErrInvalidResponse = errors.New("tutorapi client: invalid response")

	// ErrUnauthorized возвращается при отсутствии или отклонении токена
	ErrUnauthorized = errors.New("tutorapi client: unauthorized")

	// ErrNotFound возвращается, когда ресурс не найден
	ErrNotFound = errors.New("tutorapi client: not found")

	// ErrRejected возвращается, когда бэкенд отклонил операцию (success=false или 4xx)
	ErrRejected = errors.New("tutorapi client: operation rejected")
)

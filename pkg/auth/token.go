package auth

import "context"

type tokenKey struct{}

// Provider источник токена текущей пользовательской сессии
// Передается в движок явно при создании вместо чтения из глобального состояния
type Provider interface {
	Token() (string, bool)
}

// Static провайдер с фиксированным токеном
type Static string

// Token возвращает токен; пустой токен означает отсутствие авторизации
func (s Static) Token() (string, bool) {
	return string(s), s != ""
}

// Anonymous провайдер без токена
var Anonymous Provider = Static("")

// WithToken кладет токен в контекст исходящего запроса
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext достает токен из контекста
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

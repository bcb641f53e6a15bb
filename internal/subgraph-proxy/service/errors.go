package service

import (
	"errors"
	"net/http"
)

// Kind classifica as falhas do proxy; também serve de label de métrica
type Kind string

const (
	InvalidRequest      Kind = "invalid"
	Forbidden           Kind = "forbidden"
	UpstreamTimeout     Kind = "timeout"
	UpstreamUnreachable Kind = "unreachable"
	Internal            Kind = "internal"
)

// Error é a falha normalizada devolvida ao cliente como {"error": Msg}
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func newError(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// Status mapeia o tipo de falha para o status HTTP
func (e *Error) Status() int {
	switch e.Kind {
	case InvalidRequest:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case UpstreamTimeout, UpstreamUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsError extrai o *Error; qualquer outro erro vira Internal
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	msg := "Proxy error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return newError(Internal, msg, err)
}

package http

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// serviceErrors is the single translation table from service sentinels to
// HTTP responses. The first match wins.
var serviceErrors = []errorMapping{
	{service.ErrValidation, http.StatusBadRequest, httpx.CodeValidation},
	{service.ErrDuplicateCredential, http.StatusConflict, httpx.CodeConflict},
	{service.ErrAccountNotFound, http.StatusNotFound, httpx.CodeNotFound},
	{service.ErrNotFound, http.StatusNotFound, httpx.CodeNotFound},
	{service.ErrInvalidCredential, http.StatusUnauthorized, httpx.CodeUnauthenticated},
	{service.ErrForbidden, http.StatusForbidden, httpx.CodeForbidden},
	{service.ErrInvalidOTPCode, http.StatusBadRequest, httpx.CodeInvalidOTP},
	{service.ErrOTPNotEnabled, http.StatusBadRequest, httpx.CodeValidation},
	{service.ErrBootstrapDisabled, http.StatusNotFound, httpx.CodeNotFound},
	{service.ErrBootstrapUnauthorized, http.StatusUnauthorized, httpx.CodeUnauthenticated},
	{service.ErrBootstrapAlready, http.StatusUnauthorized, httpx.CodeUnauthenticated},
}

// invalidOTPOnLogin overrides the table for the login verification route,
// where a bad code is an authentication failure.
var invalidOTPOnLogin = errorMapping{service.ErrInvalidOTPCode, http.StatusUnauthorized, httpx.CodeInvalidOTP}

// ErrorWriter turns service errors into JSON error responses.
type ErrorWriter struct {
	// ExposeDetail adds the internal error text to 500 responses. Never
	// enable it in production.
	ExposeDetail bool
}

// Write answers err using overrides first and then serviceErrors. Anything
// unmatched is logged and answered with a generic 500.
func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error, overrides ...errorMapping) {
	for _, m := range append(overrides, serviceErrors...) {
		if errors.Is(err, m.target) {
			httpx.WriteError(w, m.status, m.code, publicMessage(err, m.target))
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	body := httpx.ErrorBody{Error: httpx.CodeInternal, Message: "Internal server error"}
	if e.ExposeDetail {
		body.Detail = err.Error()
	}
	httpx.WriteJSON(w, http.StatusInternalServerError, body)
}

// badRequest answers a body that could not be decoded.
func badRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, capitalize(err.Error()))
}

func publicMessage(err, sentinel error) string {
	var d *service.DetailedError
	if errors.As(err, &d) {
		return d.Message
	}
	return capitalize(sentinel.Error())
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

var errUnexpectedLoginResult = errors.New("unexpected login result")

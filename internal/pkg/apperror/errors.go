package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest           ErrorCode = "BAD_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	ErrCodeInvalidState         ErrorCode = "INVALID_STATE"
	ErrCodeCapacityExceeded     ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeDuplicateRating      ErrorCode = "DUPLICATE_RATING"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и тексту, чтобы errors.Is(err, ErrApplicationNotPending)
// срабатывал и для обёрнутых копий.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeInvalidState, ErrCodeCapacityExceeded,
		ErrCodeDuplicateRating, ErrCodeDuplicateApplication:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsInvalidState(err error) bool {
	return hasCode(err, ErrCodeInvalidState)
}

func IsCapacityExceeded(err error) bool {
	return hasCode(err, ErrCodeCapacityExceeded)
}

func IsDuplicate(err error) bool {
	return hasCode(err, ErrCodeDuplicateRating) || hasCode(err, ErrCodeDuplicateApplication) || hasCode(err, ErrCodeConflict)
}

var (
	ErrJobSeekerNotFound   = New(ErrCodeNotFound, "colaborador não encontrado")
	ErrCompanyNotFound     = New(ErrCodeNotFound, "empresa não encontrada")
	ErrPostingNotFound     = New(ErrCodeNotFound, "trabalho não encontrado")
	ErrApplicationNotFound = New(ErrCodeNotFound, "candidatura não encontrada")
	ErrAdminNotFound       = New(ErrCodeNotFound, "administrador não encontrado")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "autenticação necessária")
	ErrForbidden           = New(ErrCodeForbidden, "você não tem permissão para esta ação")
	ErrInvalidCredentials  = New(ErrCodeUnauthorized, "email ou senha incorretos")
	ErrAccountSuspended    = New(ErrCodeForbidden, "conta suspensa")

	ErrApplicationNotPending  = New(ErrCodeInvalidState, "a candidatura não está pendente")
	ErrApplicationNotActive   = New(ErrCodeInvalidState, "a candidatura não pode ser cancelada")
	ErrNotAccepted            = New(ErrCodeInvalidState, "a candidatura não foi aceita")
	ErrAlreadyConfirmed       = New(ErrCodeInvalidState, "a presença já foi confirmada")
	ErrAttendanceNotConfirmed = New(ErrCodeInvalidState, "a presença do colaborador não foi confirmada")
	ErrScheduleConflict       = New(ErrCodeInvalidState, "o colaborador já tem um trabalho aceito neste horário")
	ErrPostingNotOpen         = New(ErrCodeInvalidState, "este trabalho não está mais aceitando candidaturas")
	ErrCompanyNotActive       = New(ErrCodeInvalidState, "a empresa ainda não foi aprovada")
	ErrNoSlotsLeft            = New(ErrCodeCapacityExceeded, "não há vagas disponíveis")
	ErrDuplicateRating        = New(ErrCodeDuplicateRating, "avaliação já registrada")
	ErrDuplicateApplication   = New(ErrCodeDuplicateApplication, "você já se candidatou a este trabalho")
	ErrEmailTaken             = New(ErrCodeConflict, "email já cadastrado")
	ErrCNPJTaken              = New(ErrCodeConflict, "CNPJ já cadastrado")
)

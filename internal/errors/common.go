package errors

var (
	ErrNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
	ErrConcurrentUpdate = &DomainError{
		Kind:    KindConflict,
		Code:    "CONCURRENT_UPDATE",
		Message: "record was modified by another request",
	}
	ErrForbidden = &DomainError{
		Kind:    KindForbidden,
		Code:    "FORBIDDEN",
		Message: "you are not allowed to perform this action",
	}
	ErrUnauthorized = &DomainError{
		Kind:    KindUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: "authentication required",
	}
)

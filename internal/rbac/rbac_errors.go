package rbac

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var ErrUnknownRole = apperror.New(
	apperror.CodeInvalidInput,
	"unknown role",
	http.StatusBadRequest,
)

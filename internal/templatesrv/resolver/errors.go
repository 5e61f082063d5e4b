package resolver

import (
	"net/http"

	"github.com/campuscms/campuscms/internal/common/apperrors"
)

var (
	ErrResolveError apperrors.Error = apperrors.New("template resolution failed").SetStatusCode(http.StatusInternalServerError)

	ErrTemplateNotFound apperrors.Error = ErrResolveError.New("template not found").SetStatusCode(http.StatusNotFound)
)

package apis

import (
	"net/http"

	"github.com/campuscms/campuscms/internal/common/apperrors"
)

var (
	ErrAPIError apperrors.Error = apperrors.New("request processing failed").SetStatusCode(http.StatusInternalServerError)

	ErrInvalidTemplateID apperrors.Error = ErrAPIError.New("invalid template id").SetStatusCode(http.StatusBadRequest)
	ErrInvalidLimit      apperrors.Error = ErrAPIError.New("invalid limit").SetStatusCode(http.StatusBadRequest)
)

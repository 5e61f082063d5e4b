package publisher

import (
	"net/http"

	"github.com/campuscms/campuscms/internal/common/apperrors"
)

var (
	ErrPublishError apperrors.Error = apperrors.New("homepage publish failed").SetStatusCode(http.StatusInternalServerError)

	ErrConfiguration     apperrors.Error = ErrPublishError.New("missing datastore configuration").SetStatusCode(http.StatusInternalServerError)
	ErrTemplateNotFound  apperrors.Error = ErrPublishError.New("homepage template not found").SetStatusCode(http.StatusNotFound)
	ErrPageCreate        apperrors.Error = ErrPublishError.New("failed to create homepage page").SetExpandError(true)
	ErrBlockCopy         apperrors.Error = ErrPublishError.New("failed to copy template blocks").SetExpandError(true)
	ErrNothingToRollback apperrors.Error = ErrPublishError.New("no homepage to roll back").SetStatusCode(http.StatusNotFound)
)

// Package httpx provides HTTP request and response plumbing shared by the
// template service handlers: JSON responses, typed HTTP errors, and a
// handler-wrapping helper that maps application errors to status codes.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/apperrors"
)

// GetRequestData parses a JSON request body into the provided structure.
// Only POST and PUT requests carry bodies in this API.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response is an HTTP response with a status code and a JSON-serializable
// body. Location is set as a header on 201 responses.
type Response struct {
	StatusCode int
	Location   string
	Response   any
}

// RequestHandler is the handler signature used by the API layer. Handlers
// return either a Response or an error; error-to-status mapping happens in
// WrapHTTPRsp.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHTTPRsp adapts a RequestHandler into an http.HandlerFunc with
// standardized error handling. apperrors carry their own status codes;
// anything else becomes a 500.
func WrapHTTPRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			if httperror, ok := err.(*Error); ok {
				httperror.Send(w)
			} else if appErr, ok := err.(apperrors.Error); ok {
				statusCode := appErr.StatusCode()
				if statusCode == 0 {
					statusCode = http.StatusInternalServerError
				}
				httperror := &Error{
					StatusCode:  statusCode,
					Description: appErr.ErrorAll(),
				}
				httperror.Send(w)
			} else {
				ErrApplicationError(err.Error()).Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		var location []string
		if rsp.Location != "" {
			location = append(location, rsp.Location)
		}
		SendJSONRsp(r.Context(), w, rsp.StatusCode, rsp.Response, location...)
	})
}

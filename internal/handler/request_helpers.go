package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/prizegrid/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON body into req and validates its
// tags. On failure the response is already written and the handler should
// return.
//
// Example usage:
//
//	var req PreviewRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Preview allocation"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(LogMsgRequestDecoded, "action", actionName)

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// decodeRequest decodes without tag validation, for requests the service
// validates itself.
func decodeRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		logger.FromContext(r.Context()).Warn(LogMsgDecodeFailed, "action", actionName, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}
	return nil
}

// decodeOptionalBody is DecodeAndValidateRequest for endpoints whose body may
// be empty.
func decodeOptionalBody(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return DecodeAndValidateRequest(r, w, req, actionName)
}

// GetQueryParam returns a required query parameter. If it is missing the
// response is already written and ok is false.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		logger.FromContext(r.Context()).Warn(LogMsgMissingQueryParam, "param", paramName)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, paramName))
		return "", false
	}
	return value, true
}

// getPathParam returns a chi URL parameter, writing 400 when it is empty
func getPathParam(r *http.Request, w http.ResponseWriter, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, name))
		return "", false
	}
	return value, true
}

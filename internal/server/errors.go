//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"trpc.group/trpc-go/trpc-agent-go/log"
)

// Error codes returned in the "error" field of error responses.
const (
	codeValidationError = "validation_error"
	codeUpstreamError   = "upstream_error"
	codeInternalError   = "internal_error"
)

// errorResponse is the JSON envelope for all non-2xx responses.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// validationError reports a rejected request field. It maps to 400.
type validationError struct {
	Field   string
	Message string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *validationError {
	return &validationError{Field: field, Message: message}
}

// upstreamError reports a failed model or agent call. It maps to 502 and
// its message is logged rather than returned to the client.
type upstreamError struct {
	Message string
}

func (e *upstreamError) Error() string {
	return e.Message
}

func newUpstreamError(format string, args ...any) *upstreamError {
	return &upstreamError{Message: fmt.Sprintf(format, args...)}
}

// writeError classifies err and writes the matching status and envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validationError
	if errors.As(err, &ve) {
		s.writeJSONStatus(w, http.StatusBadRequest, errorResponse{
			Error:  codeValidationError,
			Detail: ve.Error(),
		})
		return
	}
	var ue *upstreamError
	if errors.As(err, &ue) {
		log.Errorf("upstream failure on %s: %v", r.URL.Path, ue)
		s.writeJSONStatus(w, http.StatusBadGateway, errorResponse{
			Error:  codeUpstreamError,
			Detail: "upstream agent call failed",
		})
		return
	}
	log.Errorf("internal error on %s: %v", r.URL.Path, err)
	s.writeJSONStatus(w, http.StatusInternalServerError, errorResponse{
		Error: codeInternalError,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

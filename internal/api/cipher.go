package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/service"
)

// ExecuteRequest represents a request to execute a single operation
type ExecuteRequest struct {
	Operation  string                 `json:"operation"`
	Input      string                 `json:"input"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// OutputResponse carries the text produced by an operation, pipeline or recipe
type OutputResponse struct {
	Output string `json:"output"`
}

// PipelineRequest represents a request to execute a pipeline of operations
type PipelineRequest struct {
	Input      string                   `json:"input"`
	Operations []cipher.OperationConfig `json:"operations"`
}

// PipelineReverseRequest asks for the inverse of a pipeline
type PipelineReverseRequest struct {
	Operations []cipher.OperationConfig `json:"operations"`
}

// PipelineResponse returns a pipeline definition
type PipelineResponse struct {
	Operations []cipher.OperationConfig `json:"operations"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// OperationInfo describes one catalogue entry
type OperationInfo struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Parameters  []cipher.ParamSpec `json:"parameters,omitempty"`
	Reversible  bool               `json:"reversible"`
	Inverse     string             `json:"inverse,omitempty"`
}

// OperationListResponse lists the catalogue
type OperationListResponse struct {
	Operations []OperationInfo `json:"operations"`
	Count      int             `json:"count"`
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	ops := s.svc.Operations()
	list := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		list = append(list, describe(op))
	}
	s.writeJSON(w, http.StatusOK, OperationListResponse{Operations: list, Count: len(list)})
}

func describe(op cipher.Operation) OperationInfo {
	info := OperationInfo{
		Name:        op.Name(),
		Type:        string(op.Type()),
		Description: op.Description(),
		Parameters:  op.Parameters(),
	}
	if inverse, ok := op.Reverse(); ok {
		info.Reversible = true
		info.Inverse = inverse.Name()
	}
	return info
}

// handleExecute runs a single operation
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Operation) == "" {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "operation field is required"})
		return
	}

	result, err := s.svc.Execute(r.Context(), req.Operation, []byte(req.Input), req.Parameters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: string(result)})
}

// handlePipeline runs a chain of operations
func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	var req PipelineRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Operations) == 0 {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "operations field is required and must not be empty"})
		return
	}

	result, err := s.svc.RunPipeline(r.Context(), &cipher.Pipeline{Operations: req.Operations}, []byte(req.Input))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: string(result)})
}

// handlePipelineReverse returns the inverse chain without running it
func (s *Server) handlePipelineReverse(w http.ResponseWriter, r *http.Request) {
	var req PipelineReverseRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Operations) == 0 {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "operations field is required and must not be empty"})
		return
	}

	reversed, err := s.svc.ReversePipeline(&cipher.Pipeline{Operations: req.Operations, Reversible: true})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PipelineResponse{Operations: reversed.Operations})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return false
		}
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, cipher.ErrUnknownOperation):
		return http.StatusNotFound, "unknown_operation"
	case errors.Is(err, cipher.ErrRecipeNotFound):
		return http.StatusNotFound, "recipe_not_found"
	case errors.Is(err, cipher.ErrInvalidRecipe):
		return http.StatusBadRequest, "invalid_recipe"
	case errors.Is(err, cipher.ErrInvalidParameter):
		return http.StatusUnprocessableEntity, "invalid_parameter"
	case errors.Is(err, cipher.ErrDomainViolation):
		return http.StatusUnprocessableEntity, "domain_violation"
	case errors.Is(err, service.ErrNoRecipes):
		return http.StatusServiceUnavailable, "recipes_unavailable"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusUnprocessableEntity, "error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	s.log.Debug().
		Str("request_id", RequestID(r.Context())).
		Str("kind", kind).
		Msg("request rejected")
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

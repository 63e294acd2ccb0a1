package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/corelend/lead-engine/internal/infra/http/middleware"
	"github.com/corelend/lead-engine/internal/usecase"
)

type LeadHandler struct {
	Engine *usecase.AssignmentEngine
}

func NewLeadHandler(engine *usecase.AssignmentEngine) *LeadHandler {
	return &LeadHandler{Engine: engine}
}

type ClaimRequest struct {
	EmployeeID string `json:"employee_id"`
	Force      bool   `json:"force"`
}

type ReleaseRequest struct {
	EmployeeID string `json:"employee_id"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "INVALID_JSON", Message: "invalid JSON body"})
		return
	}

	lead, err := h.Engine.CreateAndAssign(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	if lead.OwnerID != nil {
		middleware.RecordAssignments("created", 1)
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var input usecase.BulkAssignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "INVALID_JSON", Message: "invalid JSON body"})
		return
	}

	out, err := h.Engine.BulkAssign(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordAssignments("imported", out.AssignedCount)
	writeJSON(w, http.StatusCreated, out)
}

func (h *LeadHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "INVALID_JSON", Message: "invalid JSON body"})
		return
	}
	if req.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_ERROR", Message: "employee_id is required"})
		return
	}

	lead, err := h.Engine.Claim(r.Context(), leadID, req.EmployeeID, req.Force)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordAssignments("claimed", 1)
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "INVALID_JSON", Message: "invalid JSON body"})
		return
	}
	if req.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_ERROR", Message: "employee_id is required"})
		return
	}

	lead, err := h.Engine.Release(r.Context(), leadID, req.EmployeeID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordAssignments("released", 1)
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	filter := usecase.PoolFilter(r.URL.Query().Get("filter"))

	p := usecase.Pagination{}
	if v := r.URL.Query().Get("limit"); v != "" {
		p.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		p.Offset, _ = strconv.Atoi(v)
	}

	leads, err := h.Engine.ListPool(r.Context(), filter, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the engine's error taxonomy onto HTTP statuses; the code is
// always carried in the body so callers can distinguish failure kinds.
func writeError(w http.ResponseWriter, err error) {
	code := usecase.DomainCode(err)

	var status int
	switch code {
	case usecase.CodeLeadNotFound, usecase.CodeEmployeeNotFound:
		status = http.StatusNotFound
	case usecase.CodeInvalidState, usecase.CodeAlreadyOwned:
		status = http.StatusConflict
	case usecase.CodeForbidden:
		status = http.StatusForbidden
	case usecase.CodeNoEligibleWorkers, usecase.CodeValidation:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		code = usecase.CodePersistence
	}

	writeJSON(w, status, ErrorResponse{Code: code, Message: err.Error()})
}

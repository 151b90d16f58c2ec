package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/utils/errutil"
)

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assignmentID := types.AssignmentID(chi.URLParam(r, "assignmentID"))

	if err := assignmentID.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	executions, err := s.repo.Execution().ListByAssignment(ctx, assignmentID)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}
	if executions == nil {
		executions = []*model.AuditExecution{}
	}

	respondJSON(ctx, w, http.StatusOK, executions)
}

func (s *Server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.ExecutionID(chi.URLParam(r, "executionID"))

	if err := id.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	exec, err := s.repo.Execution().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(ctx, w, http.StatusOK, exec)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	execID := types.ExecutionID(chi.URLParam(r, "executionID"))
	itemID := types.ItemID(chi.URLParam(r, "itemID"))

	if err := execID.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	if !itemID.Updatable() {
		errutil.HandleHTTP(ctx, w, goerr.New("item has no usable identifier",
			goerr.V("item_id", itemID),
		), http.StatusBadRequest)
		return
	}

	var update model.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if !update.Status.IsValid() {
		errutil.HandleHTTP(ctx, w, goerr.New("invalid item status",
			goerr.V("status", update.Status),
		), http.StatusBadRequest)
		return
	}

	exec, err := s.repo.Execution().Get(ctx, execID)
	if err != nil {
		if isNotFound(err) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	if !exec.Open() {
		errutil.HandleHTTP(ctx, w, goerr.New("execution is already completed",
			goerr.V("execution_id", execID),
		), http.StatusConflict)
		return
	}

	idx := exec.FindItem(itemID)
	if idx < 0 {
		errutil.HandleHTTP(ctx, w, goerr.New("item not found in checklist",
			goerr.V("execution_id", execID),
			goerr.V("item_id", itemID),
		), http.StatusNotFound)
		return
	}

	item := &exec.Items[idx]
	item.Status = update.Status
	item.ActualQuantity = item.EffectiveQuantity(update.Status, update.ActualQuantity)
	item.ActualLocation = update.ActualLocation
	item.Remarks = update.Remarks
	item.Damaged = update.Status == types.ItemStatusDamaged

	updated, err := s.repo.Execution().Update(ctx, exec)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	s.refreshAssignmentProgress(r, updated)

	respondJSON(ctx, w, http.StatusOK, updated.Items[idx])
}

type completeExecutionRequest struct {
	Observations    string `json:"generalObservations"`
	Recommendations string `json:"recommendations,omitempty"`
}

func (s *Server) handleCompleteExecution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	execID := types.ExecutionID(chi.URLParam(r, "executionID"))

	if err := execID.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	var req completeExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	exec, err := s.repo.Execution().Get(ctx, execID)
	if err != nil {
		if isNotFound(err) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	if !exec.Open() {
		errutil.HandleHTTP(ctx, w, goerr.New("execution is already completed",
			goerr.V("execution_id", execID),
		), http.StatusConflict)
		return
	}

	stats := exec.Stats()
	if !stats.Complete() {
		errutil.HandleHTTP(ctx, w, goerr.New("checklist is not fully checked",
			goerr.V("execution_id", execID),
			goerr.V("checked", stats.Checked),
			goerr.V("total", stats.Total),
		), http.StatusConflict)
		return
	}

	exec.CompletedAt = time.Now()
	exec.Observations = req.Observations
	exec.Recommendations = req.Recommendations

	updated, err := s.repo.Execution().Update(ctx, exec)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	s.closeAssignment(r, updated.AssignmentID, updated.CompletedAt)

	respondJSON(ctx, w, http.StatusOK, updated)
}

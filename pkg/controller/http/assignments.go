package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/repository/firestore"
	"github.com/labops/labaudit/pkg/repository/memory"
	"github.com/labops/labaudit/pkg/utils/errutil"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var a model.Assignment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	if a.Title == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("title is required"), http.StatusBadRequest)
		return
	}
	if len(a.Labs) == 0 {
		errutil.HandleHTTP(ctx, w, goerr.New("at least one lab is required"), http.StatusBadRequest)
		return
	}

	if s.catalog != nil {
		for _, lab := range a.Labs {
			if !s.catalog.HasLab(lab.ID) {
				errutil.HandleHTTP(ctx, w, goerr.New("lab is not listed in the catalog",
					goerr.V("lab_id", lab.ID),
				), http.StatusBadRequest)
				return
			}
		}
		for _, task := range a.Tasks {
			if !s.catalog.HasCategory(task.Category) {
				errutil.HandleHTTP(ctx, w, goerr.New("category is not listed in the catalog",
					goerr.V("category", task.Category),
				), http.StatusBadRequest)
				return
			}
		}
	}

	if a.Priority == "" {
		a.Priority = types.PriorityMedium
	}
	if !a.Priority.IsValid() {
		errutil.HandleHTTP(ctx, w, goerr.New("invalid priority", goerr.V("priority", a.Priority)), http.StatusBadRequest)
		return
	}
	a.Status = a.Status.Normalize()
	a.Progress = 0

	created, err := s.repo.Assignment().Create(ctx, &a)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, created)
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assignments, err := s.repo.Assignment().List(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}
	if assignments == nil {
		assignments = []*model.Assignment{}
	}

	respondJSON(ctx, w, http.StatusOK, assignments)
}

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.AssignmentID(chi.URLParam(r, "assignmentID"))

	if err := id.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	a, err := s.repo.Assignment().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(ctx, w, http.StatusOK, a)
}

type startExecutionRequest struct {
	LabID    types.LabID `json:"labId"`
	Category string      `json:"category"`
}

// handleStartExecution opens an execution for one (lab, category) pair of the
// assignment. An already open run for the same pair is returned as-is so a
// reconnecting client resumes instead of forking a second checklist.
func (s *Server) handleStartExecution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assignmentID := types.AssignmentID(chi.URLParam(r, "assignmentID"))

	if err := assignmentID.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	var req startExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.LabID == "" || req.Category == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("labId and category are required"), http.StatusBadRequest)
		return
	}

	assignment, err := s.repo.Assignment().Get(ctx, assignmentID)
	if err != nil {
		if isNotFound(err) {
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	if assignment.Status.Normalize().IsTerminal() {
		errutil.HandleHTTP(ctx, w, goerr.New("assignment is already closed",
			goerr.V("assignment_id", assignmentID),
			goerr.V("status", assignment.Status),
		), http.StatusConflict)
		return
	}

	lab, ok := assignment.Lab(req.LabID)
	if !ok {
		errutil.HandleHTTP(ctx, w, goerr.New("lab does not belong to the assignment",
			goerr.V("lab_id", req.LabID),
		), http.StatusBadRequest)
		return
	}

	open, err := s.repo.Execution().GetOpen(ctx, assignmentID, req.LabID, req.Category)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}
	if open != nil {
		respondJSON(ctx, w, http.StatusOK, open)
		return
	}

	exec := &model.AuditExecution{
		AssignmentID: assignmentID,
		LabID:        req.LabID,
		LabName:      lab.Name,
		Category:     req.Category,
		Items:        assignment.InventoryFor(req.LabID, req.Category),
	}

	created, err := s.repo.Execution().Create(ctx, exec)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	if assignment.Status.Normalize() == types.AssignmentStatusAssigned {
		assignment.Status = types.AssignmentStatusInProgress
		if _, err := s.repo.Assignment().Update(ctx, assignment); err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}
	}

	respondJSON(ctx, w, http.StatusOK, created)
}

// refreshAssignmentProgress recomputes the assignment progress from the
// execution's checklist and persists it. Failures are logged but do not fail
// the item update that triggered the refresh.
func (s *Server) refreshAssignmentProgress(r *http.Request, exec *model.AuditExecution) {
	ctx := r.Context()

	assignment, err := s.repo.Assignment().Get(ctx, exec.AssignmentID)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to load assignment for progress refresh")
		return
	}
	if assignment.Status.Normalize().IsTerminal() {
		return
	}

	assignment.Progress = exec.Stats().Percentage
	assignment.Status = types.AssignmentStatusInProgress
	if _, err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		_ = errutil.Handle(ctx, err, "failed to persist assignment progress")
	}
}

// closeAssignment marks the assignment completed after its execution closed.
func (s *Server) closeAssignment(r *http.Request, assignmentID types.AssignmentID, completedAt time.Time) {
	ctx := r.Context()

	assignment, err := s.repo.Assignment().Get(ctx, assignmentID)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to load assignment for completion")
		return
	}

	assignment.Status = types.AssignmentStatusCompleted
	assignment.Progress = 100
	assignment.UpdatedAt = completedAt
	if _, err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		_ = errutil.Handle(ctx, err, "failed to close assignment")
	}
}

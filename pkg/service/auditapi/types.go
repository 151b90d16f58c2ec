package auditapi

import "github.com/labops/labaudit/pkg/domain/types"

// startRequest is the body of POST /assignments/{id}/start
type startRequest struct {
	LabID    types.LabID `json:"labId"`
	Category string      `json:"category"`
}

// completeRequest is the body of POST /executions/{id}/complete
type completeRequest struct {
	Observations    string `json:"generalObservations"`
	Recommendations string `json:"recommendations"`
}

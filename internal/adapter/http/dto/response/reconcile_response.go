package response

import "github.com/MatheusAzzevedo/avsite-sub000/internal/usecase"

type ReconcileResponse struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

func FromReconcileResult(r usecase.ReconcileResult) ReconcileResponse {
	return ReconcileResponse{Updated: r.Updated, Total: r.Total}
}

// WebhookAckResponse is always returned with status 200 so the provider stops
// retrying; Applied tells whether the event changed anything.
type WebhookAckResponse struct {
	Success bool `json:"success"`
	Applied bool `json:"applied"`
}

package domain

import "time"

// ExportStatus is the lifecycle state of an export dossier. The sequence
// is enforced server-side; the gateway models it only to pre-check and
// label the next available transition.
type ExportStatus string

const (
	ExportDraft           ExportStatus = "draft"
	ExportSubmitted       ExportStatus = "submitted"
	ExportReadyForControl ExportStatus = "ready_for_control"
	ExportControlled      ExportStatus = "controlled"
	ExportSealed          ExportStatus = "sealed"
	ExportExported        ExportStatus = "exported"
)

// exportTransitions defines the forward-only dossier sequence.
var exportTransitions = map[ExportStatus][]ExportStatus{
	ExportDraft:           {ExportSubmitted},
	ExportSubmitted:       {ExportReadyForControl},
	ExportReadyForControl: {ExportControlled},
	ExportControlled:      {ExportSealed},
	ExportSealed:          {ExportExported},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s ExportStatus) CanTransitionTo(next ExportStatus) bool {
	for _, allowed := range exportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Next returns the single forward transition from s, if any.
func (s ExportStatus) Next() (ExportStatus, bool) {
	steps := exportTransitions[s]
	if len(steps) == 0 {
		return "", false
	}
	return steps[0], true
}

// ExportLot links one lot (and the quantity taken from it) to a dossier.
type ExportLot struct {
	LotID            int     `json:"lot_id"`
	QuantityInExport float64 `json:"quantity_in_export"`
}

// ExportDossier bundles lots for a cross-border shipment.
type ExportDossier struct {
	ID               int          `json:"id"`
	Status           ExportStatus `json:"status"`
	Destination      string       `json:"destination,omitempty"`
	TotalWeight      float64      `json:"total_weight,omitempty"`
	SealNumber       string       `json:"seal_number,omitempty"`
	CreatedByActorID int          `json:"created_by_actor_id,omitempty"`
	Lots             []ExportLot  `json:"lots,omitempty"`
	CreatedAt        *time.Time   `json:"created_at,omitempty"`
	UpdatedAt        *time.Time   `json:"updated_at,omitempty"`
}

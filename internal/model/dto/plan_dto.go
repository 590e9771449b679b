package dto

import (
	"time"

	"github.com/inboop/inboop_server/internal/model"
)

type SeatInfo struct {
	Used      int64 `json:"used"`
	Max       int   `json:"max"`
	Available int64 `json:"available"`
}

type PlanInfo struct {
	Plan      model.PlanSpec   `json:"plan"`
	Status    model.PlanStatus `json:"status"`
	Active    bool             `json:"active"`
	StartedAt *time.Time       `json:"started_at,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Seats     *SeatInfo        `json:"seats"`
	Features  []model.Feature  `json:"features"`
}

// PlanCatalogItem is one row of the public plan catalog.
type PlanCatalogItem struct {
	model.PlanSpec
	Features []model.Feature `json:"features"`
}

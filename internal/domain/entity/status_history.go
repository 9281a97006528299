package entity

import "time"

// StatusHistoryEntry registro inmutable de un cambio de estado.
// PreviousStatus es nil en la entrada inicial; UserID es nil si no hubo actor.
type StatusHistoryEntry struct {
	ID             string
	CaseFileID     string
	PreviousStatus *CaseStatus
	NewStatus      CaseStatus
	ChangedAt      time.Time
	UserID         *string
}

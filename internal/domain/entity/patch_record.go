package entity

import "time"

// PatchRecord registro de un data patch ya aplicado.
type PatchRecord struct {
	Name      string
	AppliedAt time.Time
}

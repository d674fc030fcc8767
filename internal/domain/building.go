package domain

import "time"

// Building holds managed-property metadata, including the property manager
// contact used for intake notifications.
type Building struct {
	ID                   int64
	Name                 string
	Address              *string
	PropertyManagerName  *string
	PropertyManagerEmail *string
	CreatedAt            time.Time
}

package domain

import (
	"strconv"
	"strings"
	"time"
)

// Vendor is a repair contractor servicing one or more buildings. BuildingIDs
// is a comma-delimited id set maintained by admins in the dashboard.
type Vendor struct {
	ID          int64
	CompanyName string
	Email       *string
	Phone       *string
	Category    *string
	BuildingIDs *string
	CreatedAt   time.Time
}

// ServesBuilding reports whether the vendor's building set contains id.
func (v Vendor) ServesBuilding(id int64) bool {
	if v.BuildingIDs == nil {
		return false
	}
	want := strconv.FormatInt(id, 10)
	for _, part := range strings.Split(*v.BuildingIDs, ",") {
		if strings.TrimSpace(part) == want {
			return true
		}
	}
	return false
}

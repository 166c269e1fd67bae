package competitions

import (
	"time"

	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
)

// Status derives the public competition state. Window boundaries are
// inclusive on both ends, and a deactivated competition inside its window
// reads as ended.
func Status(now time.Time, c *models.Competition) enums.CompetitionStatus {
	if now.Before(c.StartDate) {
		return enums.CompetitionStatusUpcoming
	}
	if !now.After(c.EndDate) && c.IsActive {
		return enums.CompetitionStatusActive
	}
	return enums.CompetitionStatusEnded
}

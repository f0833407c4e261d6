package domain

import (
	"sort"
	"time"
)

// SortForDisplay orders interviews by status priority, then by scheduled
// time ascending, falling back to creation time when not scheduled.
func SortForDisplay(interviews []*Interview) {
	sort.SliceStable(interviews, func(a, b int) bool {
		ra, rb := displayRank(interviews[a].status), displayRank(interviews[b].status)
		if ra != rb {
			return ra < rb
		}
		return sortTime(interviews[a]).Before(sortTime(interviews[b]))
	})
}

func sortTime(i *Interview) time.Time {
	if i.scheduledAt != nil {
		return *i.scheduledAt
	}
	return i.CreatedAt()
}

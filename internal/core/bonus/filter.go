package bonus

import (
	"time"

	"bonus-service/internal/domain"
)

// FilterByDate keeps the records whose date falls inside the inclusive
// [start, end] window. Bounds are truncated to whole days, so passing
// timestamps cannot silently drop a boundary day.
func (svc *service) FilterByDate(records []domain.TripRecord, start, end time.Time) ([]domain.TripRecord, error) {
	startDay := dateOnly(start)
	endDay := dateOnly(end)
	if startDay.After(endDay) {
		return nil, domain.InvalidRangeError{Start: startDay, End: endDay}
	}

	out := make([]domain.TripRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(startDay) || rec.Date.After(endDay) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

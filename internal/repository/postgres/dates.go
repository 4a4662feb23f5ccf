package postgres

import (
	"database/sql"
	"time"

	"rentacar-backend/internal/utils"
)

// DATE columns scan as time.Time under lib/pq; these helpers convert to and
// from the date-only type used by the domain.

func toDate(t time.Time) utils.Date {
	return utils.DateOf(t)
}

func toNullDate(t sql.NullTime) *utils.Date {
	if !t.Valid {
		return nil
	}
	d := utils.DateOf(t.Time)
	return &d
}

func fromDate(d utils.Date) time.Time {
	return d.Time()
}

func fromDatePtr(d *utils.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time()
}

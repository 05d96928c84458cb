package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgerrors "weld-oee/backend/pkg/errors"
)

// ── Cross-cutting service errors ──

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrWorkerBusy   = errors.New("worker is busy, try again")
)

const dateLayout = "2006-01-02"

// normalize stores every instant in UTC at whole-second precision
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// round2 rounds half-up to hundredths on the decimal form of v, so 1.005
// becomes 1.01 even though its binary value sits just below
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 10, 64)
	dot := strings.IndexByte(s, '.')
	n, err := strconv.ParseInt(s[:dot]+s[dot+1:dot+4], 10, 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	r := float64((n+5)/10) / 100
	if neg {
		return -r
	}
	return r
}

// calendarDate the local calendar day of t, as UTC midnight
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayStart first instant of calendar day d in loc
func dayStart(d time.Time, loc *time.Location) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, loc)
}

// dateOnly drops the clock part of a calendar day value
func dateOnly(d time.Time) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}

// lookup maps a missing row to notFound and anything else to StorageError
func lookup(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return pkgerrors.Storage(op, err)
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", pkgerrors.ErrNotFound, fmt.Sprintf(format, args...))
}

var knownKinds = []error{
	pkgerrors.ErrNotFound,
	pkgerrors.ErrConflictActiveWorkItem,
	pkgerrors.ErrConflictActiveStoppage,
	pkgerrors.ErrConflictInvalidDuration,
	pkgerrors.ErrPreconditionFailed,
	pkgerrors.ErrFormulaEvaluation,
	ErrInvalidInput,
	ErrWorkerBusy,
}

// classify leaves typed errors alone and wraps the rest (commit failures,
// driver errors) as StorageError
func classify(op string, err error) error {
	if err == nil || pkgerrors.IsStorage(err) {
		return err
	}
	for _, kind := range knownKinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return pkgerrors.Storage(op, err)
}

package shared

import (
	"context"
	"hash/fnv"

	"github.com/jackc/pgx/v5"
)

// Advisory lock namespaces. The two-argument form of pg_advisory_xact_lock
// takes (int4, int4); the first argument keeps timeclock locks from colliding
// with other users of advisory locks on the shared database.
const (
	lockNSTimesheet = int32(7301)
	lockNSEmployee  = int32(7302)
)

// LockTimesheet serialises writers on a single timesheet for the lifetime of
// the surrounding transaction. Closes the clock-in check-then-insert race.
func LockTimesheet(ctx context.Context, tx pgx.Tx, timesheetID int64) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, lockNSTimesheet, int32(timesheetID))
	return err
}

// LockEmployeePeriod serialises get-or-create for one (employee, pay period)
// pair. The pay period id is an opaque string, so it is folded into the key
// by hashing.
func LockEmployeePeriod(ctx context.Context, tx pgx.Tx, employeeID int64, payPeriodID string) error {
	h := fnv.New32a()
	_, _ = h.Write([]byte(payPeriodID))
	key := int32(employeeID) ^ int32(h.Sum32())
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, lockNSEmployee, key)
	return err
}

package jobs

import (
	"context"
	"log"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/jonboulle/clockwork"
)

// DefaultAlertThreshold is how long a table may stay occupied before the
// monitor flags it.
const DefaultAlertThreshold = 30 * time.Minute

// TableAlertService scans the table registry and promotes long-occupied
// tables to ALERT. ALERT is sticky: only closing or canceling the order
// (which frees the table) clears it; the monitor never demotes on its own.
type TableAlertService struct {
	tableRepo repositories.TableRepository
	locks     *common.KeyedMutex
	clock     clockwork.Clock
	threshold time.Duration
}

func NewTableAlertService(tableRepo repositories.TableRepository, locks *common.KeyedMutex, clock clockwork.Clock, threshold time.Duration) *TableAlertService {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	return &TableAlertService{
		tableRepo: tableRepo,
		locks:     locks,
		clock:     clock,
		threshold: threshold,
	}
}

// CheckTables runs one monitor tick. Each candidate table is re-read under
// its own lock before the alert write, so a table freed by an in-flight
// close/cancel between the scan and the write is never re-marked. A table
// whose lock is held by an order operation is skipped until the next tick
// rather than blocking the scan.
func (a *TableAlertService) CheckTables(ctx context.Context) error {
	tables, err := a.tableRepo.List(ctx)
	if err != nil {
		log.Printf("Table alert scan failed to list tables: %v", err)
		return err
	}

	for _, table := range tables {
		if table.Status != models.TableStatusOccupied || table.OccupiedSince == nil {
			continue
		}
		if a.clock.Since(*table.OccupiedSince) < a.threshold {
			continue
		}

		unlock, ok := a.locks.TryLock(common.TableKey(table.ID))
		if !ok {
			continue
		}
		if err := a.alertLocked(ctx, table.ID); err != nil {
			log.Printf("Failed to alert table %d: %v", table.ID, err)
		}
		unlock()
	}
	return nil
}

func (a *TableAlertService) alertLocked(ctx context.Context, tableID int) error {
	current, err := a.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return err
	}
	if current == nil || current.Status != models.TableStatusOccupied || current.OccupiedSince == nil {
		return nil
	}
	if a.clock.Since(*current.OccupiedSince) < a.threshold {
		return nil
	}

	err = a.tableRepo.SetStatus(ctx, tableID, models.TableStatusAlert, current.ActiveOrderID, current.OccupiedSince)
	if err != nil {
		return err
	}
	log.Printf("ALERT: table %d occupied since %s", tableID, current.OccupiedSince.Format(time.RFC3339))
	return nil
}

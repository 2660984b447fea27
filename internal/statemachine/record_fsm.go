package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/pkg/logger"
)

var allStatuses = []models.RecordStatus{
	models.RecordStatusOpen,
	models.RecordStatusPartial,
	models.RecordStatusSettled,
	models.RecordStatusOverpaid,
}

// RecordFSM follows the settlement status of one billing record across
// mutations. The status itself is always derived from the record's totals.
// Payment slots are overwritten and costs are never capped, so every status
// can follow every other; the machine reports the move between snapshots.
type RecordFSM struct {
	receiptNo string
	fsm       *fsm.FSM
}

// NewRecordFSM creates a state machine positioned at the record's current status
func NewRecordFSM(record *models.BillingRecord) *RecordFSM {
	rfsm := &RecordFSM{receiptNo: record.ReceiptNo}

	events := make(fsm.Events, 0, len(allStatuses))
	for _, dst := range allStatuses {
		var src []string
		for _, s := range allStatuses {
			if s != dst {
				src = append(src, string(s))
			}
		}
		events = append(events, fsm.EventDesc{Name: eventName(dst), Src: src, Dst: string(dst)})
	}

	rfsm.fsm = fsm.NewFSM(
		string(record.Status()),
		events,
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				logger.Info("Record status changed",
					"receipt_no", rfsm.receiptNo,
					"from", e.Src,
					"to", e.Dst,
				)
			},
		},
	)

	return rfsm
}

// Current returns the status the machine is in
func (r *RecordFSM) Current() models.RecordStatus {
	return models.RecordStatus(r.fsm.Current())
}

// Sync moves the machine to the status derived from record. It reports
// whether the status changed.
func (r *RecordFSM) Sync(ctx context.Context, record *models.BillingRecord) (bool, error) {
	target := record.Status()
	if r.Current() == target {
		return false, nil
	}
	if err := r.fsm.Event(ctx, eventName(target)); err != nil {
		return false, fmt.Errorf("failed to move record %s to %s: %w", r.receiptNo, target, err)
	}
	return true, nil
}

func eventName(status models.RecordStatus) string {
	return "mark_" + string(status)
}

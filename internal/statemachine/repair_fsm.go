package statemachine

import (
	"context"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/looplab/fsm"
)

// RepairFSM wraps a repair order with its state machine
type RepairFSM struct {
	order *models.RepairOrder
	fsm   *fsm.FSM
}

// NewRepairFSM creates a new repair order state machine
func NewRepairFSM(order *models.RepairOrder) *RepairFSM {
	rfsm := &RepairFSM{
		order: order,
	}

	rfsm.fsm = fsm.NewFSM(
		order.Status,
		fsm.Events{
			// received → diagnosing
			{Name: "diagnose", Src: []string{models.RepairStatusReceived}, Dst: models.RepairStatusDiagnosing},

			// diagnosing/repairing → waiting_parts
			{Name: "wait_parts", Src: []string{models.RepairStatusDiagnosing, models.RepairStatusRepairing}, Dst: models.RepairStatusWaitingParts},

			// diagnosing/waiting_parts → repairing
			{Name: "repair", Src: []string{models.RepairStatusDiagnosing, models.RepairStatusWaitingParts}, Dst: models.RepairStatusRepairing},

			// diagnosing/repairing → completed
			{Name: "complete", Src: []string{models.RepairStatusDiagnosing, models.RepairStatusRepairing}, Dst: models.RepairStatusCompleted},

			// completed → delivered
			{Name: "deliver", Src: []string{models.RepairStatusCompleted}, Dst: models.RepairStatusDelivered},

			// any open state → cancelled
			{Name: "cancel", Src: []string{
				models.RepairStatusReceived,
				models.RepairStatusDiagnosing,
				models.RepairStatusWaitingParts,
				models.RepairStatusRepairing,
				models.RepairStatusCompleted,
			}, Dst: models.RepairStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return rfsm
}

// eventFor maps a target status to the FSM event that reaches it
var repairEventFor = map[string]string{
	models.RepairStatusDiagnosing:   "diagnose",
	models.RepairStatusWaitingParts: "wait_parts",
	models.RepairStatusRepairing:    "repair",
	models.RepairStatusCompleted:    "complete",
	models.RepairStatusDelivered:    "deliver",
	models.RepairStatusCancelled:    "cancel",
}

// TransitionTo moves the order to the target status, failing when no event
// connects the current status to it.
func (r *RepairFSM) TransitionTo(ctx context.Context, target string) error {
	event, ok := repairEventFor[target]
	if !ok {
		return fmt.Errorf("no transition into status: %s", target)
	}

	if err := r.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("cannot move repair from %s to %s: %w", r.order.Status, target, err)
	}

	r.order.Status = r.fsm.Current()
	return nil
}

// Current returns the current state
func (r *RepairFSM) Current() string {
	return r.fsm.Current()
}

// Can checks if a transition is possible
func (r *RepairFSM) Can(event string) bool {
	return r.fsm.Can(event)
}

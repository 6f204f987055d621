package statemachine

import (
	"context"
	"fmt"

	"github.com/celtec/pos-api/internal/models"
	"github.com/looplab/fsm"
)

// TradeInFSM wraps a trade-in with its state machine
type TradeInFSM struct {
	tradeIn *models.TradeIn
	fsm     *fsm.FSM
}

// NewTradeInFSM creates a new trade-in state machine
func NewTradeInFSM(tradeIn *models.TradeIn) *TradeInFSM {
	tfsm := &TradeInFSM{
		tradeIn: tradeIn,
	}

	tfsm.fsm = fsm.NewFSM(
		tradeIn.Status,
		fsm.Events{
			// pending → accepted
			{Name: "accept", Src: []string{models.TradeInStatusPending}, Dst: models.TradeInStatusAccepted},

			// pending → rejected
			{Name: "reject", Src: []string{models.TradeInStatusPending}, Dst: models.TradeInStatusRejected},

			// accepted → resold
			{Name: "resell", Src: []string{models.TradeInStatusAccepted}, Dst: models.TradeInStatusResold},
		},
		fsm.Callbacks{},
	)

	return tfsm
}

// Accept transitions the trade-in to accepted
func (t *TradeInFSM) Accept(ctx context.Context) error {
	if !t.tradeIn.MayAccept() {
		return fmt.Errorf("trade-in cannot be accepted in current state: %s", t.tradeIn.Status)
	}

	if err := t.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept trade-in: %w", err)
	}

	t.tradeIn.Status = t.fsm.Current()
	return nil
}

// Reject transitions the trade-in to rejected
func (t *TradeInFSM) Reject(ctx context.Context) error {
	if !t.tradeIn.MayReject() {
		return fmt.Errorf("trade-in cannot be rejected in current state: %s", t.tradeIn.Status)
	}

	if err := t.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject trade-in: %w", err)
	}

	t.tradeIn.Status = t.fsm.Current()
	return nil
}

// Resell marks an accepted trade-in as resold
func (t *TradeInFSM) Resell(ctx context.Context) error {
	if !t.tradeIn.MayResell() {
		return fmt.Errorf("trade-in cannot be resold in current state: %s", t.tradeIn.Status)
	}

	if err := t.fsm.Event(ctx, "resell"); err != nil {
		return fmt.Errorf("failed to resell trade-in: %w", err)
	}

	t.tradeIn.Status = t.fsm.Current()
	return nil
}

// Current returns the current state
func (t *TradeInFSM) Current() string {
	return t.fsm.Current()
}

// Can checks if a transition is possible
func (t *TradeInFSM) Can(event string) bool {
	return t.fsm.Can(event)
}

package economics

import (
	"fmt"
	"math"
	"sync"
)

// Status describes how the agent is doing economically.
type Status string

const (
	StatusThriving  Status = "thriving"
	StatusSurviving Status = "surviving"
	StatusCritical  Status = "critical"
)

// Balance thresholds for the status projection.
const (
	thrivingAbove = 50.0
	criticalBelow = 10.0
)

// Snapshot is the read-only projection of the ledger returned to callers.
// Monetary fields are rounded to 2 decimals; internal state is not.
type Snapshot struct {
	Balance        float64 `json:"balance"`
	TotalIncome    float64 `json:"total_income"`
	TotalCosts     float64 `json:"total_costs"`
	NetProfit      float64 `json:"net_profit"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksFailed    int     `json:"tasks_failed"`
	Status         Status  `json:"status"`
}

// Ledger tracks the agent's simulated balance, income and costs. All
// mutation goes through its methods and is serialized by one mutex, so
// the balance invariant (balance == initial + income - costs) holds at
// every observable point.
type Ledger struct {
	mu             sync.Mutex
	balance        float64
	totalIncome    float64
	totalCosts     float64
	tasksCompleted int
	tasksFailed    int
}

// NewLedger creates a ledger seeded with the configured starting balance.
func NewLedger(initialBalance float64) *Ledger {
	return &Ledger{balance: initialBalance}
}

// TrackCost records a cost. The balance may go negative; a negative
// amount is rejected and leaves the ledger untouched.
func (l *Ledger) TrackCost(amount float64) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalCosts += amount
	l.balance -= amount
	return nil
}

// TrackIncome records revenue. Every income event counts as one
// completed task. A negative amount is rejected and leaves the ledger
// untouched.
func (l *Ledger) TrackIncome(amount float64) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalIncome += amount
	l.balance += amount
	l.tasksCompleted++
	return nil
}

// MarkFailed counts a failed task. No balance effect.
func (l *Ledger) MarkFailed() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasksFailed++
}

// Balance returns the current balance without rounding.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Snapshot returns the current economic state with monetary values
// rounded to 2 decimals for external consumption.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Balance:        round2(l.balance),
		TotalIncome:    round2(l.totalIncome),
		TotalCosts:     round2(l.totalCosts),
		NetProfit:      round2(l.totalIncome - l.totalCosts),
		TasksCompleted: l.tasksCompleted,
		TasksFailed:    l.tasksFailed,
		Status:         statusFor(l.balance),
	}
}

func statusFor(balance float64) Status {
	switch {
	case balance > thrivingAbove:
		return StatusThriving
	case balance < criticalBelow:
		return StatusCritical
	default:
		return StatusSurviving
	}
}

func validAmount(amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("economics: invalid amount %v", amount)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"brainer-platform/storage"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

type CheckoutStatus string

const (
	CheckoutProcessing CheckoutStatus = "processing"
	CheckoutSettling   CheckoutStatus = "settling"
	CheckoutSucceeded  CheckoutStatus = "succeeded"
	CheckoutFailed     CheckoutStatus = "failed"
	CheckoutCancelled  CheckoutStatus = "cancelled"
)

// Checkout is an in-flight simulated payment for one or more registrations.
type Checkout struct {
	ID            string               `json:"id"`
	PayerID       string               `json:"payer_id"`
	CompetitionID int                  `json:"competition_id"`
	StudentIDs    []string             `json:"student_ids,omitempty"`
	Bulk          bool                 `json:"bulk"`
	Quote         PriceQuote           `json:"quote"`
	Status        CheckoutStatus       `json:"status"`
	Results       []RegistrationResult `json:"results,omitempty"`
	Error         string               `json:"error,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	FinishedAt    *time.Time           `json:"finished_at,omitempty"`
}

func (c *Checkout) finished() bool {
	return c.Status == CheckoutSucceeded || c.Status == CheckoutFailed || c.Status == CheckoutCancelled
}

func (c Checkout) clone() Checkout {
	out := c
	out.StudentIDs = append([]string(nil), c.StudentIDs...)
	out.Results = append([]RegistrationResult(nil), c.Results...)
	return out
}

// SettleFunc commits a checkout once the simulated payment has gone through.
type SettleFunc func(ctx context.Context, c Checkout) ([]RegistrationResult, error)

type pendingCheckout struct {
	checkout Checkout
	jobID    uuid.UUID
	settle   SettleFunc
}

// PaymentSimulator settles checkouts after a fixed delay. Payments always
// succeed unless cancelled first; the ledger is only written on settlement.
type PaymentSimulator struct {
	sched gocron.Scheduler
	delay time.Duration

	mu        sync.Mutex
	checkouts map[string]*pendingCheckout
}

func NewPaymentSimulator(delay time.Duration) (*PaymentSimulator, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create payment scheduler: %w", err)
	}
	sched.Start()
	return &PaymentSimulator{
		sched:     sched,
		delay:     delay,
		checkouts: make(map[string]*pendingCheckout),
	}, nil
}

// Submit registers the checkout as processing and schedules its settlement.
// A checkout is refused while another unfinished checkout covers any of the
// same students for the same competition.
func (p *PaymentSimulator) Submit(c Checkout, settle SettleFunc) (Checkout, error) {
	c.ID = uuid.NewString()
	c.Status = CheckoutProcessing
	c.CreatedAt = time.Now()

	start := gocron.OneTimeJobStartImmediately()
	if p.delay > 0 {
		start = gocron.OneTimeJobStartDateTime(c.CreatedAt.Add(p.delay))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if other := p.inFlightLocked(c.CompetitionID, c.StudentIDs); other != "" {
		log.Printf("⚠️ [PAYMENT] Refusing checkout for %s: %s still in flight", c.PayerID, other)
		return Checkout{}, invalid("competition_id", "A payment for this competition is already in progress.")
	}
	pc := &pendingCheckout{checkout: c, settle: settle}
	p.checkouts[c.ID] = pc

	id := c.ID
	job, err := p.sched.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(func() { p.complete(id) }),
	)
	if err != nil {
		delete(p.checkouts, c.ID)
		return Checkout{}, fmt.Errorf("failed to schedule payment: %w", err)
	}
	pc.jobID = job.ID()
	log.Printf("💳 [PAYMENT] Checkout %s processing for %s (₦%d)", c.ID, c.PayerID, c.Quote.FinalFee)
	return c.clone(), nil
}

// inFlightLocked returns the id of an unfinished checkout for competitionID
// that shares a student with studentIDs. p.mu must be held.
func (p *PaymentSimulator) inFlightLocked(competitionID int, studentIDs []string) string {
	want := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		want[id] = true
	}
	for id, pc := range p.checkouts {
		c := &pc.checkout
		if c.finished() || c.CompetitionID != competitionID {
			continue
		}
		for _, sid := range c.StudentIDs {
			if want[sid] {
				return id
			}
		}
	}
	return ""
}

func (p *PaymentSimulator) complete(id string) {
	p.mu.Lock()
	pc, ok := p.checkouts[id]
	if !ok || pc.checkout.Status != CheckoutProcessing {
		p.mu.Unlock()
		return
	}
	pc.checkout.Status = CheckoutSettling
	snapshot := pc.checkout.clone()
	p.mu.Unlock()

	results, err := pc.settle(context.Background(), snapshot)

	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	pc.checkout.FinishedAt = &now
	pc.checkout.Results = results
	if err != nil {
		pc.checkout.Status = CheckoutFailed
		pc.checkout.Error = err.Error()
		log.Printf("❌ [PAYMENT] Checkout %s failed to settle: %v", id, err)
		return
	}
	pc.checkout.Status = CheckoutSucceeded
	log.Printf("✅ [PAYMENT] Checkout %s settled", id)
}

func (p *PaymentSimulator) Get(id string) (Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pc, ok := p.checkouts[id]
	if !ok {
		return Checkout{}, fmt.Errorf("checkout %s: %w", id, storage.ErrNotFound)
	}
	return pc.checkout.clone(), nil
}

// Cancel discards a checkout that has not started settling.
func (p *PaymentSimulator) Cancel(id string) (Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pc, ok := p.checkouts[id]
	if !ok {
		return Checkout{}, fmt.Errorf("checkout %s: %w", id, storage.ErrNotFound)
	}
	if pc.checkout.Status != CheckoutProcessing {
		return pc.checkout.clone(), fmt.Errorf("checkout %s is %s: %w", id, pc.checkout.Status, ErrCheckoutSettled)
	}
	if err := p.sched.RemoveJob(pc.jobID); err != nil {
		log.Printf("⚠️ [PAYMENT] Could not remove job for checkout %s: %v", id, err)
	}
	now := time.Now()
	pc.checkout.Status = CheckoutCancelled
	pc.checkout.FinishedAt = &now
	log.Printf("🛑 [PAYMENT] Checkout %s cancelled", id)
	return pc.checkout.clone(), nil
}

// Sweep forgets finished checkouts older than retention and returns how many
// were removed.
func (p *PaymentSimulator) Sweep(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for id, pc := range p.checkouts {
		c := &pc.checkout
		if c.finished() && c.FinishedAt != nil && c.FinishedAt.Before(cutoff) {
			delete(p.checkouts, id)
			removed++
		}
	}
	return removed
}

func (p *PaymentSimulator) Shutdown() error {
	return p.sched.Shutdown()
}

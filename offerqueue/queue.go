// Package offerqueue implements the holding area for outstanding resource
// offers described in spec §4.1: offers are ordered by host maintenance
// preference, expire on a per-offer timer, and carry a reservation overlay
// written by the Preemptor.
package offerqueue

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jasonlai/aurora/schedcore"
)

// Acceptor is supplied by the caller of LaunchFirst (TaskScheduler): given a
// candidate offer, it returns a launch plan, or ok=false if the offer does
// not fit. If it returns an error, the offer is left untouched and the
// error propagates to the caller of LaunchFirst.
type Acceptor func(ctx context.Context, offer schedcore.HostOffer) (plan schedcore.TaskInfo, ok bool, err error)

// Queue is the OfferQueue interface of spec §4.1.
type Queue interface {
	// AddOffer derives the offer's host maintenance mode, enforces the
	// one-offer-per-slave invariant (O1), and holds the offer for
	// returnDelay before declining it.
	AddOffer(ctx context.Context, offer schedcore.HostOffer, returnDelay time.Duration)
	// LaunchFirst iterates held offers in preference order (reservation
	// overlay applied if taskID has one), invoking acceptor on each until
	// one matches. Returns whether a launch was attempted, and any error
	// from the acceptor or the driver.
	LaunchFirst(ctx context.Context, taskID schedcore.TaskID, acceptor Acceptor) (launched bool, err error)
	// HostChangedState updates the maintenance mode annotation on every
	// offer held from host, which may change its ordering position.
	HostChangedState(ctx context.Context, host schedcore.HostID, mode schedcore.MaintenanceMode)
	// Reserve records a reservation (taskID -> slaveID) valid until expiry.
	Reserve(taskID schedcore.TaskID, slaveID schedcore.SlaveID, expiry time.Time)
	// ClearReservation removes any reservation held for taskID, e.g. on
	// task deletion or a transition out of PENDING.
	ClearReservation(taskID schedcore.TaskID)
	// Held returns the number of offers currently held, for tests and
	// diagnostics.
	Held() int
	// ReservationCount returns the number of live reservations, backing
	// spec §6's RESERVATIONS_CACHE_SIZE_STAT gauge.
	ReservationCount() int
}

type heldOffer struct {
	offer  schedcore.HostOffer
	handle schedcore.Handle
	seq    uint64
}

// queue is the concrete Queue implementation.
type queue struct {
	mu sync.Mutex

	offers       map[schedcore.OfferID]*heldOffer
	bySlave      map[schedcore.SlaveID]schedcore.OfferID
	reservations map[schedcore.TaskID]schedcore.Reservation
	seq          uint64

	driver schedcore.Driver
	mc     schedcore.MaintenanceController
	sched  schedcore.Scheduler
	clock  schedcore.Clock
	mtx    *Metrics
}

// New returns a new Queue.
func New(
	driver schedcore.Driver,
	mc schedcore.MaintenanceController,
	sched schedcore.Scheduler,
	clock schedcore.Clock,
	mtx *Metrics,
) Queue {
	return &queue{
		offers:       make(map[schedcore.OfferID]*heldOffer),
		bySlave:      make(map[schedcore.SlaveID]schedcore.OfferID),
		reservations: make(map[schedcore.TaskID]schedcore.Reservation),
		driver:       driver,
		mc:           mc,
		sched:        sched,
		clock:        clock,
		mtx:          mtx,
	}
}

func (q *queue) AddOffer(ctx context.Context, offer schedcore.HostOffer, returnDelay time.Duration) {
	mode, err := q.mc.GetMode(ctx, offer.HostID)
	if err != nil {
		log.WithError(err).WithField("host", offer.HostID).
			Warn("failed to look up maintenance mode, declining offer")
		q.declineNow(ctx, offer.OfferID)
		return
	}
	offer.Mode = mode
	offer.ReceivedAt = q.clock.Now()

	q.mu.Lock()
	if existingID, collides := q.bySlave[offer.SlaveID]; collides {
		existing := q.offers[existingID]
		delete(q.offers, existingID)
		delete(q.bySlave, offer.SlaveID)
		if existing != nil {
			existing.handle.Cancel()
		}
		q.mtx.slaveCollisions.Inc(1)
		q.mu.Unlock()

		log.WithFields(log.Fields{
			"slave":         offer.SlaveID,
			"existing_offer": existingID,
			"new_offer":     offer.OfferID,
		}).Warn("offer collision on slave id, declining both")

		q.declineNow(ctx, existingID)
		q.declineNow(ctx, offer.OfferID)
		return
	}

	q.seq++
	held := &heldOffer{offer: offer, seq: q.seq}
	held.handle = q.sched.ScheduleAt(offer.ReceivedAt.Add(returnDelay), func() {
		q.decline(ctx, offer.OfferID)
	})
	q.offers[offer.OfferID] = held
	q.bySlave[offer.SlaveID] = offer.OfferID
	q.mtx.offersAdded.Inc(1)
	q.mtx.offersHeld.Update(float64(len(q.offers)))
	q.mu.Unlock()
}

// decline is the decline timer callback: removes the offer if still held
// and asks the driver to decline it. A racing consumption makes this a
// no-op, per spec §4.1.
func (q *queue) decline(ctx context.Context, id schedcore.OfferID) {
	q.mu.Lock()
	held, ok := q.offers[id]
	if ok {
		delete(q.offers, id)
		delete(q.bySlave, held.offer.SlaveID)
		q.mtx.offersHeld.Update(float64(len(q.offers)))
	}
	q.mu.Unlock()

	if !ok {
		return
	}
	q.declineNow(ctx, id)
}

func (q *queue) declineNow(ctx context.Context, id schedcore.OfferID) {
	q.mtx.offersDeclined.Inc(1)
	if err := q.driver.DeclineOffer(ctx, id); err != nil {
		log.WithError(err).WithField("offer", id).Warn("decline offer failed")
	}
}

// candidatesLocked returns a snapshot of held offers in preference order,
// applying the reservation overlay for taskID. Must be called with q.mu
// held.
func (q *queue) candidatesLocked(taskID schedcore.TaskID) []schedcore.HostOffer {
	if res, ok := q.reservations[taskID]; ok {
		if res.Expired(q.clock.Now()) {
			delete(q.reservations, taskID)
		} else {
			held, ok := q.offers[q.bySlave[res.SlaveID]]
			if !ok {
				return nil
			}
			return []schedcore.HostOffer{held.offer}
		}
	}

	held := make([]*heldOffer, 0, len(q.offers))
	for _, h := range q.offers {
		held = append(held, h)
	}
	sort.SliceStable(held, func(i, j int) bool {
		if held[i].offer.Mode != held[j].offer.Mode {
			return held[i].offer.Mode < held[j].offer.Mode
		}
		return held[i].seq < held[j].seq
	})

	out := make([]schedcore.HostOffer, len(held))
	for i, h := range held {
		out[i] = h.offer
	}
	return out
}

// consume removes an offer from the queue and cancels its decline timer,
// if it is still held. Returns false if it already fired or was taken by a
// racing LaunchFirst.
func (q *queue) consume(id schedcore.OfferID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	held, ok := q.offers[id]
	if !ok {
		return false
	}
	delete(q.offers, id)
	delete(q.bySlave, held.offer.SlaveID)
	q.mtx.offersHeld.Update(float64(len(q.offers)))

	// Cancel the decline timer before returning to the caller, which will
	// launch next: a racing decline fire must not clobber an offer already
	// mid-launch.
	held.handle.Cancel()
	return true
}

func (q *queue) LaunchFirst(ctx context.Context, taskID schedcore.TaskID, acceptor Acceptor) (bool, error) {
	q.mu.Lock()
	candidates := q.candidatesLocked(taskID)
	q.mu.Unlock()

	for _, offer := range candidates {
		plan, ok, err := acceptor(ctx, offer)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}

		if !q.consume(offer.OfferID) {
			// Raced with a decline or another launch; this offer is gone,
			// try the next candidate.
			continue
		}
		q.ClearReservation(taskID)

		q.mtx.offersLaunched.Inc(1)
		if err := q.driver.LaunchTask(ctx, offer.OfferID, plan); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

func (q *queue) HostChangedState(ctx context.Context, host schedcore.HostID, mode schedcore.MaintenanceMode) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, held := range q.offers {
		if held.offer.HostID == host {
			held.offer.Mode = mode
		}
	}
	// Per spec §9's open question, a transition to DRAINED re-sorts on the
	// next LaunchFirst rather than forcing an immediate decline.
}

func (q *queue) Reserve(taskID schedcore.TaskID, slaveID schedcore.SlaveID, expiry time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.reservations[taskID] = schedcore.Reservation{TaskID: taskID, SlaveID: slaveID, Expiry: expiry}
}

func (q *queue) ClearReservation(taskID schedcore.TaskID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.reservations, taskID)
}

func (q *queue) Held() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.offers)
}

func (q *queue) ReservationCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.clock.Now()
	for id, res := range q.reservations {
		if res.Expired(now) {
			delete(q.reservations, id)
		}
	}
	return len(q.reservations)
}

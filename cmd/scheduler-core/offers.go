package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jasonlai/aurora/offerqueue"
	"github.com/jasonlai/aurora/schedcore"
)

// offerIngest periodically synthesizes host offers and feeds them into the
// queue, standing in for the real Mesos offer stream that a MaintenanceController
// and Driver would normally front (out of scope per the collaborator
// boundary). Offer and slave ids are generated with a fresh v4 UUID per
// offer, the role pkg/hostmgr/summary.offerIDgenerator plays for
// Mesos-assigned offer ids.
type offerIngest struct {
	offers      offerqueue.Queue
	returnDelay time.Duration
	hosts       []schedcore.HostID
}

func newOfferIngest(offers offerqueue.Queue, returnDelay time.Duration, hosts []schedcore.HostID) *offerIngest {
	return &offerIngest{offers: offers, returnDelay: returnDelay, hosts: hosts}
}

func (o *offerIngest) run(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var i int
	for {
		select {
		case <-ticker.C:
			host := o.hosts[i%len(o.hosts)]
			i++
			o.offers.AddOffer(ctx, schedcore.HostOffer{
				OfferID: schedcore.OfferID(uuid.NewString()),
				HostID:  host,
				SlaveID: schedcore.SlaveID(uuid.NewString()),
			}, o.returnDelay)
		case <-ctx.Done():
			return nil
		}
	}
}

// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/nftstake/eventdb"
)

// publisher delivers committed events to feed subscribers on its own
// goroutine, in the order they were enqueued.
type publisher struct {
	feed  event.Feed
	scope event.SubscriptionScope

	mu      sync.Mutex
	pending []*eventdb.Event

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newPublisher() *publisher {
	p := &publisher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

func (p *publisher) subscribe(ch chan<- *eventdb.Event) event.Subscription {
	return p.scope.Track(p.feed.Subscribe(ch))
}

// enqueue never blocks.
func (p *publisher) enqueue(events []*eventdb.Event) {
	if len(events) == 0 {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, events...)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *publisher) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		p.mu.Lock()
		batch := p.pending
		p.pending = nil
		p.mu.Unlock()

		for _, ev := range batch {
			// blocks until every subscriber took it or unsubscribed
			p.feed.Send(ev)
		}
	}
}

// close unsubscribes everyone, which releases a blocked Send, then stops the loop.
func (p *publisher) close() {
	p.closeOnce.Do(func() {
		p.scope.Close()
		close(p.done)
		p.wg.Wait()
	})
}

package service

import (
	"context"
	"errors"
	"sync"
)

// fakeGenerator returns canned responses in order, repeating the last one.
// When hold is set, each call signals entered and waits for hold to close.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
	hold      chan struct{}
	entered   chan struct{}
}

func (g *fakeGenerator) Generate(_ context.Context, _, prompt string) (string, error) {
	if g.hold != nil {
		g.entered <- struct{}{}
		<-g.hold
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", errors.New("no response configured")
	}
	resp := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return resp, nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type delivered struct {
	userID string
	text   string
}

type fakeDeliverer struct {
	mu       sync.Mutex
	messages []delivered
	err      error
}

func (d *fakeDeliverer) Deliver(_ context.Context, userID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, delivered{userID: userID, text: text})
	return d.err
}

func (d *fakeDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

//go:build headless

// hostinput_headless.go - scriptable HostInput for tests (spec §6).

package main

type headlessHostInput struct {
	queued []ButtonState
	last   ButtonState
}

// NewEbitenHostInput keeps the real backend's constructor name so
// callers don't need a build-tag switch of their own.
func NewEbitenHostInput() HostInput {
	return &headlessHostInput{}
}

// Queue appends button states to be returned by successive Poll calls,
// letting tests script an input sequence deterministically.
func (h *headlessHostInput) Queue(states ...ButtonState) {
	h.queued = append(h.queued, states...)
}

func (h *headlessHostInput) Poll() ButtonState {
	if len(h.queued) == 0 {
		return h.last
	}
	next := h.queued[0]
	h.queued = h.queued[1:]
	h.last = next
	return next
}

// Package voctest provides an in-memory voc.Transport for tests.
package voctest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/autopeer-io/vocbridge/internal/voc"
)

// Call records one request made through the fake.
type Call struct {
	Method string
	Ref    string
	Body   any
}

// Transport answers requests from canned JSON responses. Responses queued
// for the same route are consumed in order; the last one repeats.
type Transport struct {
	mu        sync.Mutex
	responses map[string][]response
	calls     []Call
}

type response struct {
	body string
	err  error
}

var _ voc.Transport = (*Transport)(nil)

func New() *Transport {
	return &Transport{responses: make(map[string][]response)}
}

func key(method, ref string) string { return method + " " + ref }

// On queues a JSON body for method+ref.
func (t *Transport) On(method, ref, body string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(method, ref)
	t.responses[k] = append(t.responses[k], response{body: body})
	return t
}

// Fail queues an error for method+ref.
func (t *Transport) Fail(method, ref string, err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(method, ref)
	t.responses[k] = append(t.responses[k], response{err: err})
	return t
}

func (t *Transport) Get(ctx context.Context, ref string, out any) error {
	return t.serve("GET", ref, nil, out)
}

func (t *Transport) Post(ctx context.Context, ref string, body any, out any) error {
	return t.serve("POST", ref, body, out)
}

func (t *Transport) serve(method, ref string, body any, out any) error {
	t.mu.Lock()
	t.calls = append(t.calls, Call{Method: method, Ref: ref, Body: body})
	k := key(method, ref)
	queue := t.responses[k]
	if len(queue) == 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: no response for %s", voc.ErrTransport, k)
	}
	r := queue[0]
	if len(queue) > 1 {
		t.responses[k] = queue[1:]
	}
	t.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if out == nil || r.body == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(r.body), out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", voc.ErrTransport, k, err)
	}
	return nil
}

// Calls returns a copy of every request seen so far.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Count returns how many times method+ref was requested.
func (t *Transport) Count(method, ref string) int {
	n := 0
	for _, c := range t.Calls() {
		if c.Method == method && c.Ref == ref {
			n++
		}
	}
	return n
}

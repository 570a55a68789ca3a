// Package huetest provides a scripted hue.Transport for tests.
package huetest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dokzlo13/huectl/internal/hue"
)

// Call is a request answered by the Transport
type Call struct {
	Method string
	Path   string
	Body   string
}

// Transport answers each METHOD+path with scripted responses in order. Every response but the
// last for a route is used once; the last one repeats. Unscripted calls fail with an error.
//
// The embedded mock.Mock is usable directly, for example AssertExpectations or AssertCalled
// with the HTTP method as the method name and (path, body) as arguments.
type Transport struct {
	mock.Mock

	mu   sync.Mutex
	last map[string]*mock.Call
}

var _ hue.Transport = (*Transport)(nil)

// New creates an empty Transport
func New() *Transport {
	return &Transport{last: make(map[string]*mock.Call)}
}

// On scripts a successful response body
func (t *Transport) On(method, path, body string) *Transport {
	return t.script(method, path, body, nil)
}

// Fail scripts a failure
func (t *Transport) Fail(method, path string, err error) *Transport {
	return t.script(method, path, "", err)
}

// OK scripts the bridge's generic success reply for a write
func (t *Transport) OK(method, path string) *Transport {
	return t.On(method, path, `[{"success":{}}]`)
}

func (t *Transport) script(method, path, body string, err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := method + " " + path
	if prev, ok := t.last[key]; ok {
		prev.Once()
	}
	t.last[key] = t.Mock.On(method, path, mock.Anything).Return(body, err)
	return t
}

// Calls returns every answered request in order
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Call, 0, len(t.Mock.Calls))
	for _, c := range t.Mock.Calls {
		out = append(out, Call{Method: c.Method, Path: c.Arguments.String(0), Body: c.Arguments.String(1)})
	}
	return out
}

// CallsTo returns the requests made to a route
func (t *Transport) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range t.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (t *Transport) Get(ctx context.Context, path string) ([]byte, error) {
	return t.respond(http.MethodGet, path, nil)
}

func (t *Transport) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return t.respond(http.MethodPost, path, body)
}

func (t *Transport) Put(ctx context.Context, path string, body []byte) ([]byte, error) {
	return t.respond(http.MethodPut, path, body)
}

func (t *Transport) Delete(ctx context.Context, path string) ([]byte, error) {
	return t.respond(http.MethodDelete, path, nil)
}

// respond turns mock's panic on an unmatched call into an error so the code under test
// sees an ordinary transport failure
func (t *Transport) respond(method, path string, body []byte) (resp []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp, err = nil, fmt.Errorf("huetest: unscripted call %s %s", method, path)
		}
	}()

	args := t.MethodCalled(method, path, string(body))
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return []byte(args.String(0)), nil
}

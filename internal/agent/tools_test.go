package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synctrack/sylvia/internal/crm"
	"github.com/synctrack/sylvia/internal/lead"
	"github.com/synctrack/sylvia/pkg/logging"
)

// fakeSubmitter records payloads and returns a canned result.
type fakeSubmitter struct {
	result crm.Result
	calls  []crm.Payload
}

func (f *fakeSubmitter) Submit(_ context.Context, p crm.Payload) crm.Result {
	f.calls = append(f.calls, p)
	return f.result
}

func newTestSession(sub crm.Submitter) *Session {
	return &Session{
		ID:      "sess-1",
		Tracker: lead.NewTracker(sub, lead.TrackerConfig{}, logging.New("error")),
	}
}

func TestRegistryDefinitions(t *testing.T) {
	r := NewRegistry(nil, logging.New("error"))

	defs := r.Definitions()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}

	assert.Equal(t, []string{
		"set_name", "set_company", "set_intent", "set_phone",
		"set_email", "confirm_email", "submit_lead",
		"get_services", "get_current_time",
	}, names)
}

func TestDispatchSetters(t *testing.T) {
	r := NewRegistry(nil, logging.New("error"))
	s := newTestSession(&fakeSubmitter{})

	reply, err := r.Dispatch(context.Background(), s, "set_name", json.RawMessage(`{"name":"Jane Doe"}`))
	require.NoError(t, err)
	assert.Contains(t, reply, "Jane Doe")
	assert.Equal(t, "Jane Doe", s.Tracker.Record().Name)

	_, err = r.Dispatch(context.Background(), s, "set_company", json.RawMessage(`{"company":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", s.Tracker.Record().Company)

	_, err = r.Dispatch(context.Background(), s, "set_intent", json.RawMessage(`{"intent":"workflow automation"}`))
	require.NoError(t, err)
	assert.Equal(t, "workflow automation", s.Tracker.Record().Intent)

	_, err = r.Dispatch(context.Background(), s, "set_phone", json.RawMessage(`{"phone":"+15550123"}`))
	require.NoError(t, err)
	assert.Equal(t, "+15550123", s.Tracker.Record().Phone)
}

func TestDispatchEmailFlow(t *testing.T) {
	r := NewRegistry(nil, logging.New("error"))
	s := newTestSession(&fakeSubmitter{})

	reply, err := r.Dispatch(context.Background(), s, "set_email", json.RawMessage(`{"email":"jane@acme.com"}`))
	require.NoError(t, err)
	assert.Contains(t, reply, "j a n e at a c m e dot c o m")
	assert.False(t, s.Tracker.Record().EmailVerified)

	reply, err = r.Dispatch(context.Background(), s, "confirm_email", json.RawMessage(`{"is_correct":true}`))
	require.NoError(t, err)
	assert.Contains(t, reply, "thanks")
	assert.True(t, s.Tracker.Record().EmailVerified)

	_, err = r.Dispatch(context.Background(), s, "confirm_email", json.RawMessage(`{"is_correct":false}`))
	require.NoError(t, err)
	assert.False(t, s.Tracker.Record().EmailVerified)
	assert.Equal(t, "jane@acme.com", s.Tracker.Record().Email)
}

func TestDispatchSubmitLead(t *testing.T) {
	sub := &fakeSubmitter{result: crm.Result{Accepted: true, Status: 200}}
	r := NewRegistry(nil, logging.New("error"))
	s := newTestSession(sub)

	args := json.RawMessage(`{"name":"Jane Doe","company":"Acme","intent":"workflow automation","email":"jane@acme.com","summary":"wants dashboards"}`)
	reply, err := r.Dispatch(context.Background(), s, "submit_lead", args)
	require.NoError(t, err)
	assert.Contains(t, reply, "Acme")

	require.Len(t, sub.calls, 1)
	assert.Equal(t, "jane@acme.com", sub.calls[0].Email)
	assert.Equal(t, crm.NotProvided, sub.calls[0].Phone)
	assert.True(t, s.Tracker.Record().Submitted)
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry(nil, logging.New("error"))
	s := newTestSession(&fakeSubmitter{})

	_, err := r.Dispatch(context.Background(), s, "book_meeting", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestDispatchMissingArguments(t *testing.T) {
	r := NewRegistry(nil, logging.New("error"))
	s := newTestSession(&fakeSubmitter{})

	for _, tc := range []struct {
		tool string
		args string
	}{
		{"set_name", `{}`},
		{"set_email", `{"email":""}`},
		{"confirm_email", `{}`},
		{"submit_lead", `{"name":"Jane"}`},
		{"set_phone", `not json`},
	} {
		_, err := r.Dispatch(context.Background(), s, tc.tool, json.RawMessage(tc.args))
		assert.ErrorIs(t, err, ErrBadArguments, "tool %s args %s", tc.tool, tc.args)
	}
}

func TestDispatchInfoTools(t *testing.T) {
	r := NewRegistry(nil, logging.New("error"))
	r.now = func() time.Time {
		return time.Date(2026, time.March, 14, 15, 4, 0, 0, time.UTC)
	}
	s := newTestSession(&fakeSubmitter{})

	reply, err := r.Dispatch(context.Background(), s, "get_services", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "Workflow Automation")

	reply, err = r.Dispatch(context.Background(), s, "get_current_time", nil)
	require.NoError(t, err)
	assert.Equal(t, "The current date and time is March 14, 2026 at 3:04 PM", reply)
}

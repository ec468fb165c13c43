package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PWS-ReservationService/internal/domain"
	"github.com/m04kA/PWS-ReservationService/internal/integrations/mailservice"
)

type sentMail struct {
	template    string
	recipientID int64
	fields      []string
}

type fakeMailSender struct {
	sent []sentMail
	err  error
}

func (f *fakeMailSender) SendTemplate(_ context.Context, template string, recipientID int64, fields ...string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{template: template, recipientID: recipientID, fields: fields})
	return nil
}

type fakePublisher struct {
	events []ReservationEvent
}

func (f *fakePublisher) Publish(event ReservationEvent) {
	f.events = append(f.events, event)
}

type fakeMetrics struct {
	counts map[string]int
}

func (f *fakeMetrics) IncNotification(channel, status string) {
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[channel+"/"+status]++
}

type dispatcherLogger struct{}

func (dispatcherLogger) Info(string, ...interface{})  {}
func (dispatcherLogger) Error(string, ...interface{}) {}

func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:         10,
		UserID:     1,
		ProviderID: 5,
		Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "11:00",
		Status:     domain.StatusPending,
		UserArea:   "north",
	}
}

func TestDispatcher_ReservationCreated(t *testing.T) {
	mail := &fakeMailSender{}
	pub := &fakePublisher{}
	d := NewDispatcher(mail, pub, nil, dispatcherLogger{})

	d.ReservationCreated(context.Background(), testReservation(), 50)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, mailservice.TemplateReservationRequested, mail.sent[0].template)
	assert.Equal(t, int64(50), mail.sent[0].recipientID, "the assigned provider gets the email")
	assert.Equal(t, []string{"2026-03-09", "10:00", "11:00"}, mail.sent[0].fields)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventReservationCreated, pub.events[0].Type)
	assert.Equal(t, "north", pub.events[0].Area)
	assert.Equal(t, "2026-03-09", pub.events[0].Date)
}

func TestDispatcher_ReservationAccepted(t *testing.T) {
	mail := &fakeMailSender{}
	pub := &fakePublisher{}
	d := NewDispatcher(mail, pub, nil, dispatcherLogger{})

	d.ReservationAccepted(context.Background(), testReservation())

	require.Len(t, mail.sent, 1)
	assert.Equal(t, mailservice.TemplateReservationAccepted, mail.sent[0].template)
	assert.Equal(t, int64(1), mail.sent[0].recipientID, "the requester gets the email")
}

// Reassignment notifies both sides: the requester about the change,
// the new provider about the incoming request.
func TestDispatcher_ReservationReassigned(t *testing.T) {
	mail := &fakeMailSender{}
	pub := &fakePublisher{}
	d := NewDispatcher(mail, pub, nil, dispatcherLogger{})

	d.ReservationReassigned(context.Background(), testReservation(), 60)

	require.Len(t, mail.sent, 2)
	assert.Equal(t, mailservice.TemplateReservationReassigned, mail.sent[0].template)
	assert.Equal(t, int64(1), mail.sent[0].recipientID)
	assert.Equal(t, mailservice.TemplateReservationRequested, mail.sent[1].template)
	assert.Equal(t, int64(60), mail.sent[1].recipientID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventReservationReassigned, pub.events[0].Type)
}

func TestDispatcher_ReservationCancelled(t *testing.T) {
	mail := &fakeMailSender{}
	pub := &fakePublisher{}
	d := NewDispatcher(mail, pub, nil, dispatcherLogger{})

	d.ReservationCancelled(context.Background(), testReservation(), 50)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, mailservice.TemplateReservationCancelled, mail.sent[0].template)
	assert.Equal(t, int64(50), mail.sent[0].recipientID)
}

// Completion is a bookkeeping transition: live subscribers are told,
// no email is sent.
func TestDispatcher_ReservationCompleted(t *testing.T) {
	mail := &fakeMailSender{}
	pub := &fakePublisher{}
	d := NewDispatcher(mail, pub, nil, dispatcherLogger{})

	res := testReservation()
	res.Status = domain.StatusCompleted
	d.ReservationCompleted(context.Background(), res)

	assert.Empty(t, mail.sent)
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventReservationCompleted, pub.events[0].Type)
	assert.Equal(t, string(domain.StatusCompleted), pub.events[0].Status)
}

// A mail failure is swallowed: the live event still goes out and
// the caller is never affected.
func TestDispatcher_MailFailureIsSwallowed(t *testing.T) {
	mail := &fakeMailSender{err: errors.New("smtp down")}
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}
	d := NewDispatcher(mail, pub, metrics, dispatcherLogger{})

	d.ReservationRejected(context.Background(), testReservation())

	assert.Len(t, pub.events, 1)
	assert.Equal(t, 1, metrics.counts["email/failed"])
	assert.Equal(t, 1, metrics.counts["live/ok"])
}

func TestDispatcher_NilMetrics(t *testing.T) {
	mail := &fakeMailSender{}
	pub := &fakePublisher{}
	d := NewDispatcher(mail, pub, nil, dispatcherLogger{})

	// Must not panic with metrics disabled
	d.ReservationAccepted(context.Background(), testReservation())
}

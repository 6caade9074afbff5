package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

type mockParties struct {
	party *models.Party
	err   error
}

func (m *mockParties) GetParty(context.Context, string, string) (*models.Party, error) {
	return m.party, m.err
}

type captureOutbox struct {
	mu         sync.Mutex
	deliveries []*Delivery
}

func (c *captureOutbox) Enqueue(d *Delivery) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliveries = append(c.deliveries, d)
}

type mockSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *mockSender) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func claimWithContractor() *models.Claim {
	id := "p1"
	return &models.Claim{
		ID:               "c1",
		ClaimNumber:      "CLM-100",
		PolicyholderName: "Jane Doe",
		LossStreet:       "1 Main St",
		LossCity:         "Denver",
		LossState:        "CO",
		LossZip:          "80202",
		ContractorID:     &id,
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "$0.00"},
		{in: 4500, want: "$4,500.00"},
		{in: 1234567.891, want: "$1,234,567.89"},
	}

	for _, tc := range tests {
		if got := formatMoney(tc.in); got != tc.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNotifySupplementApproved_PartialWording(t *testing.T) {
	approved := 4500.0

	tests := []struct {
		name        string
		status      models.SupplementStatus
		wantPartial bool
	}{
		{name: "approved", status: models.SupplementApproved, wantPartial: false},
		{name: "partial", status: models.SupplementPartial, wantPartial: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := &captureOutbox{}
			d := NewDispatcher(&mockParties{party: &models.Party{ID: "p1", Email: "crew@acme.test"}}, out, "https://app.test/", testLogger())

			d.NotifySupplementApproved(context.Background(), "t1", claimWithContractor(), &models.Supplement{
				ID: "s1", Sequence: 2, Amount: 5000, ApprovedAmount: &approved, Status: tc.status,
			})

			if len(out.deliveries) != 1 {
				t.Fatalf("deliveries = %d, want 1", len(out.deliveries))
			}
			msg := out.deliveries[0].Email
			if msg.To != "crew@acme.test" {
				t.Errorf("to = %q", msg.To)
			}

			hasPartial := strings.Contains(msg.Text, "partially approved")
			if hasPartial != tc.wantPartial {
				t.Errorf("partial wording = %v, want %v; text = %q", hasPartial, tc.wantPartial, msg.Text)
			}
			if tc.wantPartial && !strings.Contains(msg.Text, "$4,500.00 of $5,000.00") {
				t.Errorf("text = %q, want approved of requested", msg.Text)
			}
			if !strings.Contains(msg.HTML, "https://app.test/claims/c1") {
				t.Errorf("html missing claim link: %q", msg.HTML)
			}
		})
	}
}

func TestNotifySupplementApproved_Skips(t *testing.T) {
	tests := []struct {
		name    string
		parties *mockParties
		claim   *models.Claim
		status  models.SupplementStatus
	}{
		{name: "denied", parties: &mockParties{party: &models.Party{Email: "a@b.test"}}, claim: claimWithContractor(), status: models.SupplementDenied},
		{name: "no contractor", parties: &mockParties{}, claim: &models.Claim{ID: "c1"}, status: models.SupplementApproved},
		{name: "no email", parties: &mockParties{party: &models.Party{ID: "p1"}}, claim: claimWithContractor(), status: models.SupplementApproved},
		{name: "lookup fails", parties: &mockParties{err: errors.New("db down")}, claim: claimWithContractor(), status: models.SupplementApproved},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := &captureOutbox{}
			d := NewDispatcher(tc.parties, out, "", testLogger())

			d.NotifySupplementApproved(context.Background(), "t1", tc.claim, &models.Supplement{ID: "s1", Amount: 10, Status: tc.status})

			if len(out.deliveries) != 0 {
				t.Errorf("deliveries = %d, want 0", len(out.deliveries))
			}
		})
	}
}

func TestNotifyStatusChange(t *testing.T) {
	out := &captureOutbox{}
	d := NewDispatcher(&mockParties{party: &models.Party{ID: "p1", Email: "crew@acme.test"}}, out, "", testLogger())

	d.NotifyStatusChange(context.Background(), "t1", claimWithContractor(), models.StatusSupplementSent, models.StatusAwaitingCarrierResponse)

	if len(out.deliveries) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(out.deliveries))
	}
	del := out.deliveries[0]
	if del.Email == nil || !strings.Contains(del.Email.Subject, "Awaiting Carrier Response") {
		t.Errorf("email = %+v", del.Email)
	}
	if !strings.Contains(del.Email.Text, "1 Main St, Denver, CO 80202") {
		t.Errorf("text = %q, want loss address", del.Email.Text)
	}
	if !strings.Contains(del.Chat, "CLM-100") {
		t.Errorf("chat = %q", del.Chat)
	}
}

func TestNotifyStatusChange_NoContractorStillMirrors(t *testing.T) {
	out := &captureOutbox{}
	d := NewDispatcher(&mockParties{}, out, "", testLogger())

	d.NotifyStatusChange(context.Background(), "t1", &models.Claim{ID: "c1", ClaimNumber: "CLM-1"}, models.StatusApproved, models.StatusFinalInvoicePending)

	if len(out.deliveries) != 1 || out.deliveries[0].Email != nil || out.deliveries[0].Chat == "" {
		t.Errorf("deliveries = %+v, want chat only", out.deliveries)
	}
}

func TestOutbox_SendsAndDrains(t *testing.T) {
	sender := &mockSender{}
	o := NewOutbox(sender, nil, testLogger(), 10)

	o.Enqueue(&Delivery{Event: "a", Email: &Message{To: "x@y.test"}})
	o.Enqueue(&Delivery{Event: "b", Email: &Message{To: "x@y.test"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Run(ctx)

	if n := sender.count(); n != 2 {
		t.Errorf("sent = %d, want 2 after drain", n)
	}
}

func TestOutbox_DropsWhenFull(t *testing.T) {
	sender := &mockSender{}
	o := NewOutbox(sender, nil, testLogger(), 1)

	o.Enqueue(&Delivery{Event: "a", Email: &Message{}})

	done := make(chan struct{})
	go func() {
		o.Enqueue(&Delivery{Event: "b", Email: &Message{}})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	if len(o.jobs) != 1 {
		t.Errorf("queue length = %d, want 1", len(o.jobs))
	}
}

func TestOutbox_SenderErrorSwallowed(t *testing.T) {
	sender := &mockSender{err: errors.New("provider down")}
	o := NewOutbox(sender, nil, testLogger(), 1)

	o.process(&Delivery{Event: "a", Email: &Message{To: "x@y.test"}})

	if n := sender.count(); n != 1 {
		t.Errorf("attempts = %d, want exactly one", n)
	}
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, Message) error { panic("smtp client nil") }

type panickingPoster struct{}

func (panickingPoster) Post(context.Context, string) error { panic("webhook nil") }

type posterFunc func(ctx context.Context, text string) error

func (f posterFunc) Post(ctx context.Context, text string) error { return f(ctx, text) }

type panickingParties struct{}

func (panickingParties) GetParty(context.Context, string, string) (*models.Party, error) {
	panic("pool closed")
}

func TestOutbox_PanicsContained(t *testing.T) {
	o := NewOutbox(panickingSender{}, panickingPoster{}, testLogger(), 2)

	o.Enqueue(&Delivery{Event: "a", Email: &Message{To: "x@y.test"}, Chat: "first"})
	o.Enqueue(&Delivery{Event: "b", Email: &Message{To: "x@y.test"}, Chat: "second"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Run(ctx)

	if len(o.jobs) != 0 {
		t.Errorf("queue length = %d, want every delivery processed", len(o.jobs))
	}
}

func TestOutbox_EmailPanicStillMirrors(t *testing.T) {
	var posted []string
	o := NewOutbox(panickingSender{}, posterFunc(func(_ context.Context, text string) error {
		posted = append(posted, text)
		return nil
	}), testLogger(), 1)

	o.process(&Delivery{Event: "a", Email: &Message{To: "x@y.test"}, Chat: "moved"})

	if len(posted) != 1 || posted[0] != "moved" {
		t.Errorf("posted = %v, want the chat mirror after a failed email", posted)
	}
}

func TestDispatcher_PartyPanicContained(t *testing.T) {
	out := &captureOutbox{}
	d := NewDispatcher(panickingParties{}, out, "", testLogger())
	claim := claimWithContractor()

	d.NotifyStatusChange(context.Background(), "t1", claim, models.StatusNewSupplement, models.StatusContractorReview)

	approved := 900.0
	d.NotifySupplementApproved(context.Background(), "t1", claim, &models.Supplement{
		ID: "s1", Sequence: 1, Amount: 1000, ApprovedAmount: &approved, Status: models.SupplementApproved,
	})

	if len(out.deliveries) != 1 || out.deliveries[0].Email != nil || out.deliveries[0].Chat == "" {
		t.Errorf("deliveries = %+v, want only the status change chat mirror", out.deliveries)
	}
}

func TestHTTPSender(t *testing.T) {
	var got map[string]string
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["to"] == "fail@x.test" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL, "key-1", "noreply@claimdesk.test", srv.Client())

	if err := s.Send(context.Background(), Message{To: "a@x.test", Subject: "Hi", HTML: "<p>x</p>", Text: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer key-1" {
		t.Errorf("authorization = %q", auth)
	}
	if got["from"] != "noreply@claimdesk.test" || got["subject"] != "Hi" {
		t.Errorf("payload = %v", got)
	}

	err := s.Send(context.Background(), Message{To: "fail@x.test"})
	if !errors.Is(err, models.ErrDependencyUnavailable) {
		t.Errorf("err = %v, want ErrDependencyUnavailable", err)
	}
}

func TestSlackMirror(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if err := NewSlackMirror(srv.URL).Post(context.Background(), "Claim *CLM-1* moved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["text"] != "Claim *CLM-1* moved" {
		t.Errorf("text = %v", body["text"])
	}
}

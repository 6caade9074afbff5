package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/claimdesk/claimdesk/internal/metrics"
	"github.com/claimdesk/claimdesk/internal/models"
)

const lookupTimeout = 5 * time.Second

// PartyReader loads the party a claim references.
type PartyReader interface {
	GetParty(ctx context.Context, tenantID, partyID string) (*models.Party, error)
}

// Enqueuer accepts deliveries without blocking.
type Enqueuer interface {
	Enqueue(d *Delivery)
}

// Dispatcher turns claim events into deliveries for the contractor on the claim.
type Dispatcher struct {
	parties PartyReader
	outbox  Enqueuer
	baseURL string
	log     *logrus.Logger
}

// NewDispatcher creates a Dispatcher. baseURL, when set, is used to link to the claim.
func NewDispatcher(parties PartyReader, outbox Enqueuer, baseURL string, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{parties: parties, outbox: outbox, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// NotifyStatusChange emails the claim's contractor about a status change and mirrors
// it to chat.
func (d *Dispatcher) NotifyStatusChange(
	ctx context.Context, tenantID string, claim *models.Claim, from, to models.ClaimStatus,
) {
	entry := d.log.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"claim_id":  claim.ID,
		"event":     "claim.status_change",
	})
	defer recoverPanic(entry, "email")

	data := statusChangeData{
		ClaimNumber:  claim.ClaimNumber,
		Policyholder: claim.PolicyholderName,
		Address:      lossAddress(claim),
		From:         from.Label(),
		To:           to.Label(),
		ClaimURL:     d.claimURL(claim.ID),
	}

	delivery := &Delivery{
		TenantID: tenantID,
		Event:    "claim.status_change",
		Chat:     fmt.Sprintf("Claim *%s* moved from %s to *%s*", claim.ClaimNumber, data.From, data.To),
	}

	if recipient := d.contractorEmail(ctx, tenantID, claim, entry); recipient != "" {
		html, text, err := render("status_change", data)
		if err != nil {
			metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
			entry.WithError(err).Error("composing status change email")
		} else {
			delivery.Email = &Message{
				To:      recipient,
				Subject: fmt.Sprintf("Claim %s is now %s", claim.ClaimNumber, data.To),
				HTML:    html,
				Text:    text,
			}
		}
	}

	d.outbox.Enqueue(delivery)
}

// NotifySupplementApproved emails the claim's contractor about an approved or
// partially approved supplement. Other statuses are ignored.
func (d *Dispatcher) NotifySupplementApproved(
	ctx context.Context, tenantID string, claim *models.Claim, sup *models.Supplement,
) {
	entry := d.log.WithFields(logrus.Fields{
		"tenant_id":     tenantID,
		"claim_id":      claim.ID,
		"supplement_id": sup.ID,
		"event":         "supplement.approved",
	})
	defer recoverPanic(entry, "email")

	if !sup.Status.Decided() {
		entry.WithField("status", sup.Status).Debug("supplement not approved, skipping notification")
		return
	}

	recipient := d.contractorEmail(ctx, tenantID, claim, entry)
	if recipient == "" {
		return
	}

	approved := sup.Amount
	if sup.ApprovedAmount != nil {
		approved = *sup.ApprovedAmount
	}

	data := supplementData{
		ClaimNumber: claim.ClaimNumber,
		Sequence:    sup.Sequence,
		Requested:   formatMoney(sup.Amount),
		Approved:    formatMoney(approved),
		Partial:     sup.Status == models.SupplementPartial,
		ClaimURL:    d.claimURL(claim.ID),
	}

	html, text, err := render("supplement_approved", data)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
		entry.WithError(err).Error("composing supplement approval email")
		return
	}

	subject := fmt.Sprintf("Supplement #%d approved on claim %s", sup.Sequence, claim.ClaimNumber)
	if data.Partial {
		subject = fmt.Sprintf("Supplement #%d partially approved on claim %s", sup.Sequence, claim.ClaimNumber)
	}

	d.outbox.Enqueue(&Delivery{
		TenantID: tenantID,
		Event:    "supplement.approved",
		Email:    &Message{To: recipient, Subject: subject, HTML: html, Text: text},
	})
}

// contractorEmail returns the claim contractor's address, or "" when there is none.
func (d *Dispatcher) contractorEmail(
	ctx context.Context, tenantID string, claim *models.Claim, entry *logrus.Entry,
) (email string) {
	defer recoverPanic(entry, "email")

	if claim.ContractorID == nil {
		metrics.NotificationsTotal.WithLabelValues("email", "skipped").Inc()
		entry.Info("claim has no contractor, skipping email")
		return ""
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
	defer cancel()

	party, err := d.parties.GetParty(ctx, tenantID, *claim.ContractorID)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
		entry.WithError(err).Warn("loading contractor for notification")
		return ""
	}

	if party.Email == "" {
		metrics.NotificationsTotal.WithLabelValues("email", "skipped").Inc()
		entry.WithField("contractor_id", party.ID).Info("contractor has no email, skipping")
		return ""
	}

	return party.Email
}

func (d *Dispatcher) claimURL(claimID string) string {
	if d.baseURL == "" {
		return ""
	}
	return d.baseURL + "/claims/" + claimID
}

func lossAddress(c *models.Claim) string {
	var parts []string
	for _, p := range []string{c.LossStreet, c.LossCity, strings.TrimSpace(c.LossState + " " + c.LossZip)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

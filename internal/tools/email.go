package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type EmailDraft struct {
	ID        string
	To        string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Outbox holds email drafts for the lifetime of a session.
type Outbox struct {
	drafts []EmailDraft
	now    func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Drafts() []EmailDraft {
	return o.drafts
}

type emailDetails struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Draft stores an email draft and returns its full content together with a
// reference id. Drafting the exact same (to, subject, body) again does not add
// a second copy and reports the id of the existing draft.
func (o *Outbox) Draft(_ context.Context, args json.RawMessage) string {
	var details emailDetails
	if len(args) > 0 {
		if err := json.Unmarshal(args, &details); err != nil {
			return fmt.Sprintf("Failed to draft email: %v", err)
		}
	}

	id := randomToken(8)
	duplicate := false
	for _, d := range o.drafts {
		if d.To == details.To && d.Subject == details.Subject && d.Body == details.Body {
			id = d.ID
			duplicate = true
			break
		}
	}
	if !duplicate {
		o.drafts = append(o.drafts, EmailDraft{
			ID:        id,
			To:        details.To,
			Subject:   details.Subject,
			Body:      details.Body,
			CreatedAt: o.now(),
		})
	}

	return fmt.Sprintf(
		"Email drafted to %s with subject '%s'\n\nTo: %s\nSubject: %s\nBody:\n%s\n\nEmail ID: %s (Use this ID to reference this email later)",
		details.To, details.Subject,
		details.To, details.Subject, details.Body,
		id,
	)
}

package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notification kinds
const (
	NotificationTaxesDue        = "taxes.due"
	NotificationInterestCharged = "interest.charged"
)

// Recipient types
const (
	RecipientEntity  = "entity"
	RecipientAccount = "account"
)

// Severity levels
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Notification is an outbox row handed to the notification collaborator.
type Notification struct {
	ID            string
	RecipientType string
	RecipientID   int64
	Kind          string
	Severity      string
	Message       string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// InterestChargedEvent payload
type InterestChargedEvent struct {
	EntityID int64  `json:"entity_id"`
	Balance  string `json:"balance"`
	Interest string `json:"interest"`
	Rate     string `json:"rate"`
	ChargeAt string `json:"charge_at"`
}

// TaxesDueEvent payload
type TaxesDueEvent struct {
	AccountID int64  `json:"account_id"`
	Balance   string `json:"balance"`
	LastPaid  string `json:"last_paid,omitempty"`
}

// NewNotification builds an outbox row. payload is flattened into a JSON object.
func NewNotification(id, recipientType string, recipientID int64, kind, severity, message string, payload any, now time.Time) (*Notification, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", kind, err)
	}

	return &Notification{
		ID:            id,
		RecipientType: recipientType,
		RecipientID:   recipientID,
		Kind:          kind,
		Severity:      severity,
		Message:       message,
		Payload:       fields,
		CreatedAt:     now,
	}, nil
}

package models

import (
	"fmt"
	"strings"
)

// AuditRequest is the payload coming from the frontend into /api/audit.
type AuditRequest struct {
	BusinessName string `json:"businessName"`   // free text, may be a greeting or a typo'd name
	City         string `json:"city,omitempty"` // optional locality
}

// ClientInputError marks a request the caller must fix.
type ClientInputError struct {
	Field   string
	Message string
}

func (e *ClientInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate reports a missing or blank business name.
func (r AuditRequest) Validate() error {
	if strings.TrimSpace(r.BusinessName) == "" {
		return &ClientInputError{Field: "businessName", Message: "is required"}
	}
	return nil
}

type IntentKind string

const (
	IntentSearch IntentKind = "SEARCH"
	IntentChat   IntentKind = "CHAT"
)

// Intent is the classifier verdict. Reply is only set for chat intents.
type Intent struct {
	Kind  IntentKind `json:"type"`
	Reply string     `json:"reply,omitempty"`
}

func SearchIntent() Intent           { return Intent{Kind: IntentSearch} }
func ChatIntent(reply string) Intent { return Intent{Kind: IntentChat, Reply: reply} }

func (i Intent) IsChat() bool { return i.Kind == IntentChat }

type OutcomeKind string

const (
	OutcomeKindChat     OutcomeKind = "chat"
	OutcomeKindNotFound OutcomeKind = "not_found"
	OutcomeKindReport   OutcomeKind = "report"
)

// AuditOutcome is one of OutcomeChat, OutcomeNotFound or OutcomeReport.
type AuditOutcome interface {
	Kind() OutcomeKind
}

type OutcomeChat struct {
	Reply string
}

type OutcomeNotFound struct {
	Message string
}

type OutcomeReport struct {
	Profile   BusinessProfile
	Findings  []LeakFinding
	Verdict   LossVerdict
	Narrative string
}

func (OutcomeChat) Kind() OutcomeKind     { return OutcomeKindChat }
func (OutcomeNotFound) Kind() OutcomeKind { return OutcomeKindNotFound }
func (OutcomeReport) Kind() OutcomeKind   { return OutcomeKindReport }

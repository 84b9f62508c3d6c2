// models/audit_event.go
package models

import "time"

type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	User      string    `json:"user"`
}

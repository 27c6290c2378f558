package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryAction identifies the kind of mutation captured by a history entry.
type HistoryAction string

const (
	HistoryActionCreated     HistoryAction = "created"
	HistoryActionUpdated     HistoryAction = "updated"
	HistoryActionCancelled   HistoryAction = "cancelled"
	HistoryActionRescheduled HistoryAction = "rescheduled"
	HistoryActionCompleted   HistoryAction = "completed"
	HistoryActionNoShow      HistoryAction = "no_show"
)

// Snapshot is a shallow field-name -> serialized-value capture used for
// before/after comparison in the audit ledger. Keeping values as plain strings
// keeps the ledger machine-checkable.
type Snapshot map[string]string

// Value implements driver.Valuer for JSONB storage.
func (s Snapshot) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal snapshot value:", value))
	}

	result := map[string]string{}
	err := json.Unmarshal(bytes, &result)
	*s = Snapshot(result)
	return err
}

// AppointmentHistory is one entry of the append-only, time-ordered audit
// ledger of an appointment. Entries are never mutated or deleted once written.
type AppointmentHistory struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID uuid.UUID     `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Action        HistoryAction `gorm:"type:varchar(20);not null;index" json:"action"`
	Description   string        `gorm:"type:text" json:"description,omitempty"`
	PreviousData  Snapshot      `gorm:"type:jsonb" json:"previous_data,omitempty"`
	NewData       Snapshot      `gorm:"type:jsonb" json:"new_data,omitempty"`
	CreatedByID   *uuid.UUID    `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy   *User       `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (AppointmentHistory) TableName() string {
	return "appointment_history"
}

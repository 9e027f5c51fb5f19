package models

import (
	"time"

	"gorm.io/gorm"

	"citidesk/internal/core/domain"
)

// ============================================================
// Registry & Service Desk Tables
// ============================================================

// Resident represents one registry record. RegistryNo carries the issued
// RES-NNNNN identifier and never changes once assigned.
type Resident struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RegistryNo string         `gorm:"size:20;uniqueIndex;not null" json:"registry_no"`
	FirstName  string         `gorm:"size:100;not null;index" json:"first_name"`
	LastName   string         `gorm:"size:100;not null;index" json:"last_name"`
	Birthdate  time.Time      `gorm:"type:date;not null" json:"birthdate"`
	Zone       string         `gorm:"size:100" json:"zone"`
	Status     string         `gorm:"size:15;default:'ACTIVE';index" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Resident) TableName() string {
	return "residents"
}

// IsProvisional reports whether the record still awaits staff verification.
func (r *Resident) IsProvisional() bool {
	return domain.ResidentStatus(r.Status) == domain.ResidentProvisional
}

// DocumentType is a catalog entry. Referenced, never owned, by RequestItem.
type DocumentType struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Code            string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	UnitPrice       int64          `gorm:"not null" json:"unit_price"` // centavos
	RequiresPurpose bool           `gorm:"default:false" json:"requires_purpose"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DocumentType) TableName() string {
	return "document_types"
}

// ServiceCounter is a physical service window staff open and close.
type ServiceCounter struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CounterNumber int       `gorm:"not null;uniqueIndex" json:"counter_number"`
	CounterName   string    `gorm:"size:50" json:"counter_name"`
	StaffUserID   *uint     `gorm:"index" json:"staff_user_id"`
	Status        string    `gorm:"size:10;default:'CLOSED'" json:"status"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	StaffUser     *User     `gorm:"foreignKey:StaffUserID" json:"staff_user,omitempty"`
}

func (ServiceCounter) TableName() string {
	return "service_counters"
}

// Counter statuses (not part of the request/ticket state machines)
const (
	CounterOpen   = "OPEN"
	CounterClosed = "CLOSED"
)

// Request is one visitor transaction: a batch of requested documents.
type Request struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	RequestNo   string        `gorm:"size:20;uniqueIndex;not null" json:"request_no"`
	RequestDate time.Time     `gorm:"type:date;not null;index" json:"request_date"`
	ResidentID  uint          `gorm:"not null;index" json:"resident_id"`
	TotalPrice  int64         `gorm:"not null;default:0" json:"total_price"` // centavos
	Status      string        `gorm:"size:15;default:'PENDING';index" json:"status"`
	RequestedAt time.Time     `gorm:"not null" json:"requested_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Resident    Resident      `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	Items       []RequestItem `gorm:"foreignKey:RequestID" json:"items,omitempty"`
}

func (Request) TableName() string {
	return "requests"
}

// RequestItem is one requested document type inside a Request. Items are
// created with the request and never deleted.
type RequestItem struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	RequestID      uint          `gorm:"not null;index" json:"request_id"`
	DocumentTypeID uint          `gorm:"not null;index" json:"document_type_id"`
	Purpose        string        `gorm:"size:255" json:"purpose"`
	Status         string        `gorm:"size:15;default:'PENDING';index" json:"status"`
	ProducedAt     *time.Time    `json:"produced_at"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	DocumentType   *DocumentType `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`
}

func (RequestItem) TableName() string {
	return "request_items"
}

// Ticket is the queue slot for a request. The unique index on RequestID
// enforces at most one ticket per request at the storage layer.
type Ticket struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TicketNo    string          `gorm:"size:20;not null" json:"ticket_no"`
	TicketDate  time.Time       `gorm:"type:date;not null;index" json:"ticket_date"`
	RequestID   uint            `gorm:"not null;uniqueIndex" json:"request_id"`
	CounterID   *uint           `gorm:"index" json:"counter_id"`
	Status      string          `gorm:"size:15;default:'WAITING';index" json:"status"`
	IssuedAt    time.Time       `gorm:"not null" json:"issued_at"`
	StartedAt   *time.Time      `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	ServedBy    *uint           `json:"served_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Request     Request         `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Counter     *ServiceCounter `gorm:"foreignKey:CounterID" json:"counter,omitempty"`
	ServedUser  *User           `gorm:"foreignKey:ServedBy" json:"served_by_user,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// SequenceCounter is the per-series high-water mark. Scope is YYYYMMDD for
// day-scoped series and empty for open-ended ones; the unique index makes
// increment-or-insert races detectable.
type SequenceCounter struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Series string `gorm:"size:20;not null;uniqueIndex:idx_series_scope" json:"series"`
	Scope  string `gorm:"size:10;not null;uniqueIndex:idx_series_scope" json:"scope"`
	Value  int64  `gorm:"not null;default:0" json:"value"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

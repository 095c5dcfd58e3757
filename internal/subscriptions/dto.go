package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

const dateLayout = "2006-01-02"

// CreateSubscriptionInput enrolls a walk-in member into a plan.
type CreateSubscriptionInput struct {
	MemberFirstName string    `json:"memberFirstName" validate:"required,min=1,max=120"`
	MemberLastName  string    `json:"memberLastName" validate:"required,min=1,max=120"`
	PlanID          uuid.UUID `json:"planId" validate:"required"`
	StartDate       string    `json:"startDate" validate:"required,datetime=2006-01-02"`
}

// EditSubscriptionInput carries the fields staff may correct before any
// payment lands.
type EditSubscriptionInput struct {
	MemberFirstName string    `json:"memberFirstName" validate:"required,min=1,max=120"`
	MemberLastName  string    `json:"memberLastName" validate:"required,min=1,max=120"`
	PlanID          uuid.UUID `json:"planId" validate:"required"`
	StartDate       string    `json:"startDate" validate:"required,datetime=2006-01-02"`
}

// ListFilter narrows subscription listings.
type ListFilter struct {
	PaymentStatus *enums.PaymentStatus
	Limit         int
	Cursor        string
}

// SubscriptionDTO is the API view of a member subscription record.
type SubscriptionDTO struct {
	ID              uuid.UUID             `json:"id"`
	MemberFirstName string                `json:"memberFirstName"`
	MemberLastName  string                `json:"memberLastName"`
	PlanID          uuid.UUID             `json:"planId"`
	PlanName        string                `json:"planName"`
	StartDate       string                `json:"startDate"`
	EndDate         string                `json:"endDate"`
	AmountPaidCents int64                 `json:"amountPaidCents"`
	AmountTotal     int64                 `json:"amountTotalCents"`
	RemainingCents  int64                 `json:"remainingCents"`
	PaymentStatus   enums.PaymentStatus   `json:"paymentStatus"`
	LifecycleStatus enums.LifecycleStatus `json:"lifecycleStatus"`
	InvoiceID       *uuid.UUID            `json:"invoiceId,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// SubscriptionPage is one cursor page of records.
type SubscriptionPage struct {
	Items      []SubscriptionDTO `json:"items"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

package client

import "time"

// Session holds the token pair minted at login. A Session is created by
// Login and cleared by Logout; callers never mutate it directly.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User is the authenticated staff summary returned by login.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Plan is a catalog entry.
type Plan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"priceCents"`
	DurationDays int       `json:"durationDays"`
	Features     []string  `json:"features"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Subscription is one member enrollment record.
type Subscription struct {
	ID               string    `json:"id"`
	MemberFirstName  string    `json:"memberFirstName"`
	MemberLastName   string    `json:"memberLastName"`
	PlanID           string    `json:"planId"`
	PlanName         string    `json:"planName"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	AmountPaidCents  int64     `json:"amountPaidCents"`
	AmountTotalCents int64     `json:"amountTotalCents"`
	RemainingCents   int64     `json:"remainingCents"`
	PaymentStatus    string    `json:"paymentStatus"`
	LifecycleStatus  string    `json:"lifecycleStatus"`
	InvoiceID        string    `json:"invoiceId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// IsComplete reports whether no further payments are accepted.
func (s Subscription) IsComplete() bool {
	return s.PaymentStatus == "complete"
}

// SubscriptionPage is one cursor page of records.
type SubscriptionPage struct {
	Items      []Subscription `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// Invoice is the generated invoice reference. The rendered document is
// fetched separately via DownloadInvoice.
type Invoice struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscriptionId"`
	Number         string    `json:"number"`
	AmountCents    int64     `json:"amountCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PaymentIncrement is one ledger entry.
type PaymentIncrement struct {
	ID                    string    `json:"id"`
	SubscriptionID        string    `json:"subscriptionId"`
	AmountAddedCents      int64     `json:"amountAddedCents"`
	AmountTotalAfterCents int64     `json:"amountTotalAfterCents"`
	RecordedBy            string    `json:"recordedBy"`
	CreatedAt             time.Time `json:"createdAt"`
}

// CreateSubscriptionRequest enrolls a member.
type CreateSubscriptionRequest struct {
	MemberFirstName string `json:"memberFirstName"`
	MemberLastName  string `json:"memberLastName"`
	PlanID          string `json:"planId"`
	StartDate       string `json:"startDate"`
}

// EditSubscriptionRequest corrects a record before any payment lands.
type EditSubscriptionRequest struct {
	MemberFirstName string `json:"memberFirstName"`
	MemberLastName  string `json:"memberLastName"`
	PlanID          string `json:"planId"`
	StartDate       string `json:"startDate"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type recordPaymentRequest struct {
	AmountCents int64 `json:"amountCents"`
}

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// DeriveEndDate computes the end date the server will assign for a start
// date and plan duration, so it can be shown before the record round-trips.
func DeriveEndDate(startDate string, durationDays int) (string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("parse start date: %w", err)
	}
	if durationDays <= 0 {
		return "", fmt.Errorf("duration must be positive")
	}
	return start.AddDate(0, 0, durationDays).Format(dateLayout), nil
}

// ListSubscriptions fetches one cursor page of records.
func (c *Client) ListSubscriptions(ctx context.Context, paymentStatus, cursor string, limit int) (*SubscriptionPage, error) {
	query := url.Values{}
	if paymentStatus != "" {
		query.Set("paymentStatus", paymentStatus)
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var page SubscriptionPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/subscriptions", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetSubscription fetches a single record.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	if err := c.do(ctx, http.MethodGet, "/api/v1/subscriptions/"+id, nil, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription enrolls a member, then re-fetches the full first page so
// the caller renders server truth rather than a merged local record.
func (c *Client) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*SubscriptionPage, error) {
	if err := c.do(ctx, http.MethodPost, "/api/v1/subscriptions", nil, req, nil); err != nil {
		return nil, err
	}
	return c.ListSubscriptions(ctx, "", "", 0)
}

// EditSubscription corrects a record that has no payments. The known record
// is passed so illegal edits fail before any request is sent.
func (c *Client) EditSubscription(ctx context.Context, known Subscription, req EditSubscriptionRequest) (*SubscriptionPage, error) {
	if err := guardMutable(known); err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/subscriptions/"+known.ID, nil, req, nil); err != nil {
		return nil, err
	}
	return c.ListSubscriptions(ctx, "", "", 0)
}

// DeleteSubscription removes a record that has no payments.
func (c *Client) DeleteSubscription(ctx context.Context, known Subscription) (*SubscriptionPage, error) {
	if err := guardMutable(known); err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodDelete, "/api/v1/subscriptions/"+known.ID, nil, nil, nil); err != nil {
		return nil, err
	}
	return c.ListSubscriptions(ctx, "", "", 0)
}

// RecordPayment appends a payment increment, then re-fetches the full first
// page like the other mutation helpers so the caller renders server truth.
// The guards mirror the server's rules so obviously invalid amounts never
// leave the process.
func (c *Client) RecordPayment(ctx context.Context, known Subscription, amountCents int64) (*SubscriptionPage, error) {
	if amountCents <= 0 {
		return nil, &APIError{
			Status:  http.StatusBadRequest,
			Code:    "VALIDATION_ERROR",
			Message: "amount must be positive",
		}
	}
	if known.IsComplete() {
		return nil, &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "STATE_CONFLICT",
			Message: "record is complete and cannot accept payments",
		}
	}
	if remaining := known.AmountTotalCents - known.AmountPaidCents; amountCents > remaining {
		return nil, &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "STATE_CONFLICT",
			Message: fmt.Sprintf("amount exceeds remaining balance of %d", remaining),
		}
	}

	if err := c.do(ctx, http.MethodPost, "/api/v1/subscriptions/"+known.ID+"/payments", nil,
		recordPaymentRequest{AmountCents: amountCents}, nil); err != nil {
		return nil, err
	}
	return c.ListSubscriptions(ctx, "", "", 0)
}

// GenerateInvoice produces the invoice for a fully paid record. Generating
// twice returns the same invoice. The known record gates the call locally so
// an unpaid record never reaches the server.
func (c *Client) GenerateInvoice(ctx context.Context, known Subscription) (*Invoice, error) {
	if !known.IsComplete() {
		return nil, &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "STATE_CONFLICT",
			Message: "invoice can only be generated for a fully paid record",
		}
	}
	var invoice Invoice
	if err := c.do(ctx, http.MethodPost, "/api/v1/subscriptions/"+known.ID+"/invoice", nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// PaymentHistory fetches the full increment ledger for a record.
func (c *Client) PaymentHistory(ctx context.Context, subscriptionID string) ([]PaymentIncrement, error) {
	var history []PaymentIncrement
	if err := c.do(ctx, http.MethodGet, "/api/v1/subscriptions/"+subscriptionID+"/payments", nil, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// DownloadInvoice fetches the rendered invoice bytes for a fully paid record.
func (c *Client) DownloadInvoice(ctx context.Context, subscriptionID string) ([]byte, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodGet, "/api/v1/subscriptions/"+subscriptionID+"/invoice", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func guardMutable(known Subscription) error {
	if known.IsComplete() {
		return &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "STATE_CONFLICT",
			Message: "record is complete and cannot be modified",
		}
	}
	if known.AmountPaidCents > 0 {
		return &APIError{
			Status:  http.StatusUnprocessableEntity,
			Code:    "STATE_CONFLICT",
			Message: "modification not allowed: a payment has already been recorded",
		}
	}
	return nil
}

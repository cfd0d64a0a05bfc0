package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	ErrDeclined = errors.New("payment declined")
	ErrTimeout  = errors.New("payment authorization timed out")
)

// ChargeResult carries the processor reference plus the tokenized card
// summary that is safe to persist.
type ChargeResult struct {
	Reference string
	CardBrand string
	CardLast4 string
}

// Authorizer is the card-processor integration. Authorize opens a
// payment intent for the checkout flow (the client confirms it with the
// returned secret); Charge confirms a tokenized payment immediately and
// is used for subscription billing.
type Authorizer interface {
	Authorize(ctx context.Context, amountCents int64, currency string) (clientSecret string, err error)
	Charge(ctx context.Context, amountCents int64, currency, token, description, receiptEmail string) (*ChargeResult, error)
}

type StripeAuthorizer struct {
	client *client.API
}

func NewStripeAuthorizer(secretKey string) *StripeAuthorizer {
	return &StripeAuthorizer{client: client.New(secretKey, nil)}
}

func (s *StripeAuthorizer) Authorize(ctx context.Context, amountCents int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return "", translateStripeErr(ctx, err)
	}
	return pi.ClientSecret, nil
}

func (s *StripeAuthorizer) Charge(ctx context.Context, amountCents int64, currency, token, description, receiptEmail string) (*ChargeResult, error) {
	pm, err := s.client.PaymentMethods.Get(token, &stripe.PaymentMethodParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, translateStripeErr(ctx, err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(currency),
		PaymentMethod:      stripe.String(pm.ID),
		Description:        stripe.String(description),
		ReceiptEmail:       stripe.String(receiptEmail),
		Confirm:            stripe.Bool(true),
		PaymentMethodTypes: []*string{stripe.String("card")},
	}
	params.Context = ctx

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, translateStripeErr(ctx, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent status %s", ErrDeclined, pi.Status)
	}

	result := &ChargeResult{Reference: pi.ID}
	if pm.Card != nil {
		result.CardBrand = string(pm.Card.Brand)
		result.CardLast4 = pm.Card.Last4
	}
	return result, nil
}

func translateStripeErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
	}
	return err
}

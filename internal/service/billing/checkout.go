package billing

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrUnknownPlan = errors.New("unknown plan")

type Config struct {
	SecretKey string
	// AppURL is where the hosted checkout page redirects back to.
	AppURL string
	// PlanPrices maps plan ids (basic, professional, enterprise) to the
	// payment processor's price ids.
	PlanPrices map[string]string
}

type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Gateway creates hosted subscription checkout sessions. It holds no state
// beyond configuration; every call is a single request to the processor.
type Gateway struct {
	sessions sessionCreator
	appURL   string
	prices   map[string]string
}

func NewGateway(cfg Config) *Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Gateway{
		sessions: api.CheckoutSessions,
		appURL:   cfg.AppURL,
		prices:   cfg.PlanPrices,
	}
}

// CreateSession returns the URL of a hosted checkout page for the given
// subscription plan, or ErrUnknownPlan if the plan has no configured price.
func (g *Gateway) CreateSession(ctx context.Context, planID, userID, email string) (string, error) {
	priceID := g.prices[planID]
	if priceID == "" {
		return "", ErrUnknownPlan
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(g.appURL + "/dashboard?success=true"),
		CancelURL:     stripe.String(g.appURL + "/pricing?canceled=true"),
		CustomerEmail: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)
	params.AddMetadata("planId", planID)

	sess, err := g.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

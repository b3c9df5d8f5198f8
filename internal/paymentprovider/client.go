// Package paymentprovider инкапсулирует работу со Stripe: создание и
// чтение checkout-сессий и проверку подписи webhook-событий. Ядро
// реконсиляции зависит только от нормализованного models.PaymentEvent
// и не знает о провайдере.
package paymentprovider

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// Client — клиент Stripe API.
type Client struct {
	api *client.API
}

// NewClient создаёт новый клиент Stripe с заданным секретным ключом.
func NewClient(secretKey string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api}
}

// CheckoutArgs — параметры создания checkout-сессии.
type CheckoutArgs struct {
	PriceID     string
	ProductType string
	UserUID     string
	UserEmail   string
	UserName    string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession — результат создания checkout-сессии,
// возвращается вызывающей стороне без изменений.
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// CreateCheckoutSession создаёт одноразовую платёжную сессию Stripe.
// Корреляционные данные уходят в metadata и возвращаются провайдером
// в webhook-событии и при чтении сессии.
func (c *Client) CreateCheckoutSession(ctx context.Context, args CheckoutArgs) (*CheckoutSession, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(args.UserEmail),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(args.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(args.SuccessURL),
		CancelURL:  stripe.String(args.CancelURL),
	}
	params.AddMetadata("product_type", args.ProductType)
	params.AddMetadata("user_uid", args.UserUID)
	params.AddMetadata("user_email", args.UserEmail)
	params.AddMetadata("user_name", args.UserName)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// RetrieveCheckoutSession читает checkout-сессию и нормализует её
// в платёжное событие для реконсиляции.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*models.PaymentEvent, error) {
	const op = "paymentprovider.RetrieveCheckoutSession"

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}
	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return eventFromSession(sess), nil
}

func eventFromSession(sess *stripe.CheckoutSession) *models.PaymentEvent {
	event := &models.PaymentEvent{
		SessionID:   sess.ID,
		ProductType: sess.Metadata["product_type"],
		UserUID:     sess.Metadata["user_uid"],
		UserEmail:   sess.Metadata["user_email"],
		AmountCents: sess.AmountTotal,
		Currency:    string(sess.Currency),
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if sess.PaymentIntent != nil {
		event.PaymentIntentID = sess.PaymentIntent.ID
	}
	return event
}

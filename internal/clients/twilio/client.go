package twilio

import (
	"context"
	"fmt"

	"nexa-crm/internal/observability"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client wraps the Twilio REST client for WhatsApp sends. The from
// identity carries the "whatsapp:" prefix, e.g. "whatsapp:+14155238886".
type Client struct {
	client *twilio.RestClient
	from   string
	logger *observability.Logger
}

func New(accountSID, authToken, from string, logger *observability.Logger) (*Client, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Client{
		client: client,
		from:   from,
		logger: logger,
	}, nil
}

// SendWhatsApp sends a WhatsApp message and returns the Twilio message SID.
// The to number is a canonical +<cc><number> identity without prefix.
func (c *Client) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "whatsapp_to", Value: to},
	)

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		c.logger.Error(ctx, "failed to send WhatsApp message", err)
		return "", fmt.Errorf("failed to send WhatsApp message: %w", err)
	}

	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		err := fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
		c.logger.Error(ctx, "WhatsApp message rejected", err)
		return "", err
	}

	var sid string
	if resp.Sid != nil {
		sid = *resp.Sid
	}

	c.logger.Info(ctx, "WhatsApp message sent")
	return sid, nil
}

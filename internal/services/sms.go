package services

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender is the SMS channel of the dispatcher.
type SMSSender interface {
	SendSMS(to, body string) error
}

// TwilioSender sends SMS through Twilio. Without credentials it degrades
// to logging, same as the mailer.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a TwilioSender. Empty credentials yield a
// degraded sender that only logs.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	s := &TwilioSender{from: from}
	if accountSID != "" && authToken != "" {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return s
}

func (s *TwilioSender) SendSMS(to, body string) error {
	if s.client == nil {
		log.Printf("[sms] no Twilio credentials configured, skipping SMS to %s", to)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}

// services/notifier.go
package services

import (
	"fmt"
	"log"
	"os"

	"homeserve-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier sends fire-and-forget SMS at the booking and payment observation
// points. There is no delivery tracking and no event bus; dispatch happens
// inline where the status change happens, and failures are only logged.
// Without Twilio credentials it degrades to log output.
type Notifier struct {
	client *twilio.RestClient
	from   string
}

func NewNotifier() *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid == "" || authToken == "" {
		return &Notifier{}
	}

	return &Notifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (n *Notifier) BookingCreated(b *models.Booking) {
	n.send(b.CustomerPhone, fmt.Sprintf(
		"Hi %s, your booking request has been submitted successfully! We will notify you once the provider confirms.",
		b.CustomerName))
}

func (n *Notifier) BookingStatusChanged(b *models.Booking) {
	var body string
	switch b.Status {
	case models.BookingConfirmed:
		body = fmt.Sprintf("Hi %s, your booking has been confirmed for %s at %s.",
			b.CustomerName, b.BookingDate.Format("02 Jan 2006"), b.BookingTime)
	case models.BookingCompleted:
		body = fmt.Sprintf("Hi %s, your booking has been completed. Thank you for using HomeServe!",
			b.CustomerName)
	case models.BookingCancelled:
		body = fmt.Sprintf("Hi %s, your booking has been cancelled.", b.CustomerName)
	default:
		return
	}
	n.send(b.CustomerPhone, body)
}

func (n *Notifier) PaymentCompleted(p *models.Payment, b *models.Booking) {
	if p.Status != models.PaymentCompleted {
		return
	}
	n.send(b.CustomerPhone, fmt.Sprintf(
		"Hi %s, we received your payment of %.2f (ref %s).",
		b.CustomerName, p.Amount, p.TransactionID))
}

func (n *Notifier) send(to, body string) {
	if n == nil || n.client == nil {
		log.Printf("[NOTIFY] %s: %s", to, body)
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send SMS to %s: %v", to, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("SMS sent to %s, SID: %s", to, *resp.Sid)
	}
}

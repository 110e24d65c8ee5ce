package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/pkg/sendgrid"
)

const whatsAppShareURL = "https://wa.me/?text="

// ReceiptService is the confirmation collaborator: it renders the receipt a
// rep shares with the outlet and optionally mails a copy.
type ReceiptService interface {
	Share(order *models.SubmittedOrder) *models.ShareReceiptResponse
	Email(ctx context.Context, order *models.SubmittedOrder) error
}

type receiptService struct {
	mailer sendgrid.Mailer
	to     string
}

// NewReceiptService returns a service that never mails when mailer is nil or
// to is empty.
func NewReceiptService(mailer sendgrid.Mailer, to string) ReceiptService {
	return &receiptService{mailer: mailer, to: to}
}

func ShareMessage(order *models.SubmittedOrder) string {
	return fmt.Sprintf("Order Confirmation\nOrder ID: %s\nTotal: ₹%s\nThank you for your order!", order.ID, order.Total.String())
}

// WhatsAppURL percent-encodes spaces as %20 rather than '+'.
func WhatsAppURL(message string) string {
	return whatsAppShareURL + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func (s *receiptService) Share(order *models.SubmittedOrder) *models.ShareReceiptResponse {
	message := ShareMessage(order)

	return &models.ShareReceiptResponse{
		OrderID:     order.ID,
		Message:     message,
		WhatsAppURL: WhatsAppURL(message),
	}
}

func (s *receiptService) Email(ctx context.Context, order *models.SubmittedOrder) error {
	if s.mailer == nil || s.to == "" {
		return nil
	}

	return s.mailer.Send(ctx, &models.EmailMessage{
		To:      s.to,
		Subject: "Order Confirmation " + order.ID.String(),
		Text:    receiptBody(order),
	})
}

func receiptBody(order *models.SubmittedOrder) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Placed: %s\n\n", order.CreatedAt.Format("02 Jan 2006 15:04"))

	for _, line := range order.Lines {
		fmt.Fprintf(&b, "%s (%s) x %d = ₹%s\n", line.Name, line.Unit, line.Quantity, line.LineTotal().String())
	}

	fmt.Fprintf(&b, "\nSubtotal: ₹%s\n", order.Subtotal.String())

	if order.Discount.IsPositive() {
		fmt.Fprintf(&b, "Scheme discount: -₹%s\n", order.Discount.String())
	}

	fmt.Fprintf(&b, "Total: ₹%s\n", order.Total.String())
	fmt.Fprintf(&b, "Payment terms: %s\n", order.PaymentTerms.Display())

	if order.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", order.Note)
	}

	b.WriteString("\nThank you for your order!\n")

	return b.String()
}

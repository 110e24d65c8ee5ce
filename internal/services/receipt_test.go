package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	service "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services"
	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []*models.EmailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg *models.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *fakeMailer) GetSendGridClient() *sendgrid.Client { return nil }

func sampleOrder() *models.SubmittedOrder {
	return &models.SubmittedOrder{
		ID: uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057"),
		Lines: []models.CartLine{
			{ProductID: "5", Name: "Rice", Unit: "25kg", UnitPrice: decimal.NewFromInt(450), Quantity: 1},
			{ProductID: "3", Name: "Biscuits", Unit: "1 box", UnitPrice: decimal.NewFromInt(120), Quantity: 1},
		},
		Subtotal:     decimal.NewFromInt(570),
		Discount:     decimal.NewFromInt(28),
		Total:        decimal.NewFromInt(542),
		PaymentTerms: models.PaymentTermsCredit15,
		Note:         "Deliver before noon",
		CreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestReceiptService_Share(t *testing.T) {
	order := sampleOrder()
	svc := service.NewReceiptService(nil, "")

	share := svc.Share(order)

	assert.Equal(t, order.ID, share.OrderID)
	assert.Equal(t, "Order Confirmation\nOrder ID: 01890a5d-ac96-774b-bcce-b302099a8057\nTotal: ₹542\nThank you for your order!", share.Message)
	assert.Equal(t,
		"https://wa.me/?text=Order%20Confirmation%0AOrder%20ID%3A%2001890a5d-ac96-774b-bcce-b302099a8057%0ATotal%3A%20%E2%82%B9542%0AThank%20you%20for%20your%20order%21",
		share.WhatsAppURL)
	assert.NotContains(t, share.WhatsAppURL, "+")
}

func TestReceiptService_Email(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - mails the receipt", func(t *testing.T) {
		// Arrange
		mailer := &fakeMailer{}
		svc := service.NewReceiptService(mailer, "outlet@example.com")

		// Act
		err := svc.Email(ctx, sampleOrder())

		// Assert
		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)

		msg := mailer.sent[0]
		assert.Equal(t, "outlet@example.com", msg.To)
		assert.Equal(t, "Order Confirmation 01890a5d-ac96-774b-bcce-b302099a8057", msg.Subject)
		assert.Contains(t, msg.Text, "Rice (25kg) x 1 = ₹450")
		assert.Contains(t, msg.Text, "Scheme discount: -₹28")
		assert.Contains(t, msg.Text, "Total: ₹542")
		assert.Contains(t, msg.Text, "Note: Deliver before noon")
	})

	t.Run("Success - disabled without a recipient", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := service.NewReceiptService(mailer, "")

		require.NoError(t, svc.Email(ctx, sampleOrder()))
		assert.Empty(t, mailer.sent)
	})

	t.Run("Failure - provider error is returned", func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("failed to send email, status code: 500")}
		svc := service.NewReceiptService(mailer, "outlet@example.com")

		err := svc.Email(ctx, sampleOrder())

		assert.EqualError(t, err, "failed to send email, status code: 500")
	})
}

package orderbuilder

import (
	"slices"
	"time"

	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/google/uuid"
)

// Workflow is the per-session submission state machine:
//
//	Building --Begin--> Submitting --Complete--> Submitted
//	              ^          |
//	              +--Abort---+
//
// The cart can only change while Building.
type Workflow struct {
	Phase        models.Phase           `json:"phase"`
	Cart         models.Cart            `json:"cart"`
	PaymentTerms models.PaymentTerms    `json:"payment_terms,omitempty"`
	Note         string                 `json:"note,omitempty"`
	Order        *models.SubmittedOrder `json:"order,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func NewWorkflow() *Workflow {
	return &Workflow{Phase: models.PhaseBuilding, UpdatedAt: time.Now().UTC()}
}

// OrderMeta is the identity data stamped on a drafted order.
type OrderMeta struct {
	ID           uuid.UUID
	SessionID    string
	RequestToken string
	CreatedAt    time.Time
}

// Mutate applies a cart reducer. It fails with CART_LOCKED outside Building.
func (w *Workflow) Mutate(reducer func(models.Cart) models.Cart) error {
	if w.Phase != models.PhaseBuilding {
		return appErrors.CartLockedError()
	}

	w.Cart = reducer(w.Cart)
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// Begin moves Building to Submitting. On a guard failure the workflow is
// left untouched.
func (w *Workflow) Begin(terms models.PaymentTerms, note string) error {
	switch w.Phase {
	case models.PhaseSubmitting:
		return appErrors.SubmissionInProgressError()
	case models.PhaseSubmitted:
		return appErrors.BadRequestError("Order has already been submitted")
	}

	if w.Cart.IsEmpty() {
		return appErrors.EmptyCartError()
	}

	if !terms.Valid() {
		return appErrors.MissingPaymentTermsError()
	}

	w.Phase = models.PhaseSubmitting
	w.PaymentTerms = terms
	w.Note = note
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// Draft builds the order from the frozen cart without leaving Submitting.
func (w *Workflow) Draft(meta OrderMeta) (*models.SubmittedOrder, error) {
	if w.Phase != models.PhaseSubmitting {
		return nil, appErrors.InternalError("Order can only be drafted while submitting")
	}

	summary := Summarize(w.Cart)

	return &models.SubmittedOrder{
		ID:           meta.ID,
		SessionID:    meta.SessionID,
		RequestToken: meta.RequestToken,
		Lines:        slices.Clone(w.Cart.Lines),
		Subtotal:     summary.Subtotal,
		Discount:     summary.Discount,
		Total:        summary.Total,
		PaymentTerms: w.PaymentTerms,
		Note:         w.Note,
		CreatedAt:    meta.CreatedAt,
	}, nil
}

// Complete is the terminal transition.
func (w *Workflow) Complete(order *models.SubmittedOrder) error {
	if w.Phase != models.PhaseSubmitting {
		return appErrors.InternalError("Order can only be completed while submitting")
	}

	w.Phase = models.PhaseSubmitted
	w.Order = order
	w.UpdatedAt = time.Now().UTC()

	return nil
}

// Abort returns a Submitting workflow to Building, keeping the cart.
func (w *Workflow) Abort() {
	if w.Phase != models.PhaseSubmitting {
		return
	}

	w.Phase = models.PhaseBuilding
	w.UpdatedAt = time.Now().UTC()
}

func (w *Workflow) Summary() models.OrderSummary {
	return Summarize(w.Cart)
}

func (w *Workflow) View(sessionID string) models.CartView {
	cart := w.Cart
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}

	return models.CartView{
		SessionID: sessionID,
		Phase:     w.Phase,
		Cart:      cart,
		Summary:   w.Summary(),
		UpdatedAt: w.UpdatedAt,
	}
}

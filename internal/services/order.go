package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/config"
	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/events"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/export"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/metrics"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/orderbuilder"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/pkg/resilience"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	channelCheckout = "checkout"
	channelAPI      = "api"

	exportBatchSize = 100
)

type OrderService interface {
	// Checkout submits the session cart.
	Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.SubmissionResult, error)
	// CreateOrder submits an order built from explicit lines, without
	// touching the session cart.
	CreateOrder(ctx context.Context, sessionID string, req *models.CreateOrderRequest) (*models.SubmissionResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.SubmittedOrder, error)
	ListOrders(ctx context.Context, page, size int) ([]models.SubmittedOrder, int, error)
	ShareReceipt(ctx context.Context, id uuid.UUID) (*models.ShareReceiptResponse, error)
	ExportOrders(ctx context.Context, w io.Writer) error
}

type OrderDependencies struct {
	Orders      repository.OrderRepository
	Sessions    repository.SessionRepository
	Lock        repository.SubmissionLock
	Idempotency repository.IdempotencyRepository
	RateLimit   repository.RateLimitRepository
	Catalog     CatalogService
	Receipts    ReceiptService
	Publisher   events.Publisher
}

type orderService struct {
	OrderDependencies
	cfg      config.Submission
	store    *resilience.Executor[struct{}]
	sanitize *bluemonday.Policy
}

func NewOrderService(deps OrderDependencies, cfg config.Submission) OrderService {
	if deps.Publisher == nil {
		deps.Publisher = events.NewNoopPublisher()
	}

	store := resilience.NewExecutor[struct{}](resilience.Settings{
		Name:               "order-store",
		MaxRetries:         cfg.MaxRetries,
		BreakerFailures:    cfg.BreakerFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
		// Rejected values fail the same way on every attempt and say nothing
		// about the health of the store.
		IsPermanent: func(err error) bool {
			return errors.Is(err, repository.ErrDuplicateRequestToken) || repository.IsInvalidData(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", slog.String("name", name), slog.String("from", from.String()), slog.String("to", to.String()))
			metrics.SetBreakerState(name, int(to))
		},
	})

	return &orderService{
		OrderDependencies: deps,
		cfg:               cfg,
		store:             store,
		sanitize:          bluemonday.StrictPolicy(),
	}
}

func (s *orderService) Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.SubmissionResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Checkout")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx).With(slog.String("sessionID", sessionID))

	result, err := s.checkout(ctx, logger, sessionID, req)
	if err != nil {
		s.rejected(ctx, logger, err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", result.Order.ID.String()), attribute.Bool("order.replayed", result.Replayed))

	return result, nil
}

func (s *orderService) checkout(ctx context.Context, logger *slog.Logger, sessionID string, req *models.CheckoutRequest) (*models.SubmissionResult, error) {
	if result, err := s.replay(ctx, sessionID, req.RequestToken); result != nil || err != nil {
		return result, err
	}

	if err := s.checkRateLimit(ctx, sessionID); err != nil {
		return nil, err
	}

	release, acquired, err := s.Lock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Failed to lock the session").WithError(err)
	}

	if !acquired {
		return nil, appErrors.SubmissionInProgressError()
	}
	defer release()

	wf, err := s.Sessions.GetWorkflow(ctx, sessionID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load the cart").WithError(err)
	}

	// Holding the lock means no submission is running, so a stored
	// Submitting phase was left behind by a crashed request.
	if wf.Phase == models.PhaseSubmitting {
		logger.Warn("Recovering an abandoned submission")
		s.abort(ctx, logger, sessionID, wf)
	}

	if err := wf.Begin(req.PaymentTerms, s.cleanNote(req.Note)); err != nil {
		return nil, err
	}

	if err := s.Sessions.SaveWorkflow(ctx, sessionID, wf); err != nil {
		return nil, appErrors.DatabaseError("Failed to save the cart").WithError(err)
	}

	if err := s.revalidate(ctx, wf); err != nil {
		s.abort(ctx, logger, sessionID, wf)
		return nil, err
	}

	result, err := s.submit(ctx, wf, sessionID, req.RequestToken, channelCheckout)
	if err != nil {
		s.abort(ctx, logger, sessionID, wf)
		return nil, err
	}

	if err := wf.Complete(result.Order); err != nil {
		return nil, err
	}

	// Hand-off: the confirmation keeps the order, the session starts over.
	if err := s.Sessions.SaveWorkflow(ctx, sessionID, orderbuilder.NewWorkflow()); err != nil {
		logger.Error("Failed to reset the session after submission", slog.String("orderID", result.Order.ID.String()), slog.String("error", err.Error()))
	}

	return result, nil
}

func (s *orderService) CreateOrder(ctx context.Context, sessionID string, req *models.CreateOrderRequest) (*models.SubmissionResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx).With(slog.String("sessionID", sessionID))

	result, err := s.createOrder(ctx, sessionID, req)
	if err != nil {
		s.rejected(ctx, logger, err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", result.Order.ID.String()), attribute.Bool("order.replayed", result.Replayed))

	return result, nil
}

func (s *orderService) createOrder(ctx context.Context, sessionID string, req *models.CreateOrderRequest) (*models.SubmissionResult, error) {
	if result, err := s.replay(ctx, sessionID, req.RequestToken); result != nil || err != nil {
		return result, err
	}

	if err := s.checkRateLimit(ctx, sessionID); err != nil {
		return nil, err
	}

	// Explicit lines are priced from the current catalog, so there is no
	// snapshot to revalidate.
	catalog, err := s.Catalog.Current(ctx)
	if err != nil {
		return nil, err
	}

	wf := orderbuilder.NewWorkflow()
	requested := make(map[string]int, len(req.Lines))

	for _, line := range req.Lines {
		product, ok := orderbuilder.FindProduct(catalog, line.ProductID)
		if !ok {
			return nil, appErrors.NotFoundError("Product not found: " + line.ProductID)
		}

		// repeated lines merge, so the bound applies to their sum
		if line.Quantity < 1 || line.Quantity > models.MaxLineQuantity-requested[product.ID] {
			return nil, appErrors.ValidationError(fmt.Sprintf("Quantity for product %s must be between 1 and %d", product.ID, models.MaxLineQuantity))
		}
		requested[product.ID] += line.Quantity

		err := wf.Mutate(func(cart models.Cart) models.Cart {
			cart = orderbuilder.AddItem(cart, product)
			return orderbuilder.AdjustQuantity(cart, product.ID, line.Quantity-1)
		})
		if err != nil {
			return nil, err
		}
	}

	if err := wf.Begin(req.PaymentTerms, s.cleanNote(req.Note)); err != nil {
		return nil, err
	}

	result, err := s.submit(ctx, wf, sessionID, req.RequestToken, channelAPI)
	if err != nil {
		return nil, err
	}

	if err := wf.Complete(result.Order); err != nil {
		return nil, err
	}

	return result, nil
}

// replay answers a resubmission from the order its token created. A miss
// returns nil, nil. A token is only honoured for the session that used it.
func (s *orderService) replay(ctx context.Context, sessionID, token string) (*models.SubmissionResult, error) {
	if token == "" {
		return nil, nil
	}

	logger := middleware.LoggerFromContext(ctx)

	orderID, found, err := s.Idempotency.Lookup(ctx, token)
	if err != nil {
		// Postgres still enforces uniqueness, so carry on without the fast path.
		logger.Warn("Idempotency lookup failed", slog.String("error", err.Error()))
		return nil, nil
	}

	if !found {
		return nil, nil
	}

	order, err := s.Orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Idempotency token points at a missing order", slog.String("orderID", orderID.String()))
			return nil, nil
		}

		return nil, appErrors.DatabaseError("Failed to load the original order").WithError(err)
	}

	if order.SessionID != sessionID {
		logger.Warn("Request token reused by another session", slog.String("orderID", order.ID.String()))
		return nil, appErrors.RequestTokenConflictError()
	}

	metrics.RecordReplay()
	logger.Info("Submission replayed", slog.String("orderID", order.ID.String()))

	return &models.SubmissionResult{Order: order, Replayed: true}, nil
}

func (s *orderService) checkRateLimit(ctx context.Context, sessionID string) error {
	allowed, _, retryAfter, err := s.RateLimit.CheckSubmissionRateLimit(ctx, sessionID)
	if err != nil {
		return appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return appErrors.TooManyRequestsError("Too many submissions, please try again later").
			WithDetail("retry after " + (time.Duration(retryAfter) * time.Second).String())
	}

	return nil
}

// revalidate compares the cart snapshot with the live catalog. On any
// price change the workflow goes back to Building with the repriced cart.
func (s *orderService) revalidate(ctx context.Context, wf *orderbuilder.Workflow) error {
	// the lock TTL only covers this bound plus the submission timeout
	catalogCtx, cancel := utils.WithTimeout(ctx, s.cfg.RevalidateTimeout)
	defer cancel()

	catalog, err := s.Catalog.Current(catalogCtx)
	if err != nil {
		return err
	}

	repriced, changed := orderbuilder.Reprice(wf.Cart, catalog)
	if len(changed) == 0 {
		return nil
	}

	wf.Abort()

	if err := wf.Mutate(func(models.Cart) models.Cart { return repriced }); err != nil {
		return err
	}

	return appErrors.CatalogStaleError(changed)
}

// submit drafts the order and persists it under the submission timeout,
// retrying transient failures behind the circuit breaker.
func (s *orderService) submit(ctx context.Context, wf *orderbuilder.Workflow, sessionID, token, channel string) (*models.SubmissionResult, error) {
	logger := middleware.LoggerFromContext(ctx)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate an order id").WithError(err)
	}

	order, err := wf.Draft(orderbuilder.OrderMeta{
		ID:           id,
		SessionID:    sessionID,
		RequestToken: token,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if order.Subtotal.GreaterThanOrEqual(models.MaxOrderAmount) {
		return nil, appErrors.ValidationError("Order total exceeds the maximum order amount")
	}

	start := time.Now()

	submitCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	_, err = s.store.Do(submitCtx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.Orders.CreateOrder(ctx, order)
	})

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDuplicateRequestToken):
		existing, err := s.Orders.GetOrderByRequestToken(ctx, token)
		if err != nil {
			return nil, appErrors.DatabaseError("Failed to load the original order").WithError(err)
		}

		if existing.SessionID != sessionID {
			logger.Warn("Request token reused by another session", slog.String("orderID", existing.ID.String()))
			return nil, appErrors.RequestTokenConflictError()
		}

		metrics.RecordReplay()
		logger.Info("Duplicate submission resolved to the original order", slog.String("orderID", existing.ID.String()))

		return &models.SubmissionResult{Order: existing, Replayed: true}, nil
	case repository.IsInvalidData(err):
		return nil, appErrors.ValidationError("Order values were rejected by storage").WithError(err)
	case errors.Is(err, resilience.ErrCircuitOpen):
		return nil, appErrors.ServiceUnavailableError("Order storage is temporarily unavailable").WithError(err)
	case errors.Is(submitCtx.Err(), context.DeadlineExceeded):
		return nil, appErrors.SubmissionTimeoutError().WithError(err)
	default:
		return nil, appErrors.DatabaseError("Failed to save the order").WithError(err)
	}

	metrics.ObserveSubmission(channel, string(order.PaymentTerms), order.Discount.InexactFloat64(), time.Since(start))

	logger.Info("Order submitted",
		slog.String("orderID", order.ID.String()),
		slog.String("total", order.Total.String()),
		slog.String("discount", order.Discount.String()),
		slog.Int("items", order.ItemCount()))

	if token != "" {
		if err := s.Idempotency.Remember(ctx, token, order.ID); err != nil {
			logger.Warn("Failed to remember the request token", slog.String("error", err.Error()))
		}
	}

	s.confirm(ctx, order)

	return &models.SubmissionResult{Order: order}, nil
}

// confirm publishes the order event and mails the receipt. Neither may
// fail the submission.
func (s *orderService) confirm(ctx context.Context, order *models.SubmittedOrder) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderID", order.ID.String()))
	bg := context.WithoutCancel(ctx)

	go func() {
		if err := s.Publisher.PublishOrderSubmitted(bg, order); err != nil {
			logger.Error("Failed to publish order event", slog.String("error", err.Error()))
		}

		if s.cfg.ReceiptEmailEnabled && s.Receipts != nil {
			if err := s.Receipts.Email(bg, order); err != nil {
				logger.Error("Failed to mail the receipt", slog.String("error", err.Error()))
			}
		}
	}()
}

func (s *orderService) abort(ctx context.Context, logger *slog.Logger, sessionID string, wf *orderbuilder.Workflow) {
	wf.Abort()

	// the request may be out of time, the cart must still be unfrozen
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	if err := s.Sessions.SaveWorkflow(saveCtx, sessionID, wf); err != nil {
		logger.Error("Failed to restore the cart after a failed submission", slog.String("error", err.Error()))
	}
}

func (s *orderService) rejected(ctx context.Context, logger *slog.Logger, err error) {
	appErr, ok := appErrors.IsAppError(err)
	if !ok {
		metrics.RecordRejection(appErrors.ErrCodeInternal)
		logger.Error("Submission failed", slog.String("error", err.Error()))

		return
	}

	metrics.RecordRejection(appErr.Code)

	if appErr.StatusCode >= 500 {
		logger.ErrorContext(ctx, "Submission failed", slog.String("code", appErr.Code), slog.Any("error", appErr.Err))
	} else {
		logger.WarnContext(ctx, "Submission rejected", slog.String("code", appErr.Code))
	}
}

// cleanNote keeps the note as plain text.
func (s *orderService) cleanNote(note string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(note)))
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.SubmittedOrder, error) {
	order, err := s.Orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch the order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, size int) ([]models.SubmittedOrder, int, error) {
	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.Orders.ListOrders(ctx, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) ShareReceipt(ctx context.Context, id uuid.UUID) (*models.ShareReceiptResponse, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.Receipts.Share(order), nil
}

// ExportOrders pages through the whole history before writing, so a read
// failure never leaves a half-written workbook.
func (s *orderService) ExportOrders(ctx context.Context, w io.Writer) error {
	ctx, span := tracer.Start(ctx, "OrderService.ExportOrders")
	defer span.End()

	var all []models.SubmittedOrder

	for page := 1; ; page++ {
		orders, total, err := s.Orders.ListOrders(ctx, page, exportBatchSize)
		if err != nil {
			return appErrors.DatabaseError("Failed to fetch orders").WithError(err)
		}

		all = append(all, orders...)

		if len(orders) == 0 || len(all) >= total {
			break
		}
	}

	span.SetAttributes(attribute.Int("export.orders", len(all)))

	if err := export.WriteOrders(w, all); err != nil {
		return appErrors.InternalError("Failed to build the export").WithError(err)
	}

	return nil
}

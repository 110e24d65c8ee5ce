package service

import (
	"context"
	"log/slog"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	appErrors "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/orderbuilder"
	repository "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*models.CartView, error)
	AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.CartView, error)
	AdjustQuantity(ctx context.Context, sessionID, productID string, delta int) (*models.CartView, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*models.CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*models.CartView, error)
}

type cartService struct {
	sessions repository.SessionRepository
	lock     repository.SubmissionLock
	catalog  CatalogService
}

func NewCartService(sessions repository.SessionRepository, lock repository.SubmissionLock, catalog CatalogService) CartService {
	return &cartService{sessions: sessions, lock: lock, catalog: catalog}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*models.CartView, error) {
	wf, err := s.sessions.GetWorkflow(ctx, sessionID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load the cart").WithError(err)
	}

	view := wf.View(sessionID)

	return &view, nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.CartView, error) {
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(cart models.Cart) models.Cart {
		return orderbuilder.AddItem(cart, *product)
	})
}

func (s *cartService) AdjustQuantity(ctx context.Context, sessionID, productID string, delta int) (*models.CartView, error) {
	return s.mutate(ctx, sessionID, func(cart models.Cart) models.Cart {
		return orderbuilder.AdjustQuantity(cart, productID, delta)
	})
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID string) (*models.CartView, error) {
	return s.mutate(ctx, sessionID, func(cart models.Cart) models.Cart {
		return orderbuilder.RemoveItem(cart, productID)
	})
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (*models.CartView, error) {
	return s.mutate(ctx, sessionID, func(models.Cart) models.Cart {
		return models.Cart{}
	})
}

// mutate holds the session lock across load, reduce and save, so a cart
// change can never interleave with a submission of the same session.
func (s *cartService) mutate(ctx context.Context, sessionID string, reducer func(models.Cart) models.Cart) (*models.CartView, error) {
	logger := middleware.LoggerFromContext(ctx)

	release, acquired, err := s.lock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Failed to lock the cart").WithError(err)
	}

	if !acquired {
		return nil, appErrors.CartLockedError()
	}
	defer release()

	wf, err := s.sessions.GetWorkflow(ctx, sessionID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load the cart").WithError(err)
	}

	// the lock is ours, so a Submitting phase is left over from a crash
	if wf.Phase == models.PhaseSubmitting {
		logger.Warn("Recovering an abandoned submission")
		wf.Abort()
	}

	if err := wf.Mutate(reducer); err != nil {
		logger.Warn("Cart change rejected", slog.String("phase", string(wf.Phase)))
		return nil, err
	}

	if err := s.sessions.SaveWorkflow(ctx, sessionID, wf); err != nil {
		return nil, appErrors.DatabaseError("Failed to save the cart").WithError(err)
	}

	view := wf.View(sessionID)

	return &view, nil
}

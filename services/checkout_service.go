package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "checkout-service/errors"
	"checkout-service/models"
	"checkout-service/pkg/aws"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService converts cart state into purchase records.
type CheckoutService interface {
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error)
}

// checkoutCoordinator runs the checkout pipeline:
// validate -> lock -> read cart -> record purchases -> clear cart.
//
// Recording is all-or-nothing; a recording failure leaves the cart
// untouched so the whole call is safe to retry. A clearing failure
// after a successful recording still reports success: the purchase is
// durable, and the stale lines are corrected by the next checkout. That
// asymmetry is intentional.
type checkoutCoordinator struct {
	cart         repository.CartStore
	ledger       repository.PurchaseLedger
	locks        UserLocker
	publisher    aws.SNSPublisher
	topicARN     string
	storeTimeout time.Duration
	log          *zap.Logger
}

func NewCheckoutService(
	cart repository.CartStore,
	ledger repository.PurchaseLedger,
	locks UserLocker,
	publisher aws.SNSPublisher,
	topicARN string,
	storeTimeout time.Duration,
	log *zap.Logger,
) CheckoutService {
	return &checkoutCoordinator{
		cart:         cart,
		ledger:       ledger,
		locks:        locks,
		publisher:    publisher,
		topicARN:     topicARN,
		storeTimeout: storeTimeout,
		log:          log,
	}
}

func (s *checkoutCoordinator) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if req.UserID == "" {
		return nil, apperrors.ErrInvalidRequest
	}

	if s.locks != nil {
		ok, err := s.locks.TryLock(ctx, req.UserID)
		if err != nil {
			s.log.Error("checkout lock unavailable",
				zap.String("user_id", req.UserID), zap.Error(err))
			return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
		}
		if !ok {
			return nil, apperrors.ErrCheckoutInProgress
		}
		defer func() {
			unlockCtx, cancel := s.writeCtx(ctx)
			defer cancel()
			if err := s.locks.Unlock(unlockCtx, req.UserID); err != nil {
				s.log.Warn("failed to release checkout lock",
					zap.String("user_id", req.UserID), zap.Error(err))
			}
		}()
	}

	if req.SingleItem() {
		return s.checkoutSingle(ctx, req)
	}
	return s.checkoutCart(ctx, req)
}

// checkoutSingle handles one targeted course. When the course is not in
// the cart this becomes a direct purchase sourced from the request.
func (s *checkoutCoordinator) checkoutSingle(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	readCtx, cancel := s.storeCtx(ctx)
	line, err := s.cart.FindLine(readCtx, req.UserID, req.CourseID)
	cancel()
	if err != nil {
		s.log.Error("cart lookup failed",
			zap.String("user_id", req.UserID),
			zap.String("product_id", req.CourseID),
			zap.String("phase", "reading_cart"),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	if line == nil {
		return s.directPurchase(ctx, req)
	}

	record := models.PurchaseRecord{
		ID:           uuid.NewString(),
		UserID:       line.UserID,
		ProductID:    line.ProductID,
		ProductName:  line.ProductName,
		Price:        line.Price,
		PurchaseDate: time.Now().UTC(),
	}

	recordCtx, cancel := s.writeCtx(ctx)
	err = s.ledger.Create(recordCtx, &record)
	cancel()
	if err != nil {
		s.log.Error("failed to record purchase",
			zap.String("user_id", req.UserID),
			zap.String("product_id", req.CourseID),
			zap.String("phase", "recording"),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	clearCtx, cancel := s.writeCtx(ctx)
	err = s.cart.BatchDelete(clearCtx, req.UserID, []string{line.ID})
	cancel()
	if err != nil {
		// Purchase is durable; the stale line self-corrects on the next
		// checkout attempt.
		s.log.Error("purchase recorded but cart line not cleared",
			zap.String("user_id", req.UserID),
			zap.String("cart_line_id", line.ID),
			zap.String("phase", "clearing"),
			zap.Error(err))
	}

	s.publishPurchaseEvent(ctx, req.UserID, 1)

	return &models.CheckoutResult{
		Message:   fmt.Sprintf("Payment for course '%s' processed successfully.", req.CourseID),
		ItemCount: 1,
	}, nil
}

// directPurchase records a purchase with no antecedent cart line,
// entirely from request fields.
func (s *checkoutCoordinator) directPurchase(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if !req.HasDirectPurchaseFields() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidRequest,
			fmt.Sprintf("Course '%s' is not in the cart; productName and price are required for a direct purchase.", req.CourseID))
	}

	record := models.PurchaseRecord{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		ProductID:    req.CourseID,
		ProductName:  req.ProductName,
		Price:        *req.Price,
		PurchaseDate: time.Now().UTC(),
	}

	recordCtx, cancel := s.writeCtx(ctx)
	err := s.ledger.Create(recordCtx, &record)
	cancel()
	if err != nil {
		s.log.Error("failed to record direct purchase",
			zap.String("user_id", req.UserID),
			zap.String("product_id", req.CourseID),
			zap.String("phase", "recording"),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	s.publishPurchaseEvent(ctx, req.UserID, 1)

	return &models.CheckoutResult{
		Message:   fmt.Sprintf("Payment for course '%s' processed successfully.", req.CourseID),
		ItemCount: 1,
	}, nil
}

// checkoutCart consumes every pending line for the user.
func (s *checkoutCoordinator) checkoutCart(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	readCtx, cancel := s.storeCtx(ctx)
	lines, err := s.cart.FindLines(readCtx, req.UserID)
	cancel()
	if err != nil {
		s.log.Error("cart read failed",
			zap.String("user_id", req.UserID),
			zap.String("phase", "reading_cart"),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	if len(lines) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrEmptyCart,
			fmt.Sprintf("Cart for user '%s' is empty. No payment to process.", req.UserID))
	}

	now := time.Now().UTC()
	records := make([]models.PurchaseRecord, 0, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		records = append(records, models.PurchaseRecord{
			ID:           uuid.NewString(),
			UserID:       line.UserID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			Price:        line.Price,
			PurchaseDate: now,
		})
		ids = append(ids, line.ID)
	}

	recordCtx, cancel := s.writeCtx(ctx)
	err = s.ledger.BatchCreate(recordCtx, req.UserID, records)
	cancel()
	if err != nil {
		// Nothing committed, nothing deleted: the whole call is safe to retry.
		s.log.Error("failed to record purchases",
			zap.String("user_id", req.UserID),
			zap.Int("item_count", len(records)),
			zap.String("phase", "recording"),
			zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	clearCtx, cancel := s.writeCtx(ctx)
	err = s.cart.BatchDelete(clearCtx, req.UserID, ids)
	cancel()
	if err != nil {
		s.log.Error("purchases recorded but cart not cleared",
			zap.String("user_id", req.UserID),
			zap.Int("item_count", len(ids)),
			zap.String("phase", "clearing"),
			zap.Error(err))
	}

	s.publishPurchaseEvent(ctx, req.UserID, len(lines))

	return &models.CheckoutResult{
		Message:   fmt.Sprintf("Payment processed successfully. %d items removed from cart.", len(lines)),
		ItemCount: len(lines),
	}, nil
}

// publishPurchaseEvent notifies the downstream pipeline of a completed
// checkout. Best effort: the purchase outcome never depends on it.
func (s *checkoutCoordinator) publishPurchaseEvent(ctx context.Context, userID string, count int) {
	if s.publisher == nil || s.topicARN == "" {
		return
	}

	event := models.PurchaseEvent{
		Event:     "purchase.completed",
		UserID:    userID,
		ItemCount: count,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("failed to marshal purchase event", zap.Error(err))
		return
	}

	pubCtx, cancel := s.writeCtx(ctx)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, s.topicARN, payload); err != nil {
		s.log.Warn("failed to publish purchase event",
			zap.String("user_id", userID), zap.Error(err))
	}
}

// storeCtx bounds a read round trip.
func (s *checkoutCoordinator) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// writeCtx bounds a write while shielding it from caller cancellation:
// once a batch is submitted it must run to completion, otherwise a
// disconnect mid-pipeline could leave undetectable partial state.
func (s *checkoutCoordinator) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
}

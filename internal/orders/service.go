package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

// Store is the persistence contract the intake service runs against. The
// Postgres implementation lives in repository.go; tests substitute a fake.
type Store interface {
	// FetchStock returns current name and stock for the requested product
	// ids. Ids missing from the result are treated as out of stock.
	FetchStock(ctx context.Context, productIDs []string) (map[string]domain.StockInfo, error)

	// CreateOrder reserves stock for every line item, assigns the day-scoped
	// sequential id and persists the order, all in one transaction. On
	// ErrStockConflict nothing is committed.
	CreateOrder(ctx context.Context, order *domain.Order, prefix string) error

	// UpdateStatus writes the new status and reports whether it actually
	// changed. Returns ErrOrderNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, bool, error)

	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// UserDirectory resolves a user id to a display name for notifications.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Notifier is the injected notification sink. Emission is best-effort: once
// the order is durable, a failed notification never fails the request.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any) error
}

type Service struct {
	store    Store
	users    UserDirectory
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store Store, users UserDirectory, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

type CreateOrderInput struct {
	UserID     string
	Items      []domain.OrderItem
	Total      float64
	IsTestMode bool
}

// CreateOrder runs the two-phase intake sequence: validate every line against
// a batch stock read, then reserve, identify and persist inside a single
// store transaction, then notify.
//
// The submitted total is stored verbatim; it is the caller's responsibility
// to compute it from the cart.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	stock, err := s.store.FetchStock(ctx, distinctProductIDs(in.Items))
	if err != nil {
		return nil, fmt.Errorf("fetch stock: %w", err)
	}

	// Each line is checked against the same batch read. Duplicate lines of
	// one product that are only jointly short pass here and are caught by the
	// reserve phase's conditional decrement, surfacing as ErrStockConflict.
	var short []string
	for _, item := range in.Items {
		info, ok := stock[item.ProductID]
		if !ok || info.Stock < item.Qty {
			short = append(short, item.Name)
		}
	}
	if len(short) > 0 {
		return nil, &OutOfStockError{Items: short}
	}

	order := &domain.Order{
		UserID:      in.UserID,
		Items:       in.Items,
		Total:       in.Total,
		Status:      domain.OrderStatusPending,
		Date:        time.Now().UTC(),
		PaymentMode: PaymentMode(in.IsTestMode),
	}

	if err := s.store.CreateOrder(ctx, order, OrderPrefix(in.IsTestMode)); err != nil {
		return nil, err
	}

	s.emitOrderReceived(ctx, order)
	return order, nil
}

// SetOrderStatus writes the new status and emits order_status_updated exactly
// once per real transition. A write that does not change the status emits
// nothing.
func (s *Service) SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid order status %q", status)}
	}

	order, changed, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if changed {
		s.emit(ctx, domain.EventOrderStatusUpdated, domain.OrderStatusUpdatedEvent{
			OrderID: order.ID,
			UserID:  order.UserID,
			Status:  order.Status,
		})
	}
	return order, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.store.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) emitOrderReceived(ctx context.Context, order *domain.Order) {
	userName := "Unknown User"
	if s.users != nil {
		name, err := s.users.DisplayName(ctx, order.UserID)
		if err != nil {
			s.logger.Warn("failed to resolve user name for notification", "error", err, "user_id", order.UserID)
		} else if name != "" {
			userName = name
		}
	}

	s.emit(ctx, domain.EventOrderReceived, domain.OrderReceivedEvent{
		OrderID:  order.ID,
		UserName: userName,
		Total:    order.Total,
	})
}

func (s *Service) emit(ctx context.Context, event string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, payload); err != nil {
		s.logger.Error("failed to publish event", "error", err, "event", event)
	}
}

func validateCreate(in CreateOrderInput) error {
	if in.UserID == "" {
		return &ValidationError{Reason: "userId is required"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Reason: "order must contain at least one item"}
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return &ValidationError{Reason: "every item needs a product id"}
		}
		if item.Qty < 1 {
			return &ValidationError{Reason: fmt.Sprintf("invalid quantity for item %q", item.Name)}
		}
	}
	if in.Total < 0 {
		return &ValidationError{Reason: "total must not be negative"}
	}
	return nil
}

func distinctProductIDs(items []domain.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

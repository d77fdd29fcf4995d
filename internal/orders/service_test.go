package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

type fakeStore struct {
	stock map[string]domain.StockInfo

	created      []*domain.Order
	createdLabel string
	createErr    error

	statusOrder *domain.Order
	statusErr   error
	changed     bool
}

func (f *fakeStore) FetchStock(_ context.Context, productIDs []string) (map[string]domain.StockInfo, error) {
	out := make(map[string]domain.StockInfo)
	for _, id := range productIDs {
		if info, ok := f.stock[id]; ok {
			out[id] = info
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *domain.Order, prefix string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdLabel = prefix
	order.ID = FormatOrderID(prefix, order.Date, len(f.created)+1)
	f.created = append(f.created, order)
	for _, item := range order.Items {
		info := f.stock[item.ProductID]
		info.Stock -= item.Qty
		f.stock[item.ProductID] = info
	}
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, bool, error) {
	if f.statusErr != nil {
		return nil, false, f.statusErr
	}
	order := *f.statusOrder
	order.Status = status
	return &order, f.changed, nil
}

func (f *fakeStore) List(context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(f.created))
	for _, o := range f.created {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.created {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type recordedEvent struct {
	event   string
	payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event string, payload any) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	n.events = append(n.events, recordedEvent{event: event, payload: payload})
	n.mu.Unlock()
	return nil
}

func (n *recordingNotifier) recorded() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedEvent(nil), n.events...)
}

type fakeDirectory struct {
	names map[string]string
	err   error
}

func (d *fakeDirectory) DisplayName(_ context.Context, userID string) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	return d.names[userID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoItemCart() []domain.OrderItem {
	return []domain.OrderItem{
		{ProductID: "P1", Name: "Masala Dosa", Qty: 2, Price: 40},
		{ProductID: "P2", Name: "Masala Chai", Qty: 1, Price: 10},
	}
}

func TestService_CreateOrder(t *testing.T) {
	t.Run("creates order and emits order_received", func(t *testing.T) {
		store := &fakeStore{stock: map[string]domain.StockInfo{
			"P1": {Name: "Masala Dosa", Stock: 10},
			"P2": {Name: "Masala Chai", Stock: 10},
		}}
		notifier := &recordingNotifier{}
		users := &fakeDirectory{names: map[string]string{"u-1": "Dhanush"}}
		service := NewService(store, users, notifier, testLogger())

		order, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "u-1",
			Items:  twoItemCart(),
			Total:  90,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.Total != 90 {
			t.Errorf("expected total 90, got %v", order.Total)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status Pending, got %s", order.Status)
		}
		if order.PaymentMode != "Razorpay" {
			t.Errorf("expected payment mode Razorpay, got %s", order.PaymentMode)
		}
		if store.createdLabel != PrefixReal {
			t.Errorf("expected prefix %s, got %s", PrefixReal, store.createdLabel)
		}
		if !strings.HasPrefix(order.ID, "ORD-") {
			t.Errorf("expected ORD- prefixed id, got %s", order.ID)
		}

		events := notifier.recorded()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		if events[0].event != domain.EventOrderReceived {
			t.Errorf("expected %s event, got %s", domain.EventOrderReceived, events[0].event)
		}
		payload, ok := events[0].payload.(domain.OrderReceivedEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", events[0].payload)
		}
		if payload.OrderID != order.ID || payload.UserName != "Dhanush" || payload.Total != 90 {
			t.Errorf("unexpected payload: %+v", payload)
		}
	})

	t.Run("test mode selects SAM prefix and Test Mode payment", func(t *testing.T) {
		store := &fakeStore{stock: map[string]domain.StockInfo{
			"P1": {Name: "Masala Dosa", Stock: 10},
		}}
		service := NewService(store, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		order, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID:     "u-1",
			Items:      []domain.OrderItem{{ProductID: "P1", Name: "Masala Dosa", Qty: 1, Price: 40}},
			Total:      40,
			IsTestMode: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.createdLabel != PrefixTest {
			t.Errorf("expected prefix %s, got %s", PrefixTest, store.createdLabel)
		}
		if order.PaymentMode != "Test Mode" {
			t.Errorf("expected payment mode Test Mode, got %s", order.PaymentMode)
		}
	})

	t.Run("out of stock names every short item and mutates nothing", func(t *testing.T) {
		store := &fakeStore{stock: map[string]domain.StockInfo{
			"P1": {Name: "Masala Dosa", Stock: 1},
			"P2": {Name: "Masala Chai", Stock: 10},
		}}
		notifier := &recordingNotifier{}
		service := NewService(store, &fakeDirectory{}, notifier, testLogger())

		_, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "u-1",
			Items: []domain.OrderItem{
				{ProductID: "P1", Name: "Masala Dosa", Qty: 2, Price: 40},
				{ProductID: "P2", Name: "Masala Chai", Qty: 1, Price: 10},
				{ProductID: "P3", Name: "Veg Thali", Qty: 1, Price: 80},
			},
			Total: 170,
		})

		var outOfStock *OutOfStockError
		if !errors.As(err, &outOfStock) {
			t.Fatalf("expected OutOfStockError, got %v", err)
		}
		if len(outOfStock.Items) != 2 {
			t.Fatalf("expected 2 short items, got %v", outOfStock.Items)
		}
		msg := outOfStock.Error()
		if !strings.Contains(msg, "Masala Dosa") || !strings.Contains(msg, "Veg Thali") {
			t.Errorf("message should name both short items: %s", msg)
		}
		if strings.Contains(msg, "Masala Chai") {
			t.Errorf("satisfiable item should not be named: %s", msg)
		}

		if len(store.created) != 0 {
			t.Error("no order should be persisted")
		}
		if store.stock["P2"].Stock != 10 {
			t.Errorf("stock must be untouched, got %d", store.stock["P2"].Stock)
		}
		if len(notifier.recorded()) != 0 {
			t.Error("no event should be emitted")
		}
	})

	t.Run("unknown product counts as out of stock", func(t *testing.T) {
		store := &fakeStore{stock: map[string]domain.StockInfo{}}
		service := NewService(store, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		_, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "u-1",
			Items:  []domain.OrderItem{{ProductID: "ghost", Name: "Ghost Dish", Qty: 1, Price: 5}},
			Total:  5,
		})

		var outOfStock *OutOfStockError
		if !errors.As(err, &outOfStock) {
			t.Fatalf("expected OutOfStockError, got %v", err)
		}
		if len(outOfStock.Items) != 1 || outOfStock.Items[0] != "Ghost Dish" {
			t.Errorf("unexpected short items: %v", outOfStock.Items)
		}
	})

	t.Run("rejects malformed input before any read", func(t *testing.T) {
		service := NewService(&fakeStore{}, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		cases := []struct {
			name string
			in   CreateOrderInput
		}{
			{"missing user", CreateOrderInput{Items: twoItemCart(), Total: 90}},
			{"empty cart", CreateOrderInput{UserID: "u-1", Total: 0}},
			{"zero quantity", CreateOrderInput{
				UserID: "u-1",
				Items:  []domain.OrderItem{{ProductID: "P1", Name: "Masala Dosa", Qty: 0, Price: 40}},
			}},
			{"negative total", CreateOrderInput{
				UserID: "u-1",
				Items:  []domain.OrderItem{{ProductID: "P1", Name: "Masala Dosa", Qty: 1, Price: 40}},
				Total:  -1,
			}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.CreateOrder(context.Background(), tc.in)
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			})
		}
	})

	t.Run("duplicate lines jointly over stock surface as a conflict, not out of stock", func(t *testing.T) {
		// Each line passes validation against the same batch read; the joint
		// shortfall is only detectable by the store's conditional decrement.
		store := &fakeStore{
			stock:     map[string]domain.StockInfo{"P1": {Name: "Masala Dosa", Stock: 3}},
			createErr: ErrStockConflict,
		}
		service := NewService(store, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		_, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "u-1",
			Items: []domain.OrderItem{
				{ProductID: "P1", Name: "Masala Dosa", Qty: 2, Price: 40},
				{ProductID: "P1", Name: "Masala Dosa", Qty: 2, Price: 40},
			},
			Total: 160,
		})

		var outOfStock *OutOfStockError
		if errors.As(err, &outOfStock) {
			t.Fatalf("validate phase should not catch the joint shortfall, got %v", err)
		}
		if !errors.Is(err, ErrStockConflict) {
			t.Fatalf("expected ErrStockConflict, got %v", err)
		}
	})

	t.Run("stock conflict from the store propagates", func(t *testing.T) {
		store := &fakeStore{
			stock:     map[string]domain.StockInfo{"P1": {Name: "Masala Dosa", Stock: 5}},
			createErr: ErrStockConflict,
		}
		service := NewService(store, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		_, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "u-1",
			Items:  []domain.OrderItem{{ProductID: "P1", Name: "Masala Dosa", Qty: 1, Price: 40}},
			Total:  40,
		})
		if !errors.Is(err, ErrStockConflict) {
			t.Fatalf("expected ErrStockConflict, got %v", err)
		}
	})

	t.Run("notifier failure does not fail the order", func(t *testing.T) {
		store := &fakeStore{stock: map[string]domain.StockInfo{
			"P1": {Name: "Masala Dosa", Stock: 10},
		}}
		notifier := &recordingNotifier{err: errors.New("broker down")}
		service := NewService(store, &fakeDirectory{}, notifier, testLogger())

		order, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "u-1",
			Items:  []domain.OrderItem{{ProductID: "P1", Name: "Masala Dosa", Qty: 1, Price: 40}},
			Total:  40,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID == "" {
			t.Error("order should still be created")
		}
	})

	t.Run("unknown user falls back to Unknown User", func(t *testing.T) {
		store := &fakeStore{stock: map[string]domain.StockInfo{
			"P1": {Name: "Masala Dosa", Stock: 10},
		}}
		notifier := &recordingNotifier{}
		service := NewService(store, &fakeDirectory{names: map[string]string{}}, notifier, testLogger())

		if _, err := service.CreateOrder(context.Background(), CreateOrderInput{
			UserID: "nobody",
			Items:  []domain.OrderItem{{ProductID: "P1", Name: "Masala Dosa", Qty: 1, Price: 40}},
			Total:  40,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		events := notifier.recorded()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		payload := events[0].payload.(domain.OrderReceivedEvent)
		if payload.UserName != "Unknown User" {
			t.Errorf("expected Unknown User, got %s", payload.UserName)
		}
	})
}

func TestService_SetOrderStatus(t *testing.T) {
	baseOrder := &domain.Order{
		ID:     "ORD-20250107-01",
		UserID: "u-1",
		Status: domain.OrderStatusPending,
	}

	t.Run("real transition emits exactly one event", func(t *testing.T) {
		store := &fakeStore{statusOrder: baseOrder, changed: true}
		notifier := &recordingNotifier{}
		service := NewService(store, &fakeDirectory{}, notifier, testLogger())

		order, err := service.SetOrderStatus(context.Background(), baseOrder.ID, domain.OrderStatusServed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != domain.OrderStatusServed {
			t.Errorf("expected Served, got %s", order.Status)
		}

		events := notifier.recorded()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		if events[0].event != domain.EventOrderStatusUpdated {
			t.Errorf("expected %s event, got %s", domain.EventOrderStatusUpdated, events[0].event)
		}
		payload := events[0].payload.(domain.OrderStatusUpdatedEvent)
		if payload.OrderID != baseOrder.ID || payload.UserID != "u-1" || payload.Status != domain.OrderStatusServed {
			t.Errorf("unexpected payload: %+v", payload)
		}
	})

	t.Run("no-op write emits nothing", func(t *testing.T) {
		store := &fakeStore{statusOrder: baseOrder, changed: false}
		notifier := &recordingNotifier{}
		service := NewService(store, &fakeDirectory{}, notifier, testLogger())

		if _, err := service.SetOrderStatus(context.Background(), baseOrder.ID, domain.OrderStatusPending); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notifier.recorded()) != 0 {
			t.Error("no event expected for a no-op status write")
		}
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		service := NewService(&fakeStore{}, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		_, err := service.SetOrderStatus(context.Background(), "ORD-20250107-01", "Eaten")
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown order passes through not found", func(t *testing.T) {
		store := &fakeStore{statusErr: ErrOrderNotFound}
		service := NewService(store, &fakeDirectory{}, &recordingNotifier{}, testLogger())

		_, err := service.SetOrderStatus(context.Background(), "missing", domain.OrderStatusServed)
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

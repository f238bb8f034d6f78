package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Notifier hears about successful adds. The HTTP layer turns the add into a
// navigate-to-cart hint; notifiers handle the other side effects.
type Notifier interface {
	ItemAdded(ctx context.Context, item LineItem)
}

// Notifiers fans out to every notifier in order.
type Notifiers []Notifier

func (n Notifiers) ItemAdded(ctx context.Context, item LineItem) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.ItemAdded(ctx, item)
		}
	}
}

// LogNotifier logs each add at info level.
type LogNotifier struct {
	Logger *logger.Logger
}

func (l LogNotifier) ItemAdded(ctx context.Context, item LineItem) {
	if l.Logger == nil {
		return
	}
	ctx = l.Logger.WithFields(ctx, map[string]any{
		"product_id": item.ProductID.String(),
		"quantity":   item.Quantity,
	})
	l.Logger.Info(ctx, "cart item added")
}

type addRecorder interface {
	CartItemAdded(category string)
}

// MetricsNotifier counts adds per category.
type MetricsNotifier struct {
	Recorder addRecorder
}

func (m MetricsNotifier) ItemAdded(_ context.Context, item LineItem) {
	if m.Recorder != nil {
		m.Recorder.CartItemAdded(item.Category)
	}
}

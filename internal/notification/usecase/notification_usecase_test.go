package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"
)

type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepository) GetPendingNotifications(
	ctx context.Context,
	limit int,
) ([]*domain.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *mockNotificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func testConfig() Config {
	return Config{
		Interval:   10 * time.Millisecond,
		BatchSize:  50,
		MaxRetries: 3,
	}
}

func pendingNotification() *domain.Notification {
	return domain.NewNotification(
		uuid.Must(uuid.NewV7()),
		"Domain registered",
		"example.com is now active.",
		domain.SeveritySuccess,
		domain.CategoryDomainRegistration,
		nil,
	)
}

func TestNotificationUseCase_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("queues the notification", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
			&mockSender{}, StaticRecipientResolver{Address: "support@example.com"},
			slog.New(slog.DiscardHandler))

		notification := pendingNotification()
		repo.On("Create", ctx, notification).Return(nil).Once()

		uc.Dispatch(ctx, notification)
		repo.AssertExpectations(t)
	})

	t.Run("swallows queueing failures", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
			&mockSender{}, StaticRecipientResolver{Address: "support@example.com"},
			slog.New(slog.DiscardHandler))

		repo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		// Must not panic or propagate: queueing sits on the fulfillment path.
		uc.Dispatch(ctx, pendingNotification())
		repo.AssertExpectations(t)
	})
}

func TestNotificationUseCase_DeliverPending(t *testing.T) {
	ctx := context.Background()

	t.Run("marks delivered notifications as sent", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		sender := &mockSender{}
		uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
			sender, StaticRecipientResolver{Address: "support@example.com"},
			slog.New(slog.DiscardHandler))

		notification := pendingNotification()
		repo.On("GetPendingNotifications", ctx, 50).
			Return([]*domain.Notification{notification}, nil).Once()
		sender.On("Send", "support@example.com", notification.Title, notification.Message).
			Return(nil).Once()
		repo.On("Update", ctx,
			mock.MatchedBy(func(n *domain.Notification) bool {
				return n.Status == domain.DeliveryStatusSent && n.SentAt != nil
			})).Return(nil).Once()

		err := uc.DeliverPending(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("increments retries on delivery failure", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		sender := &mockSender{}
		uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
			sender, StaticRecipientResolver{Address: "support@example.com"},
			slog.New(slog.DiscardHandler))

		notification := pendingNotification()
		repo.On("GetPendingNotifications", ctx, 50).
			Return([]*domain.Notification{notification}, nil).Once()
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()
		repo.On("Update", ctx,
			mock.MatchedBy(func(n *domain.Notification) bool {
				return n.Status == domain.DeliveryStatusPending &&
					n.Retries == 1 && n.LastError != nil
			})).Return(nil).Once()

		err := uc.DeliverPending(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("marks a notification failed after max retries", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		sender := &mockSender{}
		uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
			sender, StaticRecipientResolver{Address: "support@example.com"},
			slog.New(slog.DiscardHandler))

		notification := pendingNotification()
		notification.Retries = 2

		repo.On("GetPendingNotifications", ctx, 50).
			Return([]*domain.Notification{notification}, nil).Once()
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()
		repo.On("Update", ctx,
			mock.MatchedBy(func(n *domain.Notification) bool {
				return n.Status == domain.DeliveryStatusFailed && n.Retries == 3
			})).Return(nil).Once()

		err := uc.DeliverPending(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("does nothing when the queue is empty", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		sender := &mockSender{}
		uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
			sender, StaticRecipientResolver{Address: "support@example.com"},
			slog.New(slog.DiscardHandler))

		repo.On("GetPendingNotifications", ctx, 50).
			Return([]*domain.Notification{}, nil).Once()

		err := uc.DeliverPending(ctx)
		require.NoError(t, err)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationUseCase_Start(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &mockNotificationRepository{}
	uc := NewNotificationUseCase(testConfig(), passthroughTxManager{}, repo,
		&mockSender{}, StaticRecipientResolver{Address: "support@example.com"},
		slog.New(slog.DiscardHandler))

	repo.On("GetPendingNotifications", mock.Anything, 50).
		Return([]*domain.Notification{}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- uc.Start(ctx)
	}()

	// Let the ticker fire at least once, then stop the loop.
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("delivery loop did not stop after cancellation")
	}
}

package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cdapos/internal/apperr"
	"github.com/MrJamesThe3rd/cdapos/internal/audit"
	"github.com/MrJamesThe3rd/cdapos/internal/auth"
	"github.com/MrJamesThe3rd/cdapos/internal/notification"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func pending(id uuid.UUID) *notification.Notification {
	return &notification.Notification{
		ID:              id,
		TillID:          uuid.New(),
		OperatorName:    "Caja 1",
		SystemBalance:   decimal.NewFromInt(255652),
		PhysicalBalance: decimal.NewFromInt(250000),
		Difference:      decimal.NewFromInt(-5652),
		State:           notification.StatePending,
	}
}

func TestService_MarkRead(t *testing.T) {
	reviewer := auth.Actor{ID: uuid.New(), Email: "admin@cda.test", Role: auth.RoleAdmin}
	id := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *notification.MockRepository, a *notification.MockAuditor)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "FromPending",
			setupMock: func(m *notification.MockRepository, a *notification.MockAuditor) {
				m.EXPECT().GetNotification(gomock.Any(), id).Return(pending(id), nil)
				m.EXPECT().
					UpdateState(gomock.Any(), gomock.Any(), notification.StatePending).
					DoAndReturn(func(_ context.Context, n *notification.Notification, _ notification.State) error {
						assert.Equal(t, notification.StateRead, n.State)
						require.NotNil(t, n.ReadBy)
						assert.Equal(t, reviewer.ID, *n.ReadBy)
						require.NotNil(t, n.ReadAt)
						assert.Equal(t, fixedNow, *n.ReadAt)

						return nil
					})
				a.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) {
					assert.Equal(t, audit.ActionReadNotification, e.Action)
				})
			},
		},
		{
			name: "AlreadyRead",
			setupMock: func(m *notification.MockRepository, _ *notification.MockAuditor) {
				n := pending(id)
				n.State = notification.StateRead
				m.EXPECT().GetNotification(gomock.Any(), id).Return(n, nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "Archived",
			setupMock: func(m *notification.MockRepository, _ *notification.MockAuditor) {
				n := pending(id)
				n.State = notification.StateArchived
				m.EXPECT().GetNotification(gomock.Any(), id).Return(n, nil)
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "UnknownID",
			setupMock: func(m *notification.MockRepository, _ *notification.MockAuditor) {
				m.EXPECT().GetNotification(gomock.Any(), id).Return(nil, notification.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name: "ConcurrentChange",
			setupMock: func(m *notification.MockRepository, _ *notification.MockAuditor) {
				m.EXPECT().GetNotification(gomock.Any(), id).Return(pending(id), nil)
				m.EXPECT().UpdateState(gomock.Any(), gomock.Any(), notification.StatePending).Return(notification.ErrStale)
			},
			wantErr: apperr.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := notification.NewMockRepository(ctrl)
			auditor := notification.NewMockAuditor(ctrl)
			tt.setupMock(repo, auditor)

			svc := notification.NewService(repo, auditor, func() time.Time { return fixedNow })

			n, err := svc.MarkRead(context.Background(), id, reviewer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, n)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, notification.StateRead, n.State)
		})
	}
}

func TestService_Archive(t *testing.T) {
	reviewer := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}

	for _, from := range []notification.State{notification.StatePending, notification.StateRead} {
		t.Run(string(from), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			n := pending(id)
			n.State = from

			repo := notification.NewMockRepository(ctrl)
			repo.EXPECT().GetNotification(gomock.Any(), id).Return(n, nil)
			repo.EXPECT().UpdateState(gomock.Any(), gomock.Any(), from).Return(nil)

			auditor := notification.NewMockAuditor(ctrl)
			auditor.EXPECT().Record(gomock.Any(), gomock.Any())

			got, err := notification.NewService(repo, auditor, nil).Archive(context.Background(), id, reviewer)
			require.NoError(t, err)
			assert.Equal(t, notification.StateArchived, got.State)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := notification.NewMockRepository(ctrl)
	repo.EXPECT().ListNotifications(gomock.Any(), notification.StatePending, 50).Return(nil, nil)

	svc := notification.NewService(repo, notification.NewMockAuditor(ctrl), nil)

	_, err := svc.List(context.Background(), "", 0)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), "deleted", 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

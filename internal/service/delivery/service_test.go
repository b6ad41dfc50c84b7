package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessages struct {
	rows        int64
	err         error
	gotProvider string
	gotStatus   string
}

func (f *fakeMessages) UpdateDeliveryStatus(_ context.Context, providerID, status string) (int64, error) {
	f.gotProvider = providerID
	f.gotStatus = status
	return f.rows, f.err
}

func TestApply(t *testing.T) {
	messages := &fakeMessages{rows: 1}
	svc := NewService(messages, zap.NewNop())

	err := svc.Apply(context.Background(), "prov-1", "delivered")

	require.NoError(t, err)
	assert.Equal(t, "prov-1", messages.gotProvider)
	assert.Equal(t, "delivered", messages.gotStatus)
}

func TestApplyUnknownProviderIDIsNotAnError(t *testing.T) {
	svc := NewService(&fakeMessages{rows: 0}, zap.NewNop())

	err := svc.Apply(context.Background(), "never-seen", "bounced")
	assert.NoError(t, err)
}

func TestApplyStoreError(t *testing.T) {
	svc := NewService(&fakeMessages{err: errors.New("db down")}, zap.NewNop())

	err := svc.Apply(context.Background(), "prov-1", "sent")
	assert.Error(t, err)
}

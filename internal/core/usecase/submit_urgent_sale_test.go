package usecase

import (
	"context"
	"errors"
	"testing"

	"miniapp-service/internal/contracts"
	"miniapp-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadAPI struct {
	submitted []domain.UrgentSaleApplication
	err       error
}

func (f *fakeLeadAPI) SubmitUrgentSale(ctx context.Context, app domain.UrgentSaleApplication) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, app)
	return nil
}

type fakeNotifier struct {
	notified []domain.UrgentSaleApplication
}

func (f *fakeNotifier) NotifyLead(app domain.UrgentSaleApplication) {
	f.notified = append(f.notified, app)
}

type fakeLeadQueue struct {
	enqueued []domain.UrgentSaleApplication
	err      error
}

func (f *fakeLeadQueue) Enqueue(ctx context.Context, app domain.UrgentSaleApplication) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, app)
	return nil
}

func mustRegistry(t *testing.T) *contracts.Registry {
	t.Helper()
	registry, err := contracts.NewRegistry()
	require.NoError(t, err)
	return registry
}

func validApplication() domain.UrgentSaleApplication {
	return domain.UrgentSaleApplication{
		Name:       "Иван Петров",
		Phone:      "+7 911 123-45-67",
		City:       "Мурманск",
		ObjectType: "квартира",
	}
}

func TestSubmitUrgentSale_AcceptedApplicationFansOut(t *testing.T) {
	api := &fakeLeadAPI{}
	notifier := &fakeNotifier{}
	queue := &fakeLeadQueue{}
	uc := NewSubmitUrgentSaleUseCase(api, notifier, queue, mustRegistry(t))

	err := uc.Execute(context.Background(), validApplication())
	require.NoError(t, err)

	assert.Len(t, api.submitted, 1)
	assert.Len(t, notifier.notified, 1)
	assert.Len(t, queue.enqueued, 1)
}

func TestSubmitUrgentSale_ContractViolationRejectedBeforeUpstream(t *testing.T) {
	api := &fakeLeadAPI{}
	notifier := &fakeNotifier{}
	uc := NewSubmitUrgentSaleUseCase(api, notifier, nil, mustRegistry(t))

	app := validApplication()
	app.Phone = "abc"

	err := uc.Execute(context.Background(), app)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, api.submitted)
	assert.Empty(t, notifier.notified)
}

func TestSubmitUrgentSale_UpstreamFailureStopsFanOut(t *testing.T) {
	api := &fakeLeadAPI{err: errors.New("upstream down")}
	notifier := &fakeNotifier{}
	queue := &fakeLeadQueue{}
	uc := NewSubmitUrgentSaleUseCase(api, notifier, queue, mustRegistry(t))

	err := uc.Execute(context.Background(), validApplication())
	require.Error(t, err)
	assert.Empty(t, notifier.notified)
	assert.Empty(t, queue.enqueued)
}

func TestSubmitUrgentSale_QueueFailureDoesNotFailApplication(t *testing.T) {
	api := &fakeLeadAPI{}
	notifier := &fakeNotifier{}
	queue := &fakeLeadQueue{err: errors.New("broker unavailable")}
	uc := NewSubmitUrgentSaleUseCase(api, notifier, queue, mustRegistry(t))

	err := uc.Execute(context.Background(), validApplication())
	require.NoError(t, err)
	assert.Len(t, notifier.notified, 1)
}

package services

import (
	"context"
	"errors"
	"testing"
	"vivafit/internal/catalog"
	"vivafit/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanService(t *testing.T, kv *testutil.MockKV) PlanServiceInterface {
	t.Helper()
	cat, err := catalog.NewCatalog()
	require.NoError(t, err)
	return NewPlanService(kv, cat, &testutil.MockLogger{})
}

func TestPlan_SubscribeAndCancel(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newPlanService(t, kv)
	ctx := context.Background()

	assert.Nil(t, svc.Current(ctx))

	plan, err := svc.Subscribe(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Advanced Plan", plan.Title)

	current := svc.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "2", current.ID)

	raw, ok := kv.Value(SubscribedPlanKey)
	require.True(t, ok)
	assert.Contains(t, raw, `"title":"Advanced Plan"`)

	require.NoError(t, svc.Cancel(ctx))
	assert.Nil(t, svc.Current(ctx))
}

func TestPlan_UnknownPlan(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newPlanService(t, kv)

	_, err := svc.Subscribe(context.Background(), "99")
	assert.ErrorIs(t, err, ErrUnknownPlan)
	assert.Zero(t, kv.SetCount(SubscribedPlanKey))
}

func TestPlan_CorruptOrUnreadable(t *testing.T) {
	kv := testutil.NewMockKV()
	svc := newPlanService(t, kv)
	ctx := context.Background()

	kv.Put(SubscribedPlanKey, "{nope")
	assert.Nil(t, svc.Current(ctx))

	kv.GetErr = errors.New("disk gone")
	assert.Nil(t, svc.Current(ctx))
}

func TestPlan_ListsCatalogPlans(t *testing.T) {
	plans := newPlanService(t, testutil.NewMockKV()).Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "Beginner Plan", plans[0].Title)
}

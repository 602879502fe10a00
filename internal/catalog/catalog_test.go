package catalog

import (
	"testing"
	"vivafit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinCatalog(t *testing.T) CatalogInterface {
	t.Helper()
	c, err := NewCatalog()
	require.NoError(t, err)
	return c
}

func TestCatalog_BuiltinLoads(t *testing.T) {
	c := builtinCatalog(t)
	assert.Len(t, c.List("", "", SortRecommended), 10)
	assert.Equal(t, []string{"All", "Cardio", "Flexibility", "Strength", "Balance"}, c.Categories())
	assert.Len(t, c.Achievements(), 6)
	assert.Len(t, c.Tips(""), 8)
}

func TestCatalog_ListFilters(t *testing.T) {
	c := builtinCatalog(t)

	strength := c.List("strength", "", "")
	require.Len(t, strength, 3)
	for _, ex := range strength {
		assert.Equal(t, "Strength", ex.Category)
	}

	all := c.List(CategoryAll, "", "")
	assert.Len(t, all, 10)

	byQuery := c.List("", "STRETCH", "")
	ids := make([]string, 0, len(byQuery))
	for _, ex := range byQuery {
		ids = append(ids, ex.ID)
	}
	assert.ElementsMatch(t, []string{"arm-stretch", "neck-stretch"}, ids)

	byDescription := c.List("", "circulation", "")
	assert.Len(t, byDescription, 1)
	assert.Equal(t, "ankle-rotation", byDescription[0].ID)

	assert.Empty(t, c.List("Balance", "push", ""))
}

func TestCatalog_ListSorts(t *testing.T) {
	c := builtinCatalog(t)

	byDuration := c.List("", "", SortDuration)
	for i := 1; i < len(byDuration); i++ {
		assert.LessOrEqual(t, byDuration[i-1].Duration, byDuration[i].Duration)
	}
	assert.Equal(t, "single-leg-balance", byDuration[0].ID)

	byDifficulty := c.List("", "", SortDifficulty)
	for i := 1; i < len(byDifficulty); i++ {
		assert.LessOrEqual(t, byDifficulty[i-1].Difficulty.Rank(), byDifficulty[i].Difficulty.Rank())
	}
	assert.Equal(t, models.DifficultyHigh, byDifficulty[len(byDifficulty)-1].Difficulty)
}

func TestCatalog_Find(t *testing.T) {
	c := builtinCatalog(t)

	ex, ok := c.Find("chair-squat")
	require.True(t, ok)
	assert.Equal(t, "Chair Squat", ex.Name)
	assert.Equal(t, 6, ex.Duration)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCatalog_PlanForActivityLevel(t *testing.T) {
	c := builtinCatalog(t)

	low := c.PlanForActivityLevel(0)
	require.Len(t, low, 2)
	assert.Equal(t, 60, low[0].Duration)
	assert.Equal(t, 15, low[0].RestDuration)

	high := c.PlanForActivityLevel(2)
	require.Len(t, high, 3)
	assert.Equal(t, 300, high[1].Duration)
	assert.False(t, high[2].HasRest())

	assert.Equal(t, c.PlanForActivityLevel(1), c.PlanForActivityLevel(42), "unknown level uses the default plan")
	assert.Equal(t, c.PlanForActivityLevel(1), c.PlanForActivityLevel(-1))
}

func TestCatalog_PlanIsCopied(t *testing.T) {
	c := builtinCatalog(t)
	plan := c.PlanForActivityLevel(1)
	plan[0].Duration = 1

	assert.Equal(t, 90, c.PlanForActivityLevel(1)[0].Duration)
}

func TestCatalog_StepsForExercise(t *testing.T) {
	c := builtinCatalog(t)
	ex, ok := c.Find("walking-in-place")
	require.True(t, ok)

	steps := c.StepsForExercise(ex)
	require.Len(t, steps, 3)

	assert.Equal(t, "warmup", steps[0].ID)
	assert.Equal(t, 30, steps[0].Duration)
	assert.Equal(t, 10, steps[0].RestDuration)

	assert.Equal(t, "main", steps[1].ID)
	assert.Equal(t, "Walking in Place", steps[1].Name)
	assert.Equal(t, 300, steps[1].Duration)
	assert.Equal(t, 15, steps[1].RestDuration)
	assert.Contains(t, steps[1].Instruction, ex.Description)

	assert.Equal(t, "cooldown", steps[2].ID)
	assert.Equal(t, 45, steps[2].Duration)
	assert.Zero(t, steps[2].RestDuration)
}

func TestCatalog_Tips(t *testing.T) {
	c := builtinCatalog(t)
	hydration := c.Tips("hydration")
	require.Len(t, hydration, 1)
	assert.Equal(t, "hydration", hydration[0].ID)
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load([]byte("exercises: [{"))
	assert.Error(t, err)

	_, err = Load([]byte(`
exercises:
  - {id: a, name: A, duration: 1}
  - {id: a, name: B, duration: 1}
plans:
  - {level: 1, steps: [{id: s, duration: 1}]}
`))
	assert.ErrorContains(t, err, "duplicate exercise id")

	_, err = Load([]byte(`
exercises:
  - {id: a, name: A, duration: 1}
plans:
  - {level: 0, steps: [{id: s, duration: 1}]}
`))
	assert.ErrorContains(t, err, "default activity level")

	_, err = Load([]byte(`
plans:
  - {level: 1, steps: []}
`))
	assert.ErrorContains(t, err, "no steps")
}

func TestCatalog_SubscriptionPlans(t *testing.T) {
	c := builtinCatalog(t)
	plans := c.SubscriptionPlans()
	require.Len(t, plans, 2)
	assert.Equal(t, "1", plans[0].ID)

	plan, ok := c.FindSubscriptionPlan(" 2 ")
	require.True(t, ok)
	assert.Equal(t, "Advanced Plan", plan.Title)

	_, ok = c.FindSubscriptionPlan("9")
	assert.False(t, ok)

	plans[0].Title = "changed"
	assert.Equal(t, "Beginner Plan", c.SubscriptionPlans()[0].Title)
}

func TestLoad_SubscriptionPlanValidation(t *testing.T) {
	_, err := Load([]byte(`
plans:
  - {level: 1, steps: [{id: s, duration: 1}]}
subscriptionPlans:
  - {id: "1", title: A}
  - {id: "1", title: B}
`))
	assert.ErrorContains(t, err, "duplicate subscription plan id")
}

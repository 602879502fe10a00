package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"vivafit/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

const (
	SortRecommended = "recommended"
	SortDuration    = "duration"
	SortDifficulty  = "difficulty"

	CategoryAll = "All"
)

type CatalogInterface interface {
	List(category, query, sortBy string) []models.Exercise
	Find(id string) (models.Exercise, bool)
	Categories() []string
	PlanForActivityLevel(level int) []models.WorkoutStep
	StepsForExercise(ex models.Exercise) []models.WorkoutStep
	Achievements() []models.Achievement
	Tips(category string) []models.Tip
	SubscriptionPlans() []models.SubscriptionPlan
	FindSubscriptionPlan(id string) (models.SubscriptionPlan, bool)
}

type Plan struct {
	Level int                  `yaml:"level"`
	Name  string               `yaml:"name"`
	Steps []models.WorkoutStep `yaml:"steps"`
}

type exerciseWorkout struct {
	Warmup     models.WorkoutStep `yaml:"warmup"`
	MainRest   int                `yaml:"mainRest"`
	MainSuffix string             `yaml:"mainSuffix"`
	Cooldown   models.WorkoutStep `yaml:"cooldown"`
}

type document struct {
	Exercises       []models.Exercise    `yaml:"exercises"`
	ExerciseWorkout exerciseWorkout      `yaml:"exerciseWorkout"`
	Plans           []Plan               `yaml:"plans"`
	Achievements    []models.Achievement `yaml:"achievements"`
	Tips            []models.Tip         `yaml:"tips"`

	SubscriptionPlans []models.SubscriptionPlan `yaml:"subscriptionPlans"`
}

type Catalog struct {
	doc   document
	byID  map[string]int
	plans map[int][]models.WorkoutStep
}

// NewCatalog loads the catalog compiled into the binary.
func NewCatalog() (CatalogInterface, error) {
	return Load(builtin)
}

// Load parses and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		doc:   doc,
		byID:  make(map[string]int, len(doc.Exercises)),
		plans: make(map[int][]models.WorkoutStep, len(doc.Plans)),
	}

	for i, ex := range doc.Exercises {
		id := strings.TrimSpace(ex.ID)
		if id == "" {
			return nil, fmt.Errorf("exercise %q has no id", ex.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate exercise id %q", id)
		}
		if ex.Duration <= 0 {
			return nil, fmt.Errorf("exercise %q has non-positive duration", id)
		}
		c.byID[id] = i
	}

	for _, p := range doc.Plans {
		if len(p.Steps) == 0 {
			return nil, fmt.Errorf("plan for level %d has no steps", p.Level)
		}
		if _, dup := c.plans[p.Level]; dup {
			return nil, fmt.Errorf("duplicate plan for level %d", p.Level)
		}
		for _, s := range p.Steps {
			if s.Duration < 0 || s.RestDuration < 0 {
				return nil, fmt.Errorf("plan %d step %q has negative duration", p.Level, s.ID)
			}
		}
		c.plans[p.Level] = p.Steps
	}
	seen := make(map[string]bool, len(doc.SubscriptionPlans))
	for _, sp := range doc.SubscriptionPlans {
		if strings.TrimSpace(sp.ID) == "" {
			return nil, fmt.Errorf("subscription plan %q has no id", sp.Title)
		}
		if seen[sp.ID] {
			return nil, fmt.Errorf("duplicate subscription plan id %q", sp.ID)
		}
		seen[sp.ID] = true
	}
	if _, ok := c.plans[models.DefaultActivityLevel]; !ok {
		return nil, fmt.Errorf("catalog has no plan for default activity level %d", models.DefaultActivityLevel)
	}

	return c, nil
}

// List filters by category (empty or "All" matches everything) and by a
// case-insensitive substring of name or description, then sorts. The
// recommended order is catalog order.
func (c *Catalog) List(category, query, sortBy string) []models.Exercise {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Exercise, 0, len(c.doc.Exercises))
	for _, ex := range c.doc.Exercises {
		if category != "" && !strings.EqualFold(category, CategoryAll) && !strings.EqualFold(category, ex.Category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(ex.Name), query) &&
			!strings.Contains(strings.ToLower(ex.Description), query) {
			continue
		}
		out = append(out, ex)
	}

	switch sortBy {
	case SortDuration:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Duration < out[j].Duration })
	case SortDifficulty:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Difficulty.Rank() < out[j].Difficulty.Rank() })
	}
	return out
}

func (c *Catalog) Find(id string) (models.Exercise, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return models.Exercise{}, false
	}
	return c.doc.Exercises[i], true
}

// Categories returns "All" followed by every category in catalog order.
func (c *Catalog) Categories() []string {
	out := []string{CategoryAll}
	for _, ex := range c.doc.Exercises {
		if !slices.Contains(out, ex.Category) {
			out = append(out, ex.Category)
		}
	}
	return out
}

// PlanForActivityLevel returns a copy of the plan for level, falling back to
// the default level for unknown values.
func (c *Catalog) PlanForActivityLevel(level int) []models.WorkoutStep {
	steps, ok := c.plans[level]
	if !ok {
		steps = c.plans[models.DefaultActivityLevel]
	}
	return slices.Clone(steps)
}

// StepsForExercise builds the warm-up / main / cool-down sequence for ex.
func (c *Catalog) StepsForExercise(ex models.Exercise) []models.WorkoutStep {
	tpl := c.doc.ExerciseWorkout
	main := models.WorkoutStep{
		ID:           "main",
		Name:         ex.Name,
		Instruction:  ex.Description + tpl.MainSuffix,
		Duration:     ex.Duration * 60,
		RestDuration: tpl.MainRest,
	}
	return []models.WorkoutStep{tpl.Warmup, main, tpl.Cooldown}
}

func (c *Catalog) Achievements() []models.Achievement {
	return slices.Clone(c.doc.Achievements)
}

func (c *Catalog) Tips(category string) []models.Tip {
	out := make([]models.Tip, 0, len(c.doc.Tips))
	for _, t := range c.doc.Tips {
		if category == "" || strings.EqualFold(category, CategoryAll) || strings.EqualFold(category, t.Category) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) SubscriptionPlans() []models.SubscriptionPlan {
	return slices.Clone(c.doc.SubscriptionPlans)
}

func (c *Catalog) FindSubscriptionPlan(id string) (models.SubscriptionPlan, bool) {
	id = strings.TrimSpace(id)
	for _, sp := range c.doc.SubscriptionPlans {
		if sp.ID == id {
			return sp, true
		}
	}
	return models.SubscriptionPlan{}, false
}

package models

type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

// Rank orders difficulties from easiest to hardest; unknown values sort last.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyLow:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHigh:
		return 2
	default:
		return 3
	}
}

// Exercise is an entry of the local catalog. Duration is in minutes.
type Exercise struct {
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Description  string     `json:"description" yaml:"description"`
	Duration     int        `json:"duration" yaml:"duration"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	Category     string     `json:"category" yaml:"category"`
	Benefits     []string   `json:"benefits" yaml:"benefits"`
	Instructions []string   `json:"instructions" yaml:"instructions"`
}

// ExerciseMetadata is what the remote exercise API returns for one exercise.
type ExerciseMetadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Muscles     []string `json:"muscles,omitempty"`
	Equipment   []string `json:"equipment,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// ExerciseDetail is a cached or freshly fetched exercise as served to clients.
type ExerciseDetail struct {
	Source string      `json:"source"`
	Entry  *CacheEntry `json:"entry"`
	Image  string      `json:"image,omitempty"`
}

type Tip struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Category string `json:"category" yaml:"category"`
	Icon     string `json:"icon" yaml:"icon"`
}

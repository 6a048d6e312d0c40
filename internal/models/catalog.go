package models

// TimeOption is a preset time budget offered by the form.
type TimeOption struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// Catalog lists the choices the form offers. Language and project type also
// accept free-form values.
type Catalog struct {
	Languages        []string     `json:"languages"`
	TimeOptions      []TimeOption `json:"time_options"`
	ProjectTypes     []string     `json:"project_types"`
	DifficultyLevels []string     `json:"difficulty_levels"`
	ExpertiseAreas   []string     `json:"expertise_areas"`
	MaxParticipants  int          `json:"max_participants"`
}

// DefaultCatalog returns the built-in form choices.
func DefaultCatalog() Catalog {
	return Catalog{
		Languages: []string{
			"JavaScript", "Python", "TypeScript", "React", "Vue.js", "Angular",
			"Node.js", "Java", "C++", "C#", "Go", "Rust", "Swift", "Kotlin",
			"PHP", "Ruby", "Dart", "Flutter", "React Native", "Any Language",
		},
		TimeOptions: []TimeOption{
			{Minutes: 30, Label: "30 minutes"},
			{Minutes: 60, Label: "1 hour"},
			{Minutes: 120, Label: "2 hours"},
			{Minutes: 240, Label: "4 hours"},
			{Minutes: 480, Label: "8 hours"},
			{Minutes: 1440, Label: "1 day"},
			{Minutes: 2880, Label: "2 days"},
			{Minutes: 10080, Label: "1 week"},
		},
		ProjectTypes: []string{
			"Web Application", "Mobile App", "Desktop Application", "Game",
			"API/Backend", "Data Analysis", "Machine Learning", "DevOps Tool",
			"Chrome Extension", "CLI Tool", "Library/Package", "Any Type",
		},
		DifficultyLevels: []string{
			DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert,
		},
		ExpertiseAreas: []string{
			"Frontend Development", "Backend Development", "Full Stack", "UI/UX Design",
			"Database Management", "DevOps", "Mobile Development", "Game Development",
			"Data Science", "Machine Learning", "Cybersecurity", "Quality Assurance",
			"Project Management", "Beginner/Learning",
		},
		MaxParticipants: MaxParticipants,
	}
}

package domain

// Symptom categories used by CategoriesExplored. The sets mirror the seeded
// catalog; a symptom outside every set simply counts toward no category.
var SymptomCategories = map[string][]string{
	"mood_emotional": {"G1", "G2", "G3", "G4", "G5"},
	"cognitive":      {"G6", "G7", "G8", "G9"},
	"physical":       {"G10", "G11", "G12", "G13", "G14"},
	"behavioral":     {"G15", "G16", "G17", "G18"},
	"trauma_related": {"G8", "G19", "G20"},
}

// CategoryOrder fixes the iteration order over SymptomCategories.
var CategoryOrder = []string{
	"mood_emotional",
	"cognitive",
	"physical",
	"behavioral",
	"trauma_related",
}

// CategoryTitles are the user-facing names for the categories.
var CategoryTitles = map[string]string{
	"mood_emotional": "Настроение и эмоции",
	"cognitive":      "Мышление",
	"physical":       "Физическое состояние",
	"behavioral":     "Поведение",
	"trauma_related": "Реакции на травму",
}

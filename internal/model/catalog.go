package model

// DefaultExercises returns a fresh copy of the built-in exercise catalog.
// Callers may modify the returned slice freely.
func DefaultExercises() []Exercise {
	return []Exercise{
		{ID: "1", Type: ExerciseMeditation, Title: "Mindful Breathing", Description: "Focus on your breath for 5 minutes", Duration: 5},
		{ID: "2", Type: ExerciseJournaling, Title: "Gratitude Journal", Description: "Write down 3 things you're grateful for", Duration: 10},
		{ID: "3", Type: ExerciseBreathing, Title: "4-7-8 Breathing", Description: "Inhale for 4, hold for 7, exhale for 8", Duration: 8},
		{ID: "4", Type: ExerciseMeditation, Title: "Body Scan", Description: "Progressive muscle relaxation", Duration: 12},
		{ID: "breathing-basic", Type: ExerciseBreathing, Title: "Basic Breathing Meditation", Description: "Simple breath awareness for beginners", Duration: 5},
		{ID: "body-scan", Type: ExerciseMeditation, Title: "Body Scan Relaxation", Description: "Progressive relaxation through body awareness", Duration: 10},
		{ID: "mindfulness", Type: ExerciseMeditation, Title: "Mindful Awareness", Description: "Present moment awareness meditation", Duration: 8},
		{ID: "loving-kindness", Type: ExerciseMeditation, Title: "Loving Kindness", Description: "Cultivate compassion for yourself and others", Duration: 12},
	}
}

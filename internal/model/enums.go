package model

import "fmt"

// View names a top-level screen.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewChatbot    View = "chatbot"
	ViewMood       View = "mood"
	ViewExercises  View = "exercises"
	ViewCommunity  View = "community"
	ViewSettings   View = "settings"
	ViewInsights   View = "insights"
	ViewMeditation View = "meditation"
	ViewCrisis     View = "crisis"
	ViewWellness   View = "wellness"
)

var views = map[View]struct{}{
	ViewDashboard: {}, ViewChatbot: {}, ViewMood: {}, ViewExercises: {}, ViewCommunity: {},
	ViewSettings: {}, ViewInsights: {}, ViewMeditation: {}, ViewCrisis: {}, ViewWellness: {},
}

// ParseView validates s against the closed set of views.
func ParseView(s string) (View, error) {
	v := View(s)
	if _, ok := views[v]; !ok {
		return "", fmt.Errorf("%w: unknown view %q", ErrValidation, s)
	}
	return v, nil
}

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ParseTheme validates s against the supported themes.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", ErrValidation, s)
	}
}

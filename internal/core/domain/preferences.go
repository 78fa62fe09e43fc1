package domain

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

// Preferences are the UI settings kept in the session store.
type Preferences struct {
	Theme  Theme  `json:"theme"`
	Locale Locale `json:"locale"`
}

// DefaultPreferences is what a fresh store yields.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeDark, Locale: LocaleES}
}

func (t Theme) Valid() bool { return t == ThemeDark || t == ThemeLight }

func (l Locale) Valid() bool { return l == LocaleES || l == LocaleEN }

// DashboardView is a role-gated area of the dashboard.
type DashboardView struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Roles []string `json:"roles"`
}

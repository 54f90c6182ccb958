package constants

const (
	SettingTheme         = "theme"
	SettingIdentityToken = "identity_token"

	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultTheme = ThemeLight
)

// Package version holds the application identity shown in logs and help.
package version

const (
	AppName        = "DEA"
	AppDescription = "A Discord economy bot: earn cash, commit crimes, gamble and run a gang."
)

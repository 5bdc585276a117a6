package config

// Help categories, ordered by weight.
const (
	CategoryEconomy  = "💵 Economy"
	CategoryCrime    = "🔫 Crime"
	CategoryGambling = "🎲 Gambling"
	CategoryGangs    = "🏴 Gangs"
	CategoryContent  = "🔞 Content"
	CategorySettings = "⚙️ Settings"
	CategoryOwner    = "🛠️ Owner"
)

var CategoryWeights = map[string]int{
	CategoryEconomy:  0,
	CategoryCrime:    10,
	CategoryGambling: 20,
	CategoryGangs:    30,
	CategoryContent:  40,
	CategorySettings: 50,
	CategoryOwner:    60,
}

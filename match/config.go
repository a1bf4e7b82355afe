package match

// Config is one match's yaml file under etc/<server-type>/.
type Config struct {
	GameType       string `mapstructure:"game_type"`
	Matchid        int32  `mapstructure:"matchid"`
	Name           string `mapstructure:"name"`
	PlayerPerTable int32  `mapstructure:"player_per_table"`
	SignCondition  string `mapstructure:"sign_condition"`
	InitialChips   int64  `mapstructure:"initial_chips"`
	ScoreBase      int64  `mapstructure:"score_base"`
	GameCount      int32  `mapstructure:"game_count"`
	SignTimeoutSec int32  `mapstructure:"sign_timeout_sec"`
	Property       string `mapstructure:"property"`
}

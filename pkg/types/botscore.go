// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DisplayScores are a bot-detection service's raw display scores, on a 0-5
// scale, for the English-specific and language-universal models.
type DisplayScores struct {
	English   float64 `json:"english"`
	Universal float64 `json:"universal"`
}

// BotScore is the cached scoring result for one author. Cap is the
// calibrated bot probability (0-1); Scores are the display values. A score
// is obtained once per author and treated as immutable afterwards.
type BotScore struct {
	Cap    float64       `json:"cap"`
	Scores DisplayScores `json:"scores"`
}

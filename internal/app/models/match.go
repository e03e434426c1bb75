package models

// MatchResult is a candidate ranked for a viewer. It is derived on every
// read and never stored.
type MatchResult struct {
	Profile       Profile  `json:"profile"`
	Compatibility int      `json:"compatibility"`
	MatchingTeach []string `json:"matchingTeach"`
	MatchingLearn []string `json:"matchingLearn"`
}

package models

// Recommendation is a single buy, sell or hold idea.
type Recommendation struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Recommendations groups ideas by action.
type Recommendations struct {
	Buy  []Recommendation `json:"buyRecommendations"`
	Sell []Recommendation `json:"sellRecommendations"`
	Hold []Recommendation `json:"holdRecommendations"`
}

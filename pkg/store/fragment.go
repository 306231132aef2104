package store

// Fragment is a single pre-indexed snippet from the historical case corpus,
// paired with the similarity score the index reported for the current query.
type Fragment struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Turn is one completed exchange in a chat session.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

package domain

// Topic is a trending subject yielded by the topic source.
type Topic struct {
	Title           string         `json:"title"`
	TrafficEstimate float64        `json:"trafficEstimate"`
	Articles        []TopicArticle `json:"articles"`
}

// TopicArticle is a news item attached to a trending topic.
type TopicArticle struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ScoredTopic is a topic annotated with its selection score. The winning
// ScoredTopic is the keyword of record for the rest of a run.
type ScoredTopic struct {
	Topic
	Score float64 `json:"score"`
}

package queue

// QueueBuildMsg requests assembly of a knowledge graph from the configured
// entity categories. An empty Categories slice means all known categories.
type QueueBuildMsg struct {
	BuildID    string   `json:"build_id"`
	GraphID    string   `json:"graph_id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// QueueDeleteMsg requests removal of a stored graph and its exports.
type QueueDeleteMsg struct {
	GraphID string `json:"graph_id"`
}

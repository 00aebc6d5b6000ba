package model

// Point is a vector plus payload as stored in a collection. The ID is
// generated fresh on every upsert, never derived from the chunk id.
type Point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

// RetrievalHit is one scored result of a similarity search. Higher score
// means more relevant.
type RetrievalHit struct {
	ID      string                 `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

// IngestStats aggregates the outcome of one ingestion run.
type IngestStats struct {
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// RunResult is the terminal output of one agent run. Error outcomes are
// shaped the same as answers, with an explanatory Text.
type RunResult struct {
	Text      string         `json:"text"`
	Retrieved []RetrievalHit `json:"retrieved"`
}

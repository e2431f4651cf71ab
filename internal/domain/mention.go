package domain

// Mention is one record from the external mention stream.
type Mention struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ImageData []byte `json:"imageData,omitempty"`
}

// ParsedCommand is a launch command extracted from mention text.
type ParsedCommand struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// MonitorStatus is a snapshot of the ingestion monitor state.
type MonitorStatus struct {
	IsMonitoring   bool   `json:"isMonitoring"`
	ProcessedCount int    `json:"processedCount"`
	LastError      string `json:"lastError,omitempty"`
}

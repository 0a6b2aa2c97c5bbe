package models

// WordLines is one word of the index as printed.
type WordLines struct {
	Word      string   `json:"word" yaml:"word"`
	Count     int      `json:"count" yaml:"count"`
	Lines     []uint32 `json:"lines" yaml:"lines,flow"`
	Truncated bool     `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// IndexOutput is the structured output of the index command.
type IndexOutput struct {
	Status  string      `json:"status" yaml:"status"`
	RunID   string      `json:"run_id" yaml:"run_id"`
	Input   string      `json:"input" yaml:"input"`
	Words   []WordLines `json:"words" yaml:"words"`
	Missing []string    `json:"missing,omitempty" yaml:"missing,omitempty"`
	Skipped []string    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Stats   Stats       `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	Bytes            int      `json:"bytes" yaml:"bytes"`
	Chunks           int      `json:"chunks" yaml:"chunks"`
	Lines            int      `json:"lines" yaml:"lines"`
	LineHits         int      `json:"line_hits" yaml:"line_hits"`
	Workers          int      `json:"workers" yaml:"workers"`
	Partitions       int      `json:"partitions" yaml:"partitions"`
	Store            string   `json:"store" yaml:"store"`
	TotalTimeSeconds float64  `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopWords         []string `json:"top_words,omitempty" yaml:"top_words,omitempty"`
}

// ChunkInfo describes one chunk of a split plan.
type ChunkInfo struct {
	ID    int `json:"id" yaml:"id"`
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	Bytes int `json:"bytes" yaml:"bytes"`
	Lines int `json:"lines" yaml:"lines"`
}

// SplitOutput is the structured output of the split command.
type SplitOutput struct {
	Input     string      `json:"input" yaml:"input"`
	Bytes     int         `json:"bytes" yaml:"bytes"`
	ChunkSize int         `json:"chunk_size" yaml:"chunk_size"`
	Chunks    []ChunkInfo `json:"chunks" yaml:"chunks"`
	Suggested []string    `json:"suggested,omitempty" yaml:"suggested,omitempty"`
}

package model

import "time"

// Document is the record of one uploaded contract file. The raw bytes are
// discarded after ingest; only the extraction outcome survives on the session.
type Document struct {
	Name       string    `json:"name"`
	CharCount  int       `json:"char_count"`
	ChunkCount int       `json:"chunk_count"`
	Unreadable bool      `json:"unreadable"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is a bounded slice of one document's extracted text, the unit of
// embedding and retrieval.
type Chunk struct {
	Document string `json:"document"`
	Seq      int    `json:"seq"`
	Text     string `json:"text"`
}

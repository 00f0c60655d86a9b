package model

import "github.com/google/uuid"

// EmbeddingDimension is the dimension of the embedding vectors stored in
// the index. The reference configuration uses a MiniLM-family model with
// 384 dimensions.
const EmbeddingDimension = 384

// RecordID is a UUID-based identifier for an indexed record
type RecordID string

// NewRecordID generates a new UUID v4 RecordID
func NewRecordID() RecordID {
	return RecordID(uuid.New().String())
}

// IndexedRecord is one persisted unit of the vector index. The embedding
// vector itself lives in the index snapshot at the same ordinal position;
// this alignment is the central invariant of the store.
type IndexedRecord struct {
	Ordinal    int      `json:"ordinal"`
	RecordID   RecordID `json:"record_id"`
	Snippet    string   `json:"snippet"`
	PremiumINR float64  `json:"premium_inr"`
}

// RetrievedRecord pairs an indexed record with its similarity score against
// a query
type RetrievedRecord struct {
	Record IndexedRecord
	Score  float64
}

// RetrievedContext is an ordered sequence of retrieved records, sorted by
// descending similarity, length at most K. Computed per request and
// discarded afterwards.
type RetrievedContext []RetrievedRecord

// IndexStatus reports the state of the vector index store to callers
type IndexStatus struct {
	Loaded        bool   `json:"loaded"`
	TotalVectors  int    `json:"totalVectors,omitempty"`
	Dimension     int    `json:"dimension,omitempty"`
	MetadataCount int    `json:"metadataCount,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Question is immutable after creation. Only a digest of the correct choice
// is stored; the plaintext answer never leaves the seeder.
type Question struct {
	ID                string    `json:"id" bson:"_id,omitempty"`
	Difficulty        int       `json:"difficulty" bson:"difficulty"`
	Prompt            string    `json:"prompt" bson:"prompt"`
	Choices           []string  `json:"choices" bson:"choices"`
	CorrectAnswerHash string    `json:"-" bson:"correctAnswerHash"`
	Tags              []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
}

// HashAnswer computes the digest used for answer verification.
func HashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(answer))
	return hex.EncodeToString(sum[:])
}

// CheckAnswer verifies a submitted choice by recomputing its digest.
func (q *Question) CheckAnswer(answer string) bool {
	return HashAnswer(answer) == q.CorrectAnswerHash
}

package models

import "time"

// Verdict is the classified outcome of one deployment validation attempt.
type Verdict string

const (
	VerdictPass    Verdict = "pass"
	VerdictFail    Verdict = "fail"
	VerdictUnknown Verdict = "unknown"
)

// DeploymentCheck records a single poll of a deployment endpoint. One row per
// attempt, append-only, ordered by Attempt; verdicts are never overwritten.
type DeploymentCheck struct {
	ID         uint   `gorm:"primaryKey"`
	ProjectID  uint   `gorm:"not null;index"`
	TargetURL  string `gorm:"size:512;not null"`
	Attempt    int    `gorm:"not null"`
	HTTPStatus int
	LogExcerpt string  `gorm:"type:text"`
	Verdict    Verdict `gorm:"size:16;not null"`
	CreatedAt  time.Time
}

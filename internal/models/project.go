package models

import "time"

// ProjectStatus is the lifecycle state of a project, owned by the pipeline
// controller. Terminal states are StatusValidated and StatusFailed.
type ProjectStatus string

const (
	StatusDraft      ProjectStatus = "draft"
	StatusPlanning   ProjectStatus = "planning"
	StatusGenerating ProjectStatus = "generating"
	StatusPublishing ProjectStatus = "publishing"
	StatusDeploying  ProjectStatus = "deploying"
	StatusValidated  ProjectStatus = "validated"
	StatusFailed     ProjectStatus = "failed"
)

// Terminal reports whether the status allows no further transitions.
func (s ProjectStatus) Terminal() bool {
	return s == StatusValidated || s == StatusFailed
}

// TargetStack identifies the technology stack a project is generated for.
type TargetStack string

const (
	StackStatic  TargetStack = "static"
	StackPython  TargetStack = "python"
	StackFastAPI TargetStack = "fastapi"
	StackNode    TargetStack = "node"
	StackReact   TargetStack = "react"
)

// KnownStacks lists the stacks the generator can target.
func KnownStacks() []TargetStack {
	return []TargetStack{StackStatic, StackPython, StackFastAPI, StackNode, StackReact}
}

type Project struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:120;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Stack       TargetStack
	Status      ProjectStatus `gorm:"size:32;not null;default:draft"`

	// Remote repository reference; empty until the first successful publish.
	RepoOwner string `gorm:"size:120"`
	RepoName  string `gorm:"size:120"`
	RepoURL   string `gorm:"size:512"`

	// DeployURL is the deployment endpoint to validate. Empty means
	// validation is skipped.
	DeployURL string `gorm:"size:512"`

	// FailReason is the machine-readable reason code set when Status is failed.
	FailReason string `gorm:"size:64"`
	FailDetail string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

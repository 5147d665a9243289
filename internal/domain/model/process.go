package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxProcessKeyLen  = 64
	maxProcessNameLen = 255
)

// Process is a job-processing pipeline definition.
type Process struct {
	ID                string
	Key               string
	Name              string
	Activation        Activation
	AgentKey          string
	BucketKeyIfPaused string
}

// Identity returns the process identifier.
func (p Process) Identity() string { return p.ID }

// IsNew reports whether the process has not been persisted yet.
func (p Process) IsNew() bool { return p.ID == "" }

// Ref returns a denormalized reference to the process.
func (p Process) Ref() *ProcessRef {
	return &ProcessRef{ID: p.ID, Key: p.Key, Name: p.Name}
}

// Label returns the text shown for the process in option lists.
func (p Process) Label() string {
	switch {
	case p.Key != "" && p.Name != "":
		return p.Key + " - " + p.Name
	case p.Name != "":
		return p.Name
	case p.Key != "":
		return p.Key
	default:
		return p.ID
	}
}

// Validate checks the required process fields.
func (p *Process) Validate() error {
	p.Key = strings.TrimSpace(p.Key)
	p.Name = strings.TrimSpace(p.Name)
	if p.Key == "" {
		return errors.New("key is required and cannot be empty")
	}
	if utf8.RuneCountInString(p.Key) > maxProcessKeyLen {
		return errors.New("key cannot exceed 64 characters")
	}
	if p.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(p.Name) > maxProcessNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(string(p.Activation)) == "" {
		return errors.New("activation is required and cannot be empty")
	}
	return nil
}

// ProcessPatch carries the fields of a partial process update. Nil fields are left unchanged.
type ProcessPatch struct {
	Key               *string
	Name              *string
	Activation        *Activation
	AgentKey          *string
	BucketKeyIfPaused *string
}

// Apply merges the set fields into p.
func (pp ProcessPatch) Apply(p *Process) {
	if pp.Key != nil {
		p.Key = *pp.Key
	}
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Activation != nil {
		p.Activation = *pp.Activation
	}
	if pp.AgentKey != nil {
		p.AgentKey = *pp.AgentKey
	}
	if pp.BucketKeyIfPaused != nil {
		p.BucketKeyIfPaused = *pp.BucketKeyIfPaused
	}
}

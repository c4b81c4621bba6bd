package models

import (
	"errors"
	"strings"
	"time"
)

type Source string

const (
	SourceLinkedInJobs  Source = "LinkedIn Jobs"
	SourceLinkedInPosts Source = "LinkedIn Posts"
	SourceIndeed        Source = "Indeed"
	SourceInternshala   Source = "Internshala"
)

var ErrEmptyQuery = errors.New("designation and city are required")

// Record is one normalized listing. Every field is always present so that
// all rows of a run share the same columns; missing values are "".
type Record struct {
	Source   Source `json:"source"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
}

// Query is what the user typed into the form.
type Query struct {
	Designation string `json:"designation"`
	City        string `json:"city"`
}

func (q Query) Normalize() Query {
	return Query{
		Designation: strings.TrimSpace(q.Designation),
		City:        strings.TrimSpace(q.City),
	}
}

func (q Query) Validate() error {
	n := q.Normalize()
	if n.Designation == "" || n.City == "" {
		return ErrEmptyQuery
	}
	return nil
}

type SourceCount struct {
	Source Source `json:"source"`
	Count  int    `json:"count"`
	Failed bool   `json:"failed"`
}

// RunResult lives for a single run and is never persisted.
type RunResult struct {
	ID         string        `json:"id"`
	Query      Query         `json:"query"`
	Records    []Record      `json:"records"`
	Counts     []SourceCount `json:"counts"`
	Path       string        `json:"path"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

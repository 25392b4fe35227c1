package domain

import (
	"fmt"
	"sort"
)

type Success struct {
	Index    int
	Path     string
	Metadata ImageMetadata
}

type Failure struct {
	Index   int
	Path    string
	Kind    string
	Message string
}

// BatchResult aggregates one run. Index fields hold the position in the input.
type BatchResult struct {
	Total        int
	SuccessCount int
	FailedCount  int
	Successful   []Success
	Failed       []Failure
}

func (r *BatchResult) AddSuccess(s Success) {
	r.Successful = append(r.Successful, s)
	r.SuccessCount++
}

func (r *BatchResult) AddFailure(f Failure) {
	r.Failed = append(r.Failed, f)
	r.FailedCount++
}

// Demote moves successful entries into Failed, keeping input order in both.
func (r BatchResult) Demote(failures map[int]Failure) BatchResult {
	if len(failures) == 0 {
		return r
	}
	out := BatchResult{Total: r.Total}
	for _, s := range r.Successful {
		if _, ok := failures[s.Index]; ok {
			continue
		}
		out.AddSuccess(s)
	}
	out.Failed = append(out.Failed, r.Failed...)
	out.FailedCount = r.FailedCount
	for _, f := range failures {
		out.AddFailure(f)
	}
	sort.SliceStable(out.Failed, func(i, j int) bool {
		return out.Failed[i].Index < out.Failed[j].Index
	})
	return out
}

func (r BatchResult) AllSucceeded() bool {
	return r.FailedCount == 0
}

// Skipped is an input dropped before the batch starts.
type Skipped struct {
	Path   string
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("%s %s, skipping", s.Path, s.Reason)
}

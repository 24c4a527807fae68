package service

import (
	"errors"
	"fmt"

	"github.com/viant/autofake/fake"
	"github.com/viant/autofake/inspector/graph"
)

// Result represents outcome for one input header
type Result struct {
	Path     string
	Source   []byte // input content
	File     *graph.File
	Unit     *fake.Unit
	Written  bool // at least one output changed
	Warnings []string
	Err      error
}

// Report represents run outcome
type Report struct {
	Project *graph.Project
	Results []*Result
}

// Failed returns results with errors
func (r *Report) Failed() []*Result {
	var ret []*Result
	for _, result := range r.Results {
		if result.Err != nil {
			ret = append(ret, result)
		}
	}
	return ret
}

// Err returns joined errors of failed results
func (r *Report) Err() error {
	var errs []error
	for _, result := range r.Failed() {
		errs = append(errs, fmt.Errorf("%v: %w", result.Path, result.Err))
	}
	return errors.Join(errs...)
}

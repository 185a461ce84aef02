package registry

import "fmt"

// ConflictError reports two explicit, different capacities for one component.
type ConflictError struct {
	Name           string
	First, Second  string // declaring files in scan order
	FirstCapacity  int
	SecondCapacity int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("component %s declared with capacity %d in %s and capacity %d in %s",
		e.Name, e.FirstCapacity, e.First, e.SecondCapacity, e.Second)
}

// DuplicateError reports a component declared by more than one file.
type DuplicateError struct {
	Name          string
	First, Second string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("component %s declared in both %s and %s", e.Name, e.First, e.Second)
}

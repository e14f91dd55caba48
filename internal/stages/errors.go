package stages

import "fmt"

// JobAnalysisError represents a failure in the job analyzer stage
type JobAnalysisError struct {
	Message string
	Cause   error
}

func (e *JobAnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("job analysis failed: %s", e.Message)
}

func (e *JobAnalysisError) Unwrap() error {
	return e.Cause
}

// StrategyError represents a failure in the strategy-building stage
type StrategyError struct {
	Message string
	Cause   error
}

func (e *StrategyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("strategy building failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("strategy building failed: %s", e.Message)
}

func (e *StrategyError) Unwrap() error {
	return e.Cause
}

// OptimizationError represents a failure in the strategy-apply stage
type OptimizationError struct {
	Message string
	Cause   error
}

func (e *OptimizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("optimization failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("optimization failed: %s", e.Message)
}

func (e *OptimizationError) Unwrap() error {
	return e.Cause
}

// ValidationRefinementError represents a failure in the quality-validation stage
type ValidationRefinementError struct {
	Message string
	Cause   error
}

func (e *ValidationRefinementError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quality refinement failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("quality refinement failed: %s", e.Message)
}

func (e *ValidationRefinementError) Unwrap() error {
	return e.Cause
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-tailor/internal/types"
)

func TestGlobal(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		local float64
		want  float64
	}{
		{name: "analyze start", stage: StageAnalyze, local: 0, want: 0},
		{name: "analyze end", stage: StageAnalyze, local: 100, want: 20},
		{name: "strategize midpoint", stage: StageStrategize, local: 50, want: 30},
		{name: "apply start", stage: StageApply, local: 0, want: 40},
		{name: "apply end", stage: StageApply, local: 100, want: 70},
		{name: "validate end", stage: StageValidate, local: 100, want: 90},
		{name: "finalize end", stage: StageFinalize, local: 100, want: 100},
		{name: "local clamped below", stage: StageApply, local: -10, want: 40},
		{name: "local clamped above", stage: StageApply, local: 150, want: 70},
		{name: "unknown stage passes through", stage: Stage("bogus"), local: 42, want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Global(tt.stage, tt.local), 0.001)
		})
	}
}

func TestScoped(t *testing.T) {
	var got []float64
	fn := scoped(func(event types.ProgressEvent) {
		got = append(got, event.Percentage)
	}, StageStrategize)

	fn(types.ProgressEvent{Percentage: 0})
	fn(types.ProgressEvent{Percentage: 50})
	fn(types.ProgressEvent{Percentage: 100})

	assert.Equal(t, []float64{20, 30, 40}, got)
}

func TestScoped_NilCallback(t *testing.T) {
	assert.Nil(t, scoped(nil, StageAnalyze))
}

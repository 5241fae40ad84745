package builds

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestEvaluate(t *testing.T) {
	log := zaptest.NewLogger(t)
	result, err := Evaluate([]string{"A", "B <1>", "C <2>", "D <1, 2>"}, log)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !slices.Equal(result.Timeline, []int{0, 1, 2}) {
		t.Fatalf("timeline = %v, want [0 1 2]", result.Timeline)
	}
	if result.StepCount() != 3 {
		t.Errorf("step count = %d, want 3", result.StepCount())
	}
	wantNumbers := [][]int{nil, {1}, {2}, {1, 2}}
	wantIndices := [][]int{nil, {1}, {2}, {1, 2}}
	for i, layer := range result.Layers {
		if !slices.Equal(layer.Numbers, wantNumbers[i]) {
			t.Errorf("layer %d numbers = %v, want %v", i, layer.Numbers, wantNumbers[i])
		}
		if !slices.Equal(layer.Indices, wantIndices[i]) {
			t.Errorf("layer %d indices = %v, want %v", i, layer.Indices, wantIndices[i])
		}
	}
	if result.Layers[0].Annotated() {
		t.Errorf("layer without specification reported as annotated")
	}
	if !result.Layers[1].Annotated() {
		t.Errorf("annotated layer not reported as annotated")
	}
}

func TestEvaluateNoAnnotations(t *testing.T) {
	result, err := Evaluate([]string{"Background", "Title"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !slices.Equal(result.Timeline, []int{0}) {
		t.Errorf("timeline = %v, want [0]", result.Timeline)
	}
	for i, layer := range result.Layers {
		if layer.Annotated() {
			t.Errorf("layer %d unexpectedly annotated", i)
		}
	}
}

func TestEvaluateEmpty(t *testing.T) {
	result, err := Evaluate(nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !slices.Equal(result.Timeline, []int{0}) {
		t.Errorf("timeline = %v, want [0]", result.Timeline)
	}
}

func TestEvaluateNeverVisibleLayer(t *testing.T) {
	result, err := Evaluate([]string{"hidden <>"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	layer := result.Layers[0]
	if !layer.Annotated() {
		t.Fatalf("expected layer to be annotated")
	}
	if len(layer.Numbers) != 0 {
		t.Errorf("numbers = %v, want none", layer.Numbers)
	}
	if !slices.Equal(result.Timeline, []int{0}) {
		t.Errorf("timeline = %v, want [0]", result.Timeline)
	}
}

func TestEvaluateTagTable(t *testing.T) {
	labels := []string{"Intro <0>", "Body <1-2> @body", "Aside @body @aside"}
	result, err := Evaluate(labels, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !slices.Equal(result.Tags["body"], []int{1, 2}) {
		t.Errorf("body tag = %v, want [1 2]", result.Tags["body"])
	}
	// A tag carried only by unannotated layers is known but binds no steps.
	if steps, ok := result.Tags["aside"]; !ok || len(steps) != 0 {
		t.Errorf("aside tag = %v, %v, want empty and present", steps, ok)
	}
}

func TestEvaluateRelativeIgnoresTagResolution(t *testing.T) {
	// "First" resolves to -1 through the tag anchor, but the '.' in
	// "Second" still sees the untouched accumulator and lands on 0.
	labels := []string{"First <@foo.before>", "Second <.> @foo @bar"}
	result, err := Evaluate(labels, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !slices.Equal(result.Layers[0].Numbers, []int{-1}) {
		t.Errorf("first layer numbers = %v, want [-1]", result.Layers[0].Numbers)
	}
	if !slices.Equal(result.Layers[1].Numbers, []int{0}) {
		t.Errorf("second layer numbers = %v, want [0]", result.Layers[1].Numbers)
	}
	if !slices.Equal(result.Timeline, []int{-1, 0}) {
		t.Errorf("timeline = %v, want [-1 0]", result.Timeline)
	}
	if !slices.Equal(result.Tags["foo"], []int{1}) {
		t.Errorf("foo tag = %v, want [1]", result.Tags["foo"])
	}
}

func TestEvaluateUnknownTag(t *testing.T) {
	_, err := Evaluate([]string{"ok <1>", "broken <@missing>"}, zaptest.NewLogger(t))
	var unknown *UnknownTagError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTagError, got %v", err)
	}
	if unknown.Name != "broken <@missing>" {
		t.Errorf("error layer name = %q", unknown.Name)
	}
}

func TestEvaluateCycleNames(t *testing.T) {
	_, err := Evaluate([]string{"loop <@self> @self"}, zaptest.NewLogger(t))
	var cycle *TagCycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected TagCycleError, got %v", err)
	}
	if !slices.Equal(cycle.Layers, []int{0, 0}) {
		t.Errorf("cycle layers = %v, want [0 0]", cycle.Layers)
	}
	if !slices.Equal(cycle.Names, []string{"loop <@self> @self", "loop <@self> @self"}) {
		t.Errorf("cycle names = %v", cycle.Names)
	}
}

func TestEvaluateLenientSyntax(t *testing.T) {
	result, err := Evaluate([]string{"bad <1.2>", "good <1>"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Layers[0].Annotated() {
		t.Errorf("layer with broken syntax should degrade to no specification")
	}
	if !slices.Equal(result.Layers[1].Numbers, []int{1}) {
		t.Errorf("good layer numbers = %v, want [1]", result.Layers[1].Numbers)
	}
}

func TestStepIndex(t *testing.T) {
	result, err := Evaluate([]string{"a <2>", "b <5>"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// With every layer annotated the timeline is the bare union of the
	// numbers the layers use.
	if !slices.Equal(result.Timeline, []int{2, 5}) {
		t.Fatalf("timeline = %v, want [2 5]", result.Timeline)
	}
	if got, ok := result.StepIndex(5); !ok || got != 1 {
		t.Errorf("StepIndex(5) = %d, %v, want 1, true", got, ok)
	}
	if _, ok := result.StepIndex(99); ok {
		t.Errorf("StepIndex(99) unexpectedly resolved")
	}
}

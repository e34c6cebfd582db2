package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateThreshold(t *testing.T) {
	categories := []string{"Explicit Nudity", "Violence", "Graphic Gore", "Suggestive", "Drugs"}

	for _, name := range categories {
		for _, confidence := range []float64{0, 50, 79.99, 80} {
			labels := []Label{
				{Name: name, Confidence: confidence},
				{Name: "Weapon Violence", ParentName: name, Confidence: confidence},
			}
			assert.Empty(t, Evaluate(labels, DefaultMinConfidence), "%s at %.2f must not reject", name, confidence)
		}
	}
}

func TestEvaluateRejectsByNameOrParent(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		want   []string
	}{
		{
			name:   "own name",
			labels: []Label{{Name: "Violence", Confidence: 80.01}},
			want:   []string{"Violence"},
		},
		{
			name:   "parent name",
			labels: []Label{{Name: "Graphic Male Nudity", ParentName: "Explicit Nudity", Confidence: 97}},
			want:   []string{"Graphic Male Nudity"},
		},
		{
			name: "mixed with allowed categories",
			labels: []Label{
				{Name: "Suggestive", Confidence: 99},
				{Name: "Emaciated Bodies", ParentName: "Graphic Gore", Confidence: 91},
				{Name: "Graphic Gore", Confidence: 88},
			},
			want: []string{"Emaciated Bodies", "Graphic Gore"},
		},
		{
			name: "duplicates collapse",
			labels: []Label{
				{Name: "Violence", Confidence: 90},
				{Name: "Violence", Confidence: 95},
			},
			want: []string{"Violence"},
		},
		{
			name:   "allowed category",
			labels: []Label{{Name: "Drugs", ParentName: "Drugs & Tobacco", Confidence: 99}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.labels, DefaultMinConfidence))
		})
	}
}

package moderation

// DefaultMinConfidence is the classifier confidence, in percent, a label must exceed
// before it can reject an image.
const DefaultMinConfidence = 80.0

// Label is one moderation label returned by the image classifier.
type Label struct {
	Name       string
	ParentName string
	Confidence float64
}

var rejectedCategories = map[string]struct{}{
	"Explicit Nudity": {},
	"Violence":        {},
	"Graphic Gore":    {},
}

// Evaluate returns the rejection reasons found in labels: the name of every label
// whose confidence exceeds threshold and whose own or parent category is rejected.
// Reasons are unique and keep first-seen order. An empty result means approval.
func Evaluate(labels []Label, threshold float64) []string {
	var reasons []string
	seen := make(map[string]struct{})

	for _, label := range labels {
		if label.Confidence <= threshold {
			continue
		}
		if !isRejected(label.Name) && !isRejected(label.ParentName) {
			continue
		}
		if _, dup := seen[label.Name]; dup {
			continue
		}
		seen[label.Name] = struct{}{}
		reasons = append(reasons, label.Name)
	}

	return reasons
}

func isRejected(category string) bool {
	if category == "" {
		return false
	}
	_, ok := rejectedCategories[category]
	return ok
}

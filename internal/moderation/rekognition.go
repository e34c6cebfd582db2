package moderation

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// Classifier labels an image with moderation categories.
type Classifier interface {
	DetectModerationLabels(ctx context.Context, image []byte, minConfidence float64) ([]Label, error)
}

// RekognitionAPI is the subset of the Rekognition client used here.
type RekognitionAPI interface {
	DetectModerationLabels(ctx context.Context, params *rekognition.DetectModerationLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error)
}

// RekognitionClassifier classifies images with AWS Rekognition.
type RekognitionClassifier struct {
	api RekognitionAPI
}

// NewRekognitionClassifier loads AWS credentials from the default chain for region.
func NewRekognitionClassifier(ctx context.Context, region string) (*RekognitionClassifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &RekognitionClassifier{api: rekognition.NewFromConfig(awsCfg)}, nil
}

// NewRekognitionClassifierWithAPI wraps an existing Rekognition client.
func NewRekognitionClassifierWithAPI(api RekognitionAPI) *RekognitionClassifier {
	return &RekognitionClassifier{api: api}
}

// DetectModerationLabels sends the raw image bytes to Rekognition.
func (c *RekognitionClassifier) DetectModerationLabels(ctx context.Context, image []byte, minConfidence float64) ([]Label, error) {
	out, err := c.api.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image:         &rektypes.Image{Bytes: image},
		MinConfidence: aws.Float32(float32(minConfidence)),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect moderation labels: %w", err)
	}

	labels := make([]Label, 0, len(out.ModerationLabels))
	for _, l := range out.ModerationLabels {
		labels = append(labels, Label{
			Name:       aws.ToString(l.Name),
			ParentName: aws.ToString(l.ParentName),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}
	return labels, nil
}

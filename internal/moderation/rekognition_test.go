package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rekognitionStub struct {
	input *rekognition.DetectModerationLabelsInput
	out   *rekognition.DetectModerationLabelsOutput
	err   error
}

func (s *rekognitionStub) DetectModerationLabels(ctx context.Context, params *rekognition.DetectModerationLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error) {
	s.input = params
	return s.out, s.err
}

func TestRekognitionClassifier(t *testing.T) {
	stub := &rekognitionStub{out: &rekognition.DetectModerationLabelsOutput{
		ModerationLabels: []rektypes.ModerationLabel{
			{Name: aws.String("Graphic Violence"), ParentName: aws.String("Violence"), Confidence: aws.Float32(92.5)},
			{Name: aws.String("Violence"), Confidence: aws.Float32(92.5)},
		},
	}}

	labels, err := NewRekognitionClassifierWithAPI(stub).DetectModerationLabels(context.Background(), []byte("img"), 80)
	require.NoError(t, err)

	assert.Equal(t, []byte("img"), stub.input.Image.Bytes)
	assert.Equal(t, float32(80), aws.ToFloat32(stub.input.MinConfidence))
	require.Len(t, labels, 2)
	assert.Equal(t, Label{Name: "Graphic Violence", ParentName: "Violence", Confidence: 92.5}, labels[0])
	assert.Equal(t, "", labels[1].ParentName)
}

func TestRekognitionClassifierError(t *testing.T) {
	stub := &rekognitionStub{err: errors.New("throttled")}

	_, err := NewRekognitionClassifierWithAPI(stub).DetectModerationLabels(context.Background(), nil, 80)
	assert.ErrorContains(t, err, "throttled")
}

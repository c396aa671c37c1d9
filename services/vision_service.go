package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// Labels below or at this confidence (percent) are discarded.
const labelConfidenceThreshold = 70.0

const maxImageBytes = 15 << 20

// RekognitionAPI is the slice of the Rekognition client used by the vision
// service.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// VisionService identifies the food in an uploaded image.
type VisionService struct {
	client RekognitionAPI
	http   *http.Client
}

func NewVisionService() (*VisionService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &VisionService{
		client: rekognition.NewFromConfig(cfg),
		http:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// DetectLabel fetches the image at imageURL, runs label detection, and picks
// the highest-confidence label above the threshold. It reports false when no
// usable label exists; remote errors are logged and treated the same way, they
// never surface to the caller.
func (s *VisionService) DetectLabel(ctx context.Context, imageURL string) (string, bool) {
	data, err := s.fetchImage(ctx, imageURL)
	if err != nil {
		log.Printf("Error fetching image for label detection: %v", err)
		return "", false
	}

	out, err := s.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &rektypes.Image{Bytes: data},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(labelConfidenceThreshold),
	})
	if err != nil {
		log.Printf("Error from Rekognition: %v", err)
		return "", false
	}

	type candidate struct {
		name       string
		confidence float32
	}
	var candidates []candidate
	for _, l := range out.Labels {
		if l.Name == nil || l.Confidence == nil {
			continue
		}
		if *l.Confidence > labelConfidenceThreshold {
			candidates = append(candidates, candidate{name: *l.Name, confidence: *l.Confidence})
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	return candidates[0].name, true
}

func (s *VisionService) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

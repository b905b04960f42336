package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"maintenance-prediction-api/config"
	"maintenance-prediction-api/models"

	"gonum.org/v1/gonum/mat"
)

const (
	ModeModel          = "model"
	ModeRandomFallback = "random-fallback"
)

// Classifier labels one observation with a binary failure prediction.
type Classifier interface {
	Classify(rec models.MachineRecord) (int, error)
	// Mode reports which implementation is active so operators and tests
	// can tell real predictions from the degraded random fallback.
	Mode() string
}

// NewClassifier loads the trained model artifact, or falls back to a random
// classifier when none is available. The fallback is loudly logged: its
// predictions carry no meaning.
func NewClassifier(cfg config.ClassifierConfig) Classifier {
	clf, err := LoadLogisticClassifier(cfg.ModelPath)
	if err != nil {
		log.Printf("WARNING: model artifact %s unusable (%v), using RANDOM fallback classifier — predictions are not meaningful", cfg.ModelPath, err)
		randomClassifierActive.Set(1)
		return &RandomClassifier{}
	}
	log.Printf("classifier loaded: %s (version=%s)", cfg.ModelPath, clf.Version)
	randomClassifierActive.Set(0)
	return clf
}

// modelArtifact is the JSON shape of a trained logistic regression:
// per-feature weights keyed by storage field name, a bias term, and the
// decision threshold on the sigmoid output.
type modelArtifact struct {
	Version   string             `json:"version"`
	Weights   map[string]float64 `json:"weights"`
	Bias      float64            `json:"bias"`
	Threshold float64            `json:"threshold"`
}

// featureOrder fixes the layout of the feature vector.
var featureOrder = []string{
	"machine_type",
	"air_temperature_k",
	"process_temperature_k",
	"rotational_speed_rpm",
	"torque_nm",
	"tool_wear_min",
}

// LogisticClassifier is a deterministic binary classifier over the six
// telemetry features.
type LogisticClassifier struct {
	Version   string
	weights   *mat.VecDense
	bias      float64
	threshold float64
}

func LoadLogisticClassifier(path string) (*LogisticClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	return NewLogisticClassifier(artifact.Version, artifact.Weights, artifact.Bias, artifact.Threshold)
}

func NewLogisticClassifier(version string, weights map[string]float64, bias, threshold float64) (*LogisticClassifier, error) {
	w := make([]float64, len(featureOrder))
	for i, name := range featureOrder {
		v, ok := weights[name]
		if !ok {
			return nil, fmt.Errorf("model artifact missing weight for %q", name)
		}
		w[i] = v
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("model threshold %v outside (0, 1)", threshold)
	}
	return &LogisticClassifier{
		Version:   version,
		weights:   mat.NewVecDense(len(w), w),
		bias:      bias,
		threshold: threshold,
	}, nil
}

func (c *LogisticClassifier) Classify(rec models.MachineRecord) (int, error) {
	features := mat.NewVecDense(len(featureOrder), []float64{
		float64(rec.MachineType),
		rec.AirTemperatureK,
		rec.ProcessTemperatureK,
		rec.RotationalSpeedRPM,
		rec.TorqueNm,
		rec.ToolWearMin,
	})

	z := mat.Dot(c.weights, features) + c.bias
	p := 1.0 / (1.0 + math.Exp(-z))
	if math.IsNaN(p) {
		return 0, fmt.Errorf("non-finite score for input %+v", rec)
	}
	if p >= c.threshold {
		return 1, nil
	}
	return 0, nil
}

func (c *LogisticClassifier) Mode() string { return ModeModel }

// RandomClassifier labels uniformly at random. It exists so the service
// starts without a trained artifact instead of failing; its output is noise.
type RandomClassifier struct{}

func (c *RandomClassifier) Classify(models.MachineRecord) (int, error) {
	return rand.IntN(2), nil
}

func (c *RandomClassifier) Mode() string { return ModeRandomFallback }

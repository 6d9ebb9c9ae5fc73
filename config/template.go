package config

import (
	"io"

	"gopkg.in/yaml.v3"
)

type template struct {
	AffectiveModel struct {
		Dimensions []string `yaml:"dimensions"`
	} `yaml:"affective_model"`
	DomainRouting struct {
		ClassifierThreshold Thresholds `yaml:"classifier_threshold"`
	} `yaml:"domain_routing"`
	Services struct {
		Text           map[string]string `yaml:"text"`
		Audio          map[string]string `yaml:"audio"`
		TimeoutSeconds int               `yaml:"timeout_seconds"`
	} `yaml:"services"`
	Server map[string]string `yaml:"server"`
	Log    map[string]string `yaml:"log"`
}

// StarterThresholds are the coefficients shipped in the starter settings.
var StarterThresholds = Thresholds{Joy: 0.7, Anger: 0.8, Surprise: 0.6, Trust: 0.5}

// WriteTemplate writes a starter settings document that Load accepts.
func WriteTemplate(w io.Writer) error {
	var t template
	t.AffectiveModel.Dimensions = Canonical[:]
	t.DomainRouting.ClassifierThreshold = StarterThresholds
	t.Services.Text = map[string]string{"url": ""}
	t.Services.Audio = map[string]string{"url": ""}
	t.Services.TimeoutSeconds = 60
	t.Server = map[string]string{"addr": ":8000", "profile": "service"}
	t.Log = map[string]string{"level": "info", "format": "text"}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&t); err != nil {
		return err
	}
	return enc.Close()
}

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// document is the union of the artifact layouts the loader understands:
// an XGBoost JSON model (Booster.save_model) or a logistic export.
type document struct {
	Learner *xgbLearner `json:"learner"`
	Version []int       `json:"version"`

	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

type xgbLearner struct {
	FeatureNames      []string `json:"feature_names"`
	LearnerModelParam struct {
		BaseScore  string `json:"base_score"`
		NumFeature string `json:"num_feature"`
	} `json:"learner_model_param"`
	Objective struct {
		Name string `json:"name"`
	} `json:"objective"`
	GradientBooster struct {
		Name  string `json:"name"`
		Model struct {
			Trees []xgbTree `json:"trees"`
		} `json:"model"`
	} `json:"gradient_booster"`
}

type xgbTree struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     flags     `json:"default_left"`
}

// flags accepts default_left either as booleans or as 0/1 integers; XGBoost
// has written both over its releases.
type flags []bool

func (f *flags) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(flags, len(raw))
	for i, r := range raw {
		s := string(bytes.TrimSpace(r))
		switch s {
		case "true", "1":
			out[i] = true
		case "false", "0":
			out[i] = false
		default:
			return fmt.Errorf("default_left[%d]: unexpected value %s", i, s)
		}
	}
	*f = out
	return nil
}

func (f *flags) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 0 {
		*f = nil
		return nil
	}
	out := make(flags, n)
	for i := range out {
		r, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return fmt.Errorf("default_left[%d]: %w", i, err)
		}
		switch v := r.(type) {
		case bool:
			out[i] = v
		case int64:
			out[i] = v != 0
		case uint64:
			out[i] = v != 0
		case float64:
			out[i] = v != 0
		default:
			return fmt.Errorf("default_left[%d]: unexpected %T", i, r)
		}
	}
	*f = out
	return nil
}

// decodeDocument picks the decoder from the file extension.
func decodeDocument(path string, data []byte) (*document, error) {
	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json artifact: %w", err)
		}
	case ".msgpack", ".mpk":
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode msgpack artifact: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported artifact extension %q (want .json or .msgpack)", filepath.Ext(path))
	}
	return &doc, nil
}

// build turns a decoded document into a classifier plus the feature names
// the artifact recorded (nil when it recorded none).
func (d *document) build() (classifier, []string, Info, error) {
	switch {
	case d.Learner != nil:
		ens, err := buildEnsemble(d.Learner)
		if err != nil {
			return nil, nil, Info{}, err
		}
		info := Info{Kind: KindXGBoost, Trees: len(ens.trees), Version: versionString(d.Version)}
		return ens, d.Learner.FeatureNames, info, nil
	case d.Kind == KindLogistic:
		lr, err := buildLogistic(d.Coefficients, d.Intercept)
		if err != nil {
			return nil, nil, Info{}, err
		}
		return lr, d.FeatureNames, Info{Kind: KindLogistic}, nil
	case d.Kind != "":
		return nil, nil, Info{}, fmt.Errorf("unknown model kind %q", d.Kind)
	default:
		return nil, nil, Info{}, errors.New("artifact is neither an XGBoost model nor a logistic export")
	}
}

func versionString(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// parseScalar reads XGBoost's string-encoded parameters, which newer
// releases wrap in brackets ("[5E-1]").
func parseScalar(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strconv.ParseFloat(s, 64)
}

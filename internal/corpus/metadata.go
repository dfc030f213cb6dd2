package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ModelInfo is the content of model_info.json. Field order is the key order
// of the written file.
type ModelInfo struct {
	Name      string  `json:"name"`
	NSpeakers int     `json:"n_speakers"`
	Tacotron  string  `json:"tacotron"`
	TrainList string  `json:"train_list"`
	Actors    []Actor `json:"actors"`
}

// Actor describes one accepted dataset.
type Actor struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Waveglow string `json:"waveglow"`
	// Length is the dataset duration in minutes.
	Length float64 `json:"length"`
}

// MetadataDefaults carries the placeholder values of the top-level record.
type MetadataDefaults struct {
	ModelName        string
	AcousticModelTag string
	TrainList        string
}

// BuildModelInfo records accepted datasets in ascending sequence id order.
func BuildModelInfo(accepted []*Accepted, defaults MetadataDefaults) ModelInfo {
	actors := make([]Actor, 0, len(accepted))
	for _, acc := range accepted {
		actors = append(actors, Actor{
			ID:       acc.SequenceID,
			Name:     acc.Name,
			Waveglow: acc.VocoderTag,
			Length:   acc.TotalMinutes,
		})
	}
	return ModelInfo{
		Name:      defaults.ModelName,
		NSpeakers: len(actors),
		Tacotron:  defaults.AcousticModelTag,
		TrainList: defaults.TrainList,
		Actors:    actors,
	}
}

// WriteModelInfo writes info to path with four-space indentation.
func WriteModelInfo(path string, info ModelInfo) error {
	data, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return fmt.Errorf("encode model info: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrIOFatal, filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIOFatal, path, err)
	}
	return nil
}

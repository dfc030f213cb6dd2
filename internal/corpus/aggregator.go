package corpus

import (
	"fmt"

	"corpusmix/internal/dataset"
)

const secondsPerMinute = 60.0

// DecisionKind classifies an aggregation decision.
type DecisionKind int

const (
	// KindAccepted marks a dataset that received a sequence id.
	KindAccepted DecisionKind = iota
	// RejectEmpty marks a dataset whose manifests held no usable lines.
	RejectEmpty
	// RejectBelowThreshold marks a dataset whose clips sum to less than the
	// minimum total duration.
	RejectBelowThreshold
)

func (k DecisionKind) String() string {
	switch k {
	case KindAccepted:
		return "accepted"
	case RejectEmpty:
		return "empty"
	case RejectBelowThreshold:
		return "below_threshold"
	default:
		return fmt.Sprintf("DecisionKind(%d)", int(k))
	}
}

// Accepted is a dataset admitted into the corpus.
type Accepted struct {
	*dataset.Dataset
	SequenceID   int
	TotalSeconds float64
	// TotalMinutes is TotalSeconds/60. It is published as "length".
	TotalMinutes float64
	VocoderTag   string
}

// Decision is the outcome of Aggregator.Decide.
type Decision struct {
	Kind         DecisionKind
	TotalSeconds float64
	// Accepted is set only when Kind is KindAccepted.
	Accepted *Accepted
	// Reason is a human readable diagnostic for rejections.
	Reason string
}

// Aggregator applies the duration threshold and hands out sequence ids.
// The zero value accepts every non-empty dataset.
type Aggregator struct {
	MinTotalSeconds float64
	VocoderTag      string

	next int
}

// Decide classifies ds. Accepted datasets get consecutive ids starting at 0
// in the order Decide accepts them.
func (a *Aggregator) Decide(ds *dataset.Dataset) Decision {
	if ds == nil || ds.EntryCount() == 0 {
		name := ""
		if ds != nil {
			name = ds.Name
		}
		return Decision{
			Kind:   RejectEmpty,
			Reason: fmt.Sprintf("double check dataset %q: train and val lists are blank", name),
		}
	}

	total := TotalSeconds(ds)
	if total < a.MinTotalSeconds {
		return Decision{
			Kind:         RejectBelowThreshold,
			TotalSeconds: total,
			Reason:       fmt.Sprintf("dataset %q is too short (%.2fs < %.2fs)", ds.Name, total, a.MinTotalSeconds),
		}
	}

	acc := &Accepted{
		Dataset:      ds,
		SequenceID:   a.next,
		TotalSeconds: total,
		TotalMinutes: total / secondsPerMinute,
		VocoderTag:   a.VocoderTag,
	}
	a.next++
	return Decision{Kind: KindAccepted, TotalSeconds: total, Accepted: acc}
}

// AcceptedCount reports how many datasets Decide has accepted.
func (a *Aggregator) AcceptedCount() int {
	return a.next
}

// TotalSeconds sums clip durations over train and validation entries.
func TotalSeconds(ds *dataset.Dataset) float64 {
	var total float64
	ds.Entries(func(e dataset.LineEntry) {
		total += e.DurationSeconds
	})
	return total
}

package corpus

import (
	"testing"

	"corpusmix/internal/dataset"
)

func datasetWithDurations(name string, train, val []float64) *dataset.Dataset {
	ds := &dataset.Dataset{Name: name}
	for _, s := range train {
		ds.Train = append(ds.Train, dataset.LineEntry{DurationSeconds: s})
	}
	for _, s := range val {
		ds.Val = append(ds.Val, dataset.LineEntry{DurationSeconds: s})
	}
	return ds
}

func TestDecideThresholdIsInclusive(t *testing.T) {
	tests := []struct {
		name  string
		train []float64
		val   []float64
		want  DecisionKind
	}{
		{name: "exactly at threshold", train: []float64{200, 50}, val: []float64{50}, want: KindAccepted},
		{name: "just below threshold", train: []float64{299.999}, want: RejectBelowThreshold},
		{name: "validation counts toward total", train: []float64{295}, val: []float64{5}, want: KindAccepted},
		{name: "no entries", want: RejectEmpty},
		{name: "entries with zero duration", train: []float64{0, 0}, want: RejectBelowThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &Aggregator{MinTotalSeconds: 300, VocoderTag: "Vatras"}
			got := agg.Decide(datasetWithDurations("ds", tt.train, tt.val))
			if got.Kind != tt.want {
				t.Fatalf("kind = %v, want %v", got.Kind, tt.want)
			}
			if (got.Accepted != nil) != (tt.want == KindAccepted) {
				t.Fatalf("accepted dataset presence mismatch: %+v", got)
			}
			if tt.want != KindAccepted && got.Reason == "" {
				t.Fatal("expected a rejection reason")
			}
		})
	}
}

func TestDecideAssignsContiguousIDs(t *testing.T) {
	agg := &Aggregator{MinTotalSeconds: 300, VocoderTag: "Vatras"}
	inputs := []*dataset.Dataset{
		datasetWithDurations("a", []float64{300}, nil),
		datasetWithDurations("short", []float64{10}, nil),
		datasetWithDurations("empty", nil, nil),
		datasetWithDurations("b", []float64{600}, []float64{6}),
	}
	var ids []int
	for _, ds := range inputs {
		if d := agg.Decide(ds); d.Kind == KindAccepted {
			ids = append(ids, d.Accepted.SequenceID)
		}
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Fatalf("ids = %v, want [0 1]", ids)
	}
	if agg.AcceptedCount() != 2 {
		t.Fatalf("AcceptedCount = %d", agg.AcceptedCount())
	}
}

func TestDecideReportsMinutes(t *testing.T) {
	agg := &Aggregator{MinTotalSeconds: 300, VocoderTag: "Vatras"}
	d := agg.Decide(datasetWithDurations("a", []float64{310}, []float64{5}))
	if d.Kind != KindAccepted {
		t.Fatalf("expected acceptance, got %v", d.Kind)
	}
	if d.Accepted.TotalSeconds != 315 || d.Accepted.TotalMinutes != 5.25 {
		t.Fatalf("totals = %v s / %v min", d.Accepted.TotalSeconds, d.Accepted.TotalMinutes)
	}
	if d.Accepted.VocoderTag != "Vatras" {
		t.Fatalf("vocoder tag = %q", d.Accepted.VocoderTag)
	}
}

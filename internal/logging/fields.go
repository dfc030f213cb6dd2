package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one corpusmix invocation.
	FieldRunID = "run_id"
	// FieldDataset is the source dataset directory basename.
	FieldDataset = "dataset"
	// FieldSequenceID is the sequence id assigned to an accepted dataset.
	FieldSequenceID = "sequence_id"
	// FieldClip is a clip path, either as referenced or resolved.
	FieldClip = "clip"
	// FieldLine is the 1-based manifest line number.
	FieldLine = "line"
	// FieldManifest is the manifest file a record came from.
	FieldManifest = "manifest"
	// FieldEventType classifies a record for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldReason carries one rejection reason.
	FieldReason = "reason"
)

// Package dataset validates and loads one source speech dataset.
//
// A dataset is a directory holding list_train.txt, list_val.txt and a wavs/
// clip directory. Validate reports every structural problem at once. Loader
// parses both manifests, resolves each clip against the dataset directory and
// probes its duration, applying two deliberately different line policies:
// any bad training line rejects the whole dataset, while a bad validation
// line only drops that line.
package dataset

package constants

// Version tags stamped on every persisted extraction. SchemaVersion changes when
// the declared shape of ExtractionOutput changes; BundleVersion tracks the
// extractor release that produced the payload.
const (
	SchemaVersion = "1.0"
	BundleVersion = "0.1.0"
)

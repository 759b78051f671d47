package config

const (
	// MaxNodeTitleLength is the maximum length for folder and document titles.
	// Limited to 255 to keep titles short and descriptive.
	MaxNodeTitleLength = 255

	// MaxProjectIDLength bounds the project scope identifier
	MaxProjectIDLength = 128

	// DefaultMaxTreeDepth is the deepest depth index a node may reach.
	// Depth 0 is the root level, so 3 allows four levels.
	DefaultMaxTreeDepth = 3

	// DefaultIndentationWidth is the pixel width of one nesting level
	DefaultIndentationWidth = 50.0

	// DefaultActivationDistance is how far the pointer must travel, in
	// pixels, before a press becomes a drag
	DefaultActivationDistance = 5.0
)

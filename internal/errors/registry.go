package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// Error codes.
const (
	CodeConfigNotFound  = "E100"
	CodeConfigInvalid   = "E101"
	CodeRenderFailed    = "E110"
	CodeRenderTimeout   = "E111"
	CodeSnapshotFailed  = "E120"
	CodeInvalidTree     = "E130"
	CodeServerFailed    = "E140"
	CodeInvalidArgument = "E141"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Config Errors (E100-E109)
	// ============================================

	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "No prerender.json was found at the given path.",
		Suggestion: "Create prerender.json or pass --config with the path to one.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be parsed or contains invalid values.",
	},

	// ============================================
	// Render Errors (E110-E119)
	// ============================================

	CodeRenderFailed: {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "A component returned an error, an attribute could not be serialized, or a resource load failed outside an error boundary.",
	},
	CodeRenderTimeout: {
		Category:   CategoryRender,
		Message:    "Render timed out",
		Detail:     "A component outside any suspense boundary was still waiting on data when the maximum wait elapsed.",
		Suggestion: "Wrap the component in a suspense boundary or raise the maximum wait.",
	},

	// ============================================
	// Snapshot Errors (E120-E129)
	// ============================================

	CodeSnapshotFailed: {
		Category: CategorySnapshot,
		Message:  "Snapshot store failure",
		Detail:   "The snapshot could not be read from or written to its store.",
	},

	// ============================================
	// Input Errors (E130-E139)
	// ============================================

	CodeInvalidTree: {
		Category:   CategoryInput,
		Message:    "Invalid tree document",
		Detail:     "The tree document is not valid JSON or does not describe a component tree.",
		Suggestion: `Nodes are strings, numbers, arrays or objects like {"type": "div", "props": {}, "children": []}.`,
	},

	// ============================================
	// CLI Errors (E140-E149)
	// ============================================

	CodeServerFailed: {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server could not start or stopped with an error.",
	},
	CodeInvalidArgument: {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}

package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reactivity (Q100-Q199)
	// ============================================

	"Q101": {
		Category: CategoryReactivity,
		Message:  "Write to readonly reactive value",
		Detail:   "The target is wrapped readonly. The write was dropped.",
	},
	"Q102": {
		Category: CategoryReactivity,
		Message:  "Computed value has no setter",
		Detail:   "The computed value was created from a getter only. Use NewWritableComputed to accept writes.",
	},
	"Q103": {
		Category: CategoryReactivity,
		Message:  "Target cannot be made reactive",
		Detail:   "Only map[string]any and *[]any values can be wrapped.",
	},
	"Q104": {
		Category: CategoryReactivity,
		Message:  "Array index out of range",
		Detail:   "Negative indices are not addressable.",
	},

	// ============================================
	// Scheduler (Q200-Q299)
	// ============================================

	"Q201": {
		Category: CategoryScheduler,
		Message:  "Job exceeded recursion limit",
		Detail:   "A job re-queued itself too many times within one flush. It probably mutates state it also reads.",
	},
	"Q202": {
		Category: CategoryScheduler,
		Message:  "Job failed during flush",
		Detail:   "A queued job panicked. Remaining jobs in the flush still ran.",
	},

	// ============================================
	// Renderer (Q300-Q399)
	// ============================================

	"Q301": {
		Category: CategoryRenderer,
		Message:  "Invalid node shape",
		Detail:   "A node pair did not match any known kind or children shape.",
	},
	"Q302": {
		Category: CategoryRenderer,
		Message:  "Unknown host handle",
		Detail:   "The host was asked to operate on a handle it did not create.",
	},
	"Q303": {
		Category: CategoryRenderer,
		Message:  "Component render returned nil",
		Detail:   "A component's setup must return a render function and the render function must return a node.",
	},
	"Q304": {
		Category: CategoryRenderer,
		Message:  "App already mounted",
		Detail:   "Unmount the app before mounting it again.",
	},
	"Q305": {
		Category: CategoryRenderer,
		Message:  "Duplicate key in children",
		Detail:   "Sibling nodes must have distinct keys. Only the last node with this key is matched.",
	},

	// ============================================
	// Template (Q400-Q499)
	// ============================================

	"Q401": {
		Category: CategoryTemplate,
		Message:  "Template syntax error",
		Detail:   "The template could not be parsed.",
	},

	// ============================================
	// Config (Q500-Q599)
	// ============================================

	"Q501": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "quill.json could not be read or failed validation.",
	},
	"Q502": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No quill.json was found at the given path.",
	},

	// ============================================
	// CLI (Q600-Q699)
	// ============================================

	"Q601": {
		Category: CategoryCLI,
		Message:  "Unknown output format",
		Detail:   "Supported formats are json and yaml.",
	},
}

// Lookup returns the registered template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

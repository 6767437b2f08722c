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
	// Config Errors (E100-E119)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "No lumen.json found",
		Detail:   "Lumen looks for lumen.json in the current directory and its parents.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid lumen.json",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The configured port must be between 0 and 65535.",
	},

	// ============================================
	// Startup Errors (E120-E139)
	// ============================================

	"E121": {
		Category: CategoryStartup,
		Message:  "Production asset directory missing",
		Detail:   "Production mode serves pre-built assets from the dist directory, which does not exist or is not a directory.",
	},
	"E122": {
		Category: CategoryStartup,
		Message:  "Server failed to start",
		Detail:   "The listening socket could not be bound.",
	},

	// ============================================
	// Template Errors (E140-E159)
	// ============================================

	"E141": {
		Category: CategoryTemplate,
		Message:  "Template not readable",
		Detail:   "The HTML shell could not be read from disk.",
	},
	"E142": {
		Category: CategoryTemplate,
		Message:  "Insertion marker missing",
		Detail:   "The HTML shell must contain exactly one <!--ssr-outlet--> marker.",
	},
	"E143": {
		Category: CategoryTemplate,
		Message:  "Insertion marker duplicated",
		Detail:   "The HTML shell contains more than one <!--ssr-outlet--> marker, so the injection point is ambiguous.",
	},

	// ============================================
	// Deploy Errors (E160-E179)
	// ============================================

	"E161": {
		Category: CategoryDeploy,
		Message:  "Deploy source directory missing",
		Detail:   "The directory to upload does not exist. Build the project before deploying.",
	},
	"E162": {
		Category: CategoryDeploy,
		Message:  "Upload failed",
		Detail:   "One or more objects could not be written to the bucket.",
	},
}

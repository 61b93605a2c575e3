package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // safe to show to the customer
	Fields    map[string]string // form/validation field errors (optional)
	Err       error             // internal error (logs, admin diagnostics)
}

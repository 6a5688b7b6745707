package frontend

// ValidationError falta un campo obligatorio; nunca llega a la red.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

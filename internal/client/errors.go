package client

import (
	"errors"
	"fmt"
)

// NetworkError la petición no llegó a completarse (DNS, conexión rechazada, timeout, cuerpo ilegible).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network Error (%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError respuesta no-2xx. Message es el campo "message" del cuerpo, vacío si no vino.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// MessageOf devuelve el texto a mostrar en la UI: el mensaje del servidor si existe,
// si no la descripción genérica del error.
func MessageOf(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

// IsStatus indica si err es un ServerError con el status dado.
func IsStatus(err error, status int) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == status
}

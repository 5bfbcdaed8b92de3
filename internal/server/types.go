package server

// ParseError is an invalid query parameter. It is reported with StatusCode.
type ParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return e.Message
}

package model

// Response is built fresh for each request and dropped after the write.
type Response struct {
	Status  string // e.g. "200 OK"
	Headers []Header
	Body    []byte
}

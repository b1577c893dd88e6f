package olml

import "io"

// Marshal returns the OLML text of v.
//
// The whole value is walked before any text is produced, so on error
// the result is empty and no partial output is observable.
func Marshal(v any) (string, error) {
	val, err := ValueOf(v)
	if err != nil {
		return "", err
	}
	return Encode(val), nil
}

// MarshalBytes is like Marshal but returns a byte slice.
func MarshalBytes(v any) ([]byte, error) {
	s, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// Encoder writes OLML text to an output stream.
type Encoder struct {
	w       io.Writer
	newline bool
}

// NewEncoder returns an encoder that writes to w.
// Each encoded value is followed by a newline.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, newline: true}
}

// SetNewline controls whether a newline follows each encoded value.
func (e *Encoder) SetNewline(on bool) {
	e.newline = on
}

// Encode writes the OLML text of v. Nothing is written if v fails to
// produce its shape.
func (e *Encoder) Encode(v any) error {
	s, err := Marshal(v)
	if err != nil {
		return err
	}
	if e.newline {
		s += "\n"
	}
	_, err = io.WriteString(e.w, s)
	return err
}

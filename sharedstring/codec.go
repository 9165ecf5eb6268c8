package sharedstring

import (
	"strings"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

// MarshalText copies the text out; the result outlives the handle.
func (s SharedString) MarshalText() ([]byte, error) {
	return append([]byte(nil), s.Bytes()...), nil
}

// UnmarshalText replaces s with a validated copy of text, releasing the
// value s held before.
func (s *SharedString) UnmarshalText(text []byte) error {
	v, err := NewFromBytes(text)
	if err != nil {
		return err
	}
	s.Release()
	*s = v
	return nil
}

func (s SharedString) ToProto() *wrapperspb.StringValue {
	return wrapperspb.String(strings.Clone(s.String()))
}

func FromProto(m *wrapperspb.StringValue) (SharedString, error) {
	return New(m.GetValue())
}

package errs

import (
	"fmt"
	"strings"
)

// CodeError is an error carrying a stable numeric code. Two CodeErrors
// match under errors.Is when their codes are equal, whatever the
// description says.
type CodeError interface {
	error
	Code() int32
	Print(extras ...string) CodeError
	Printf(format string, args ...any) CodeError
	Is(error) bool
}

func CreateCodeError(code int32, desc string) CodeError {
	return &codeError{
		Errno: code,
		Desc:  desc,
	}
}

// WrapError keeps CodeErrors as they are and files anything else under Unknown.
func WrapError(err error) CodeError {
	if err == nil {
		return nil
	}
	x, ok := err.(*codeError)
	if ok {
		return x
	}
	return &codeError{Errno: ErrCode_Unknown, Desc: err.Error(), cause: err}
}

type codeError struct {
	Errno int32
	Desc  string
	cause error
}

func (e *codeError) Code() int32 {
	return e.Errno
}

func (e *codeError) Error() string {
	return e.Desc
}

func (e *codeError) String() string {
	return fmt.Sprintf("errno: %d, desc: %s", e.Errno, e.Desc)
}

func (e *codeError) Unwrap() error {
	return e.cause
}

func (e *codeError) Print(extras ...string) CodeError {
	if len(extras) == 0 {
		return e
	}
	var b strings.Builder
	b.WriteString(e.Desc)
	for _, extra := range extras {
		b.WriteByte(',')
		b.WriteString(extra)
	}
	return &codeError{Errno: e.Errno, Desc: b.String(), cause: e.cause}
}

func (e *codeError) Printf(format string, args ...any) CodeError {
	if len(format) == 0 {
		return e
	}
	return &codeError{
		Errno: e.Errno,
		Desc:  e.Desc + "," + fmt.Sprintf(format, args...),
		cause: e.cause,
	}
}

func (e *codeError) Is(target error) bool {
	if x, ok := target.(*codeError); ok {
		return x.Errno == e.Errno
	}
	return false
}

package loop

import (
	"runtime"
	"strconv"
	"strings"
)

// goroutineID parses the current goroutine's id from its stack header
// ("goroutine 18 [running]:"). Ids start at 1, so 0 means unknown.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))
	if len(fields) == 0 {
		return 0
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

package prompt

import (
	"fmt"
	"strings"
)

type UnknownVersionError struct {
	Version   string
	Available []string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown prompt version %q (available: %s)", e.Version, strings.Join(e.Available, ", "))
}

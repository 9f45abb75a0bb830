package twotsp

import (
	"fmt"
	"strconv"
	"strings"
)

// ArrayStringFlags collects a repeatable string flag.
type ArrayStringFlags []string

func (i *ArrayStringFlags) String() string {
	return strings.Join(*i, ",")
}

func (i *ArrayStringFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// ArrayIntFlags collects a repeatable integer flag. A single value may also
// list several integers separated by commas.
type ArrayIntFlags []int

func (i *ArrayIntFlags) String() string {
	return fmt.Sprintf("%v", []int(*i))
}

func (i *ArrayIntFlags) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		val, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		*i = append(*i, val)
	}
	return nil
}

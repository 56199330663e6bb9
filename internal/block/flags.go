package block

import "os"

func iofOpenFlags(overwrite bool) int {
	flags := os.O_RDWR | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	}
	return flags
}

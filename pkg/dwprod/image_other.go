//go:build !unix

package dwprod

import (
	"fmt"
	"os"
)

// mapImage reads path fully into memory.
func mapImage(path string) (*image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &image{data: data}, nil
}

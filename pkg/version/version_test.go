package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info("dwprod")

	assert.True(t, strings.HasPrefix(info, "dwprod version "+Version+"\n"))
	assert.Contains(t, info, "Git commit: "+GitCommit)
	assert.Contains(t, info, "Go version: "+GoVersion)
	assert.True(t, strings.HasSuffix(info, "\n"))
}

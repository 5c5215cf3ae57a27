package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// MinimalScene is the smallest document the built-in scene schema accepts
// that still holds a body.
const MinimalScene = `<Environment>
  <KinBody name="block">
    <Body name="block" type="static">
      <Geom type="box"><extents>0.1 0.1 0.1</extents></Geom>
    </Body>
  </KinBody>
</Environment>
`

// AssertTornDownOnce checks that every module the probe created was closed
// exactly once.
func AssertTornDownOnce(t *testing.T, p *ProbePlugin) {
	t.Helper()
	require.Equal(t, p.Created.Load(), p.Closed.Load(),
		"every created module must be closed exactly once")
}

// AssertLogged checks that the run's logs contain substr.
func AssertLogged(t *testing.T, result *HarnessResult, substr string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.LogOutput, substr),
		"expected %q in log output:\n%s", substr, result.LogOutput,
	)
}

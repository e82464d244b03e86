package tkbundle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adamkeys/tkbundle"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		goos string
		want tkbundle.Platform
	}{
		{"darwin", tkbundle.PlatformDarwin},
		{"ios", tkbundle.PlatformDarwin},
		{"linux", tkbundle.PlatformUnix},
		{"freebsd", tkbundle.PlatformUnix},
		{"unix", tkbundle.PlatformUnix},
		{"windows", tkbundle.PlatformWindows},
		{"plan9", tkbundle.PlatformUnsupported},
		{"js", tkbundle.PlatformUnsupported},
		{"", tkbundle.PlatformUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, tkbundle.ParsePlatform(tt.goos))
		})
	}
}

func TestPlatform_StringRoundTrip(t *testing.T) {
	for _, p := range []tkbundle.Platform{tkbundle.PlatformDarwin, tkbundle.PlatformUnix, tkbundle.PlatformWindows} {
		assert.Equal(t, p, tkbundle.ParsePlatform(p.String()))
	}
	assert.Equal(t, "unsupported", tkbundle.PlatformUnsupported.String())
}

func TestSelectStrategy(t *testing.T) {
	assert.Equal(t, tkbundle.StrategyFramework, tkbundle.SelectStrategy(tkbundle.PlatformDarwin))
	assert.Equal(t, tkbundle.StrategyShell, tkbundle.SelectStrategy(tkbundle.PlatformUnix))
	assert.Equal(t, tkbundle.StrategyShell, tkbundle.SelectStrategy(tkbundle.PlatformWindows))
	assert.Equal(t, tkbundle.StrategyUnsupported, tkbundle.SelectStrategy(tkbundle.PlatformUnsupported))
	assert.Equal(t, tkbundle.StrategyUnsupported, tkbundle.SelectStrategy(tkbundle.Platform(42)))
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "framework", tkbundle.StrategyFramework.String())
	assert.Equal(t, "shell", tkbundle.StrategyShell.String())
	assert.Equal(t, "unsupported", tkbundle.StrategyUnsupported.String())
}

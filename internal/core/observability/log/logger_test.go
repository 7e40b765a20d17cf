package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.SetLevel(LevelWarn)
	require.Equal(t, LevelWarn, l.GetLevel())

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept", String("k", "v"))
	l.Error("kept", Error(errors.New("boom")))

	require.Equal(t, 2, logs.Len())
	require.Equal(t, "v", logs.All()[0].ContextMap()["k"])
	require.Equal(t, "boom", logs.All()[1].ContextMap()["error"])
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With(String("component", "runtime"), Int("bindings", 2))

	l.Info("bound", Duration("after", time.Millisecond), Float64("tension", 342), Bool("ok", true))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "runtime", fields["component"])
	require.EqualValues(t, 2, fields["bindings"])
	require.Equal(t, time.Millisecond, fields["after"])
	require.Equal(t, 342.0, fields["tension"])
	require.Equal(t, true, fields["ok"])
}

func TestLogger_Silent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))
	l.SetLevel(LevelSilent)

	l.Error("nothing")

	require.Equal(t, 0, logs.Len())
	require.Equal(t, LevelSilent, l.GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "", want: LevelInfo},
		{in: "WARNING", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "off", want: LevelSilent},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

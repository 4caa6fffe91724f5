package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingConfig_DerivedIntervals(t *testing.T) {
	tc := DefaultTimingConfig()

	assert.Equal(t, int64(28+72+128+1), tc.BasicSuccessDefer())
	assert.Equal(t, int64(128+1), tc.BasicCollisionDefer())
	assert.Equal(t, int64(28+240+28+8584+28+72+128+1), tc.RTSSuccessDefer())
	assert.Equal(t, int64(128+1), tc.RTSCollisionDefer())

	assert.Equal(t, tc.BasicSuccessDefer(), tc.Defer(true, false))
	assert.Equal(t, tc.BasicCollisionDefer(), tc.Defer(false, false))
	assert.Equal(t, tc.RTSSuccessDefer(), tc.Defer(true, true))
	assert.Equal(t, tc.RTSCollisionDefer(), tc.Defer(false, true))

	assert.Equal(t, int64(8584), tc.TxDuration(false))
	assert.Equal(t, int64(288), tc.TxDuration(true))
}

func TestTimingConfig_RoundTimes(t *testing.T) {
	tc := DefaultTimingConfig()

	// a successful RTS/CTS round carries the whole data exchange
	assert.Equal(t, 1+int64(288)+tc.RTSSuccessDefer(), tc.SuccessRoundTime(true))
	assert.Equal(t, 1+int64(8584)+tc.BasicSuccessDefer(), tc.SuccessRoundTime(false))
	// collisions are far cheaper with RTS/CTS
	assert.Less(t, tc.CollisionRoundTime(true), tc.CollisionRoundTime(false))
}

func TestTimingConfig_WithDefaults_FillsOnlyZeroFields(t *testing.T) {
	tc := TimingConfig{SlotTime: 20, PacketDuration: 1000}.WithDefaults()

	assert.Equal(t, int64(20), tc.SlotTime)
	assert.Equal(t, int64(1000), tc.PacketDuration)
	assert.Equal(t, DefaultTimingConfig().DIFS, tc.DIFS)
	assert.Equal(t, DefaultTimingConfig().PayloadBits, tc.PayloadBits)
	assert.Equal(t, DefaultTimingConfig(), TimingConfig{}.WithDefaults())
}

func TestTimingConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultTimingConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*TimingConfig)
	}{
		{"negative slot", func(tc *TimingConfig) { tc.SlotTime = -1 }},
		{"zero difs", func(tc *TimingConfig) { tc.DIFS = 0 }},
		{"zero payload", func(tc *TimingConfig) { tc.PayloadBits = 0 }},
		{"negative start", func(tc *TimingConfig) { tc.StartTime = -5 }},
		{"rts shorter than slot", func(tc *TimingConfig) { tc.RTSDuration = 50 }},
		{"packet shorter than slot", func(tc *TimingConfig) { tc.PacketDuration = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := DefaultTimingConfig()
			tt.mutate(&tc)
			err := tc.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

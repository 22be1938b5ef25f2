package events_test

import (
	"testing"

	"github.com/ardanlabs/spvchain/foundation/events"
	"github.com/stretchr/testify/require"
)

func Test_FanOut(t *testing.T) {
	evts := events.New()

	a := evts.Acquire("a")
	b := evts.Acquire("b")
	require.Equal(t, a, evts.Acquire("a"))
	require.Equal(t, 2, evts.Len())

	evts.Sendf("block %d", 7)
	require.Equal(t, "block 7", <-a)
	require.Equal(t, "block 7", <-b)

	require.NoError(t, evts.Release("a"))
	require.Error(t, evts.Release("a"))

	_, open := <-a
	require.False(t, open)

	evts.Shutdown()
	require.Equal(t, 0, evts.Len())

	_, open = <-b
	require.False(t, open)
}

func Test_SlowReceiver(t *testing.T) {
	evts := events.New()
	ch := evts.Acquire("slow")

	for range 1000 {
		evts.Send("tick")
	}

	require.Len(t, ch, cap(ch))
}

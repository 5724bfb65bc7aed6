package playbacks

import (
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/tutorconfigs"
)

type Module struct {
	dscope.Module
}

type NewPlayer func() *Player

func (Module) NewPlayer(
	interval tutorconfigs.PlaybackInterval,
) NewPlayer {
	return func() *Player {
		return NewPlayerWithClock(SystemClock{}, time.Duration(interval))
	}
}

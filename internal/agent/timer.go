package agent

import "github.com/joeycumines/survivor/internal/blackboard"

// flagTimer clears a boolean blackboard flag once it has been set for
// duration seconds.
type flagTimer struct {
	key      blackboard.Key[bool]
	duration float64
	elapsed  float64
}

func (t *flagTimer) advance(b *blackboard.Blackboard, dt float64) error {
	on, _ := blackboard.Get(b, t.key)
	if !on {
		t.elapsed = 0
		return nil
	}
	t.elapsed += dt
	if t.elapsed < t.duration {
		return nil
	}
	t.elapsed = 0
	return blackboard.Change(b, t.key, false)
}

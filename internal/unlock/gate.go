package unlock

import (
	"fmt"

	"github.com/example/storyvocab/pkg/models"
)

// DefaultUnlockThreshold requires a story to be read to the end before
// its words unlock.
const DefaultUnlockThreshold = 1.0

// Gate decides whether a word is visible to the learner based on how far
// the owning stories have been read. It is pure: all state comes from the
// membership snapshot passed in.
type Gate struct {
	// UnlockThreshold is the reading progress fraction at which a story
	// releases its words
	UnlockThreshold float64
}

// New creates a gate with the default unlock policy
func New() *Gate {
	return &Gate{UnlockThreshold: DefaultUnlockThreshold}
}

// IsUnlocked reports whether the word may be shown and quizzed. A word is
// unlocked when it was explicitly marked learned in any owning story, when
// any owning story has been read past the threshold, or when it belongs to
// no story at all (reference vocabulary).
func (g *Gate) IsUnlocked(word models.Word, memberships []models.StoryMembership) bool {
	if len(memberships) == 0 {
		return true
	}
	for _, m := range memberships {
		if m.Learned {
			return true
		}
		if m.ReadingProgress >= g.UnlockThreshold {
			return true
		}
	}
	return false
}

// LockReason returns a human-readable explanation for a locked word,
// referencing the least-progressed owning story. The second return value
// is false when the word is unlocked.
func (g *Gate) LockReason(word models.Word, memberships []models.StoryMembership) (string, bool) {
	if g.IsUnlocked(word, memberships) {
		return "", false
	}

	// Locked words always have at least one owning story
	least := memberships[0]
	for _, m := range memberships[1:] {
		if m.ReadingProgress < least.ReadingProgress {
			least = m
		}
	}
	return fmt.Sprintf("Finish reading %q to unlock", least.StoryTitle), true
}

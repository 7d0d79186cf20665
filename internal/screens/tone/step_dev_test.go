//go:build !release

package tone

import (
	"testing"

	"github.com/abhisek/emoiq/internal/screens/screenstest"
)

func TestDayStepping(t *testing.T) {
	s, f := loaded(t)
	s.Update(screenstest.Key("]"))
	if got := f.Services.Tone.Snapshot().DateKey; got == screenstest.Today {
		t.Errorf("date did not change")
	}
	s.Update(screenstest.Key("["))
	if got := f.Services.Tone.Snapshot().DateKey; got != screenstest.Today {
		t.Errorf("date = %s, want %s", got, screenstest.Today)
	}
}

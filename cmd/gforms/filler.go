package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/runtime"
	"github.com/aretw0/gforms/pkg/domain"
)

var emailDomains = []string{"example.com", "example.org", "example.net"}

// filler synthesizes values for the elements the library leaves to the
// caller: emails, dates and times. Everything else goes to the library
// synthesizer.
type filler struct {
	rnd      *rand.Rand
	now      func() time.Time
	fallback gforms.DefaultFunc
}

// newFiller creates a filler. A nil rnd uses a randomly seeded source.
func newFiller(rnd *rand.Rand) *filler {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &filler{
		rnd:      rnd,
		now:      time.Now,
		fallback: runtime.NewDefaults(rnd).Value,
	}
}

func (f *filler) Value(elem domain.InputElement) (any, error) {
	switch e := elem.(type) {
	case *domain.UserEmail:
		return f.email(), nil
	case *domain.Date:
		day := f.now().AddDate(0, 0, f.rnd.IntN(21)-10)
		if e.Kind() == domain.KindDate {
			return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		minutes := f.rnd.IntN(24 * 60)
		return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, time.UTC), nil
	case *domain.Time:
		if e.Kind() == domain.KindDuration {
			return time.Duration(f.rnd.IntN(24*3600+1)) * time.Second, nil
		}
		minutes := f.rnd.IntN(24 * 60)
		return domain.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}, nil
	}
	return f.fallback(elem)
}

func (f *filler) email() string {
	var user strings.Builder
	for range 6 + f.rnd.IntN(3) {
		user.WriteByte(byte('a' + f.rnd.IntN(26)))
	}
	return fmt.Sprintf("%s@%s", user.String(), emailDomains[f.rnd.IntN(len(emailDomains))])
}

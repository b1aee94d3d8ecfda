package db

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid"
)

// pushChars is ordered by ASCII so keys sort by creation time.
const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

var pushState struct {
	sync.Mutex
	lastMs   int64
	lastRand [12]byte
}

// NewPushKey returns a 20 character key: 8 characters of millisecond
// timestamp followed by 12 random characters. Keys made in the same
// millisecond still sort in creation order.
func NewPushKey() (string, error) {
	return pushKeyAt(time.Now())
}

func pushKeyAt(t time.Time) (string, error) {
	ms := t.UnixMilli()
	var stamp [8]byte
	for i, v := 7, ms; i >= 0; i-- {
		stamp[i] = pushChars[v%64]
		v /= 64
	}

	pushState.Lock()
	defer pushState.Unlock()
	if ms == pushState.lastMs {
		incrementSuffix(&pushState.lastRand)
	} else {
		suffix, err := gonanoid.Generate(pushChars, 12)
		if err != nil {
			return "", err
		}
		copy(pushState.lastRand[:], suffix)
		pushState.lastMs = ms
	}
	return string(stamp[:]) + string(pushState.lastRand[:]), nil
}

// incrementSuffix adds one to the suffix read as a base-64 number.
func incrementSuffix(s *[12]byte) {
	for i := len(s) - 1; i >= 0; i-- {
		idx := indexOfPushChar(s[i])
		if idx < 63 {
			s[i] = pushChars[idx+1]
			return
		}
		s[i] = pushChars[0]
	}
}

func indexOfPushChar(c byte) int {
	for i := 0; i < len(pushChars); i++ {
		if pushChars[i] == c {
			return i
		}
	}
	return 0
}

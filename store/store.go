package store

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
)

var log = logrus.WithField("pkg", "store")

var ErrNoSnapshot = errors.New("no saved game")

// Record is the outcome of submitting a completion time for a size class
type Record struct {
	Class       string
	Time        uint
	Previous    uint
	HadPrevious bool
	IsNewRecord bool
}

// Store persists the saved game and the best completion times per size class.
type Store interface {
	SaveSnapshot(snapshot *game.Snapshot) error
	// LoadSnapshot returns ErrNoSnapshot when no game is saved
	LoadSnapshot() (*game.Snapshot, error)
	DeleteSnapshot() error

	BestTime(class string) (uint, bool, error)
	BestTimes() (map[string]uint, error)
	RecordTime(class string, seconds uint) (Record, error)

	Close() error
}

const (
	KindFile   = "file"
	KindBadger = "badger"
)

// Open returns the store of the given kind rooted at dir
func Open(kind, dir string) (Store, error) {
	log.WithFields(logrus.Fields{
		"kind": kind,
		"dir":  dir,
	}).Debug("opening store")

	switch kind {
	case KindFile:
		return OpenFileStore(dir)
	case KindBadger:
		return OpenBadgerStore(dir)
	default:
		return nil, errors.Errorf("unknown store kind %q", kind)
	}
}

// compareTime applies the best-time rule: the first time for a class is kept,
// later ones only when strictly faster.
func compareTime(class string, seconds uint, previous uint, hadPrevious bool) Record {
	return Record{
		Class:       class,
		Time:        seconds,
		Previous:    previous,
		HadPrevious: hadPrevious,
		IsNewRecord: !hadPrevious || seconds < previous,
	}
}

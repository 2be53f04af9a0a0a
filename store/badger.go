package store

import (
	"encoding/binary"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
)

var (
	snapshotKey    = []byte("snapshot")
	bestTimePrefix = []byte("best/")
)

// BadgerStore keeps the saved game and best times in an embedded badger
// database.
type BadgerStore struct {
	db *badger.DB
}

func OpenBadgerStore(dir string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(dir))
}

// OpenMemoryBadgerStore returns a store that lives only as long as it is open
func OpenMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(options badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(options.WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}
	return &BadgerStore{db: db}, nil
}

func (store *BadgerStore) SaveSnapshot(snapshot *game.Snapshot) error {
	out, err := snapshot.Serialize()
	if err != nil {
		return errors.Wrap(err, "serialize snapshot")
	}

	err = store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, out)
	})
	if err != nil {
		return errors.Wrap(err, "save snapshot")
	}

	log.WithField("session", snapshot.SessionID).Info("saved game")
	return nil
}

func (store *BadgerStore) LoadSnapshot() (*game.Snapshot, error) {
	var in []byte
	err := store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err != nil {
			return err
		}
		in, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.Wrap(err, "load snapshot")
	}
	return game.LoadSnapshot(in)
}

func (store *BadgerStore) DeleteSnapshot() error {
	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(snapshotKey)
	})
	return errors.Wrap(err, "delete snapshot")
}

func bestTimeKey(class string) []byte {
	return append(append([]byte(nil), bestTimePrefix...), class...)
}

func encodeSeconds(seconds uint) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(seconds))
}

func decodeSeconds(value []byte) (uint, error) {
	if len(value) != 8 {
		return 0, errors.Errorf("best time holds %d bytes, expected 8", len(value))
	}
	return uint(binary.BigEndian.Uint64(value)), nil
}

func getBestTime(txn *badger.Txn, class string) (uint, bool, error) {
	item, err := txn.Get(bestTimeKey(class))
	if err == badger.ErrKeyNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return 0, false, err
	}
	seconds, err := decodeSeconds(value)
	return seconds, err == nil, err
}

func (store *BadgerStore) BestTime(class string) (seconds uint, ok bool, err error) {
	err = store.db.View(func(txn *badger.Txn) error {
		seconds, ok, err = getBestTime(txn, class)
		return err
	})
	return seconds, ok, errors.Wrapf(err, "best time for %s", class)
}

func (store *BadgerStore) BestTimes() (map[string]uint, error) {
	bestTimes := make(map[string]uint)

	err := store.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = bestTimePrefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			seconds, err := decodeSeconds(value)
			if err != nil {
				return err
			}
			bestTimes[strings.TrimPrefix(string(item.Key()), string(bestTimePrefix))] = seconds
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list best times")
	}
	return bestTimes, nil
}

func (store *BadgerStore) RecordTime(class string, seconds uint) (Record, error) {
	var record Record
	err := store.db.Update(func(txn *badger.Txn) error {
		previous, hadPrevious, err := getBestTime(txn, class)
		if err != nil {
			return err
		}

		record = compareTime(class, seconds, previous, hadPrevious)
		if !record.IsNewRecord {
			return nil
		}
		return txn.Set(bestTimeKey(class), encodeSeconds(seconds))
	})
	if err != nil {
		return Record{}, errors.Wrapf(err, "record time for %s", class)
	}

	if record.IsNewRecord {
		log.WithFields(logrus.Fields{
			"class": class,
			"time":  seconds,
		}).Info("new best time")
	}
	return record, nil
}

func (store *BadgerStore) Close() error {
	return store.db.Close()
}

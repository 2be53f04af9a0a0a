package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
	"gopkg.in/yaml.v2"
)

const (
	snapshotFilename  = "snapshot.yaml"
	bestTimesFilename = "best_times.yaml"
)

// FileStore keeps the saved game and best times as YAML files in a directory
type FileStore struct {
	dir  string
	lock sync.Mutex
}

func OpenFileStore(dir string) (*FileStore, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", dir)
		}
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return nil, errors.Wrapf(err, "create %s", dir)
		}
	} else if !stat.Mode().IsDir() {
		return nil, errors.Errorf("%s is not a directory; cannot store games in it", dir)
	}

	return &FileStore{dir: dir}, nil
}

func (store *FileStore) path(filename string) string {
	return filepath.Join(store.dir, filename)
}

func (store *FileStore) SaveSnapshot(snapshot *game.Snapshot) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	out, err := snapshot.Serialize()
	if err != nil {
		return errors.Wrap(err, "serialize snapshot")
	}
	if err := writeFileAtomic(store.path(snapshotFilename), out); err != nil {
		return err
	}

	log.WithField("path", store.path(snapshotFilename)).Info("saved game")
	return nil
}

func (store *FileStore) LoadSnapshot() (*game.Snapshot, error) {
	store.lock.Lock()
	defer store.lock.Unlock()

	in, err := os.ReadFile(store.path(snapshotFilename))
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	return game.LoadSnapshot(in)
}

func (store *FileStore) DeleteSnapshot() error {
	store.lock.Lock()
	defer store.lock.Unlock()

	err := os.Remove(store.path(snapshotFilename))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete snapshot")
	}
	return nil
}

func (store *FileStore) BestTime(class string) (uint, bool, error) {
	store.lock.Lock()
	defer store.lock.Unlock()

	bestTimes, err := store.readBestTimes()
	if err != nil {
		return 0, false, err
	}
	seconds, ok := bestTimes[class]
	return seconds, ok, nil
}

func (store *FileStore) BestTimes() (map[string]uint, error) {
	store.lock.Lock()
	defer store.lock.Unlock()

	return store.readBestTimes()
}

func (store *FileStore) RecordTime(class string, seconds uint) (Record, error) {
	store.lock.Lock()
	defer store.lock.Unlock()

	bestTimes, err := store.readBestTimes()
	if err != nil {
		return Record{}, err
	}

	previous, hadPrevious := bestTimes[class]
	record := compareTime(class, seconds, previous, hadPrevious)
	if !record.IsNewRecord {
		return record, nil
	}

	bestTimes[class] = seconds
	out, err := yaml.Marshal(bestTimes)
	if err != nil {
		return Record{}, errors.Wrap(err, "serialize best times")
	}
	if err := writeFileAtomic(store.path(bestTimesFilename), out); err != nil {
		return Record{}, err
	}

	log.WithFields(logrus.Fields{
		"class": class,
		"time":  seconds,
	}).Info("new best time")
	return record, nil
}

func (store *FileStore) readBestTimes() (map[string]uint, error) {
	bestTimes := make(map[string]uint)

	in, err := os.ReadFile(store.path(bestTimesFilename))
	if os.IsNotExist(err) {
		return bestTimes, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read best times")
	}
	if err := yaml.Unmarshal(in, &bestTimes); err != nil {
		return nil, errors.Wrap(err, "decode best times")
	}
	return bestTimes, nil
}

func (store *FileStore) Close() error {
	return nil
}

// writeFileAtomic writes through a temporary file so a crash never leaves a
// half-written record behind
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o666); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}

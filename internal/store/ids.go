package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NewID returns an ID with the given prefix that is not used by any entity in db.
func (db *DB) NewID(prefix string) (string, error) {
	for {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !db.idExists(id) {
			return id, nil
		}
	}
}

func (db *DB) idExists(id string) bool {
	if _, ok := db.FindScene(id); ok {
		return true
	}
	if _, ok := db.FindCollection(id); ok {
		return true
	}
	if _, ok := db.FindObject(id); ok {
		return true
	}
	if _, ok := db.FindStackItem(id); ok {
		return true
	}
	_, ok := db.FindMaterial(id)
	return ok
}

package whisper

import (
	"errors"
	"os"
	"sync"
	"syscall"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fileIdentity names a file by device and inode rather than by path, so
// the header cache survives a rename (as happens during Resize) without
// going stale and without needing invalidation on every write.
type fileIdentity struct {
	dev uint64
	ino uint64
}

var errNoStatT = errors.New("whisper: platform Stat_t unavailable")

func fileIdentityOf(f *os.File) (fileIdentity, error) {
	fi, err := f.Stat()
	if err != nil {
		return fileIdentity{}, err
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fileIdentity{}, errNoStatT
	}
	return fileIdentity{dev: uint64(st.Dev), ino: st.Ino}, nil
}

const headerCacheSize = 1024

var (
	headerCacheOnce sync.Once
	headerCache     *lru.Cache[fileIdentity, Header]
)

func getHeaderCache() *lru.Cache[fileIdentity, Header] {
	headerCacheOnce.Do(func() {
		c, err := lru.New[fileIdentity, Header](headerCacheSize)
		if err != nil {
			panic(err)
		}
		headerCache = c
	})
	return headerCache
}

func cachedHeader(id fileIdentity) (Header, bool) {
	return getHeaderCache().Get(id)
}

func cacheHeader(id fileIdentity, h Header) {
	getHeaderCache().Add(id, h)
}

func invalidateHeader(id fileIdentity) {
	getHeaderCache().Remove(id)
}

package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
	"time"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	mu  sync.Mutex
	rnd *mrand.Rand
)

func init() {
	var b [8]byte
	seed := time.Now().UnixNano()
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	rnd = mrand.New(mrand.NewSource(seed))
}

func String(length int) string {
	b := make([]byte, length)
	mu.Lock()
	for i := range b {
		b[i] = charset[rnd.Intn(len(charset))]
	}
	mu.Unlock()
	return string(b)
}

// StringSecure draws from crypto/rand; used for handoff and recovery
// tokens.
func StringSecure(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		l := big.NewInt(int64(len(charset)))
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

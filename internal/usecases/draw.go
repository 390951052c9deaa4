package usecases

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"hive-economy.backend/internal/domain/entities"
	domainerrors "hive-economy.backend/internal/domain/errors"
)

// DrawAlgoVersion pins the selection and proof formulas below. Any change
// to either requires a new version so old proofs stay verifiable.
const DrawAlgoVersion = "v1"

// NewDrawSeed generates the random seed a draw commits to
func NewDrawSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// SelectWinner picks one entry from the pool's fixed entry sequence,
// weighted by entry weight. The selection is a pure function of the pool,
// the seed and the entries, so replaying it with the stored seed always
// lands on the same entry.
func SelectWinner(poolID uuid.UUID, seed string, entries []*entities.JackpotEntry) (*entities.JackpotEntry, error) {
	if len(entries) == 0 {
		return nil, domainerrors.ErrNoEntries
	}

	var totalWeight int64
	for _, e := range entries {
		totalWeight += e.EntryWeight
	}
	if totalWeight <= 0 {
		return nil, domainerrors.ErrNoEntries
	}

	material := fmt.Sprintf("%s:%d:%s", poolID.String(), len(entries), seed)
	digest := sha256.Sum256([]byte(material))
	ticket := int64(binary.BigEndian.Uint64(digest[:8]) % uint64(totalWeight))

	var cursor int64
	for _, e := range entries {
		cursor += e.EntryWeight
		if ticket < cursor {
			return e, nil
		}
	}

	// Unreachable: cursor ends at totalWeight and ticket < totalWeight.
	return entries[len(entries)-1], nil
}

// FairnessProof binds a draw's inputs into a single digest anyone can
// recompute from the published pool, seed, prize and timestamp
func FairnessProof(poolID uuid.UUID, seed string, prize int64, drawnAt time.Time) string {
	material := fmt.Sprintf("%s:%s:%d:%s",
		poolID.String(), seed, prize, drawnAt.UTC().Format(time.RFC3339Nano))
	digest := sha256.Sum256([]byte(material))
	return hex.EncodeToString(digest[:])
}

// VerifyFairnessProof recomputes the proof for a recorded winner and checks
// it against the stored digest
func VerifyFairnessProof(winner *entities.JackpotWinner, seed string) bool {
	if winner.AlgoVersion != DrawAlgoVersion {
		return false
	}
	return FairnessProof(winner.PoolID, seed, winner.PrizeAmount, winner.DrawnAt) == winner.FairnessProof
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/proplab/proplab/internal/domain"
)

// Fingerprint derives a stable content hash for a backtest request so that
// identical requests share a cache slot. Log order is part of the identity:
// a reordered input hashes differently even though the simulator would score
// it the same.
func Fingerprint(f domain.CustomFilter, logs []domain.EnrichedGameLog, seasons []string, assumedOdds int) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(f)
	_ = enc.Encode(seasons)
	_ = enc.Encode(assumedOdds)
	for i := range logs {
		_ = enc.Encode(logs[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}

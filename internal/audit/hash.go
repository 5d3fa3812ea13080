package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/osse101/prizegrid/internal/domain"
)

// CanonicalGrid serializes the selected codes rank-major. Gaps are written as
// "-" so a gap and a real code can never collide.
func CanonicalGrid(grid domain.PrizeGrid) string {
	var b strings.Builder
	for r, row := range grid.Cells {
		if r > 0 {
			b.WriteString(rankSeparator)
		}
		for c, cell := range row {
			if c > 0 {
				b.WriteString(cellSeparator)
			}
			if cell.Gap || cell.Code == domain.GapCode {
				b.WriteString(gapToken)
				continue
			}
			b.WriteString(cell.Code)
		}
	}
	return b.String()
}

// Hash is the hex SHA-256 of the canonical grid and seed. Costs are not part
// of the digest, so a trim never changes it.
func Hash(grid domain.PrizeGrid, seed string) string {
	sum := sha256.Sum256([]byte(CanonicalGrid(grid) + seedSeparator + seed))
	return hex.EncodeToString(sum[:])
}

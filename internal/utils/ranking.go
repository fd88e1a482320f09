package utils

import (
	"math"
	"time"
)

// HotEpoch 热度时间项的起点
var HotEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// HotDecaySeconds is how many seconds of age are worth one order of magnitude
// of net votes.
const HotDecaySeconds = 45000.0

// HotScore ranks content by net votes (log10 compressed) plus recency.
// A zero score ranks purely by createdAt. Defined for any score and any
// timestamp, including ones before HotEpoch.
func HotScore(upvotes, downvotes int, createdAt time.Time) float64 {
	score := upvotes - downvotes

	// 1. 对数压缩：票数越多，边际影响越小
	order := math.Log10(math.Max(math.Abs(float64(score)), 1))

	// 2. 符号
	var sign float64
	switch {
	case score > 0:
		sign = 1
	case score < 0:
		sign = -1
	}

	// 3. 相对 epoch 的秒数（毫秒精度，避免 time.Duration 溢出）
	seconds := float64(createdAt.UnixMilli()-HotEpoch.UnixMilli()) / 1000

	return sign*order + seconds/HotDecaySeconds
}

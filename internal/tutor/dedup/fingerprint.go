package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// Fingerprint derives a stable content identifier from the fields that
// define a question's identity. Identical inputs always collide; any field
// change produces a different digest.
func Fingerprint(topic, subtopic, context string, difficulty int, questionText string) string {
	joined := strings.Join([]string{
		topic,
		subtopic,
		context,
		strconv.Itoa(difficulty),
		questionText,
	}, "|")
	sum := md5.Sum([]byte(joined))
	return hex.EncodeToString(sum[:])
}

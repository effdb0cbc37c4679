package cache

import (
	"fmt"
	"hash/fnv"
	"path"
	"sort"
	"strings"
)

// Cache keys are hierarchical, colon-separated strings so that one coarse
// glob pattern ("avail:{hotelId}:*") can invalidate many fine-grained
// entries without enumerating them. Building a key is a pure function of
// its inputs, independent of the backing store.
const (
	keyQuote        = "price-calc:%s:%s:%s"
	keyAvailability = "avail:%s:%s"
	keySearch       = "search:hotels:%s"
	keyHotelDetail  = "hotels:%s:detail"
	keyRuleSummary  = "rules:%s:%s:summary"
	keyMetrics      = "metrics:%s"
)

// HashParams folds request parameters into a short stable hash segment.
// Parameter order does not matter.
func HashParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(params[k]))
		h.Write([]byte{'|'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

func QuoteKey(hotelID, roomType string, params map[string]string) string {
	return fmt.Sprintf(keyQuote, hotelID, roomType, HashParams(params))
}

func AvailabilityKey(hotelID string, params map[string]string) string {
	return fmt.Sprintf(keyAvailability, hotelID, HashParams(params))
}

func SearchKey(params map[string]string) string {
	return fmt.Sprintf(keySearch, HashParams(params))
}

func HotelDetailKey(hotelID string) string {
	return fmt.Sprintf(keyHotelDetail, hotelID)
}

func RuleSummaryKey(hotelID, roomType string) string {
	return fmt.Sprintf(keyRuleSummary, hotelID, roomType)
}

func MetricsKey(name string) string {
	return fmt.Sprintf(keyMetrics, name)
}

// Invalidation patterns. Each mutation clears the minimal sufficient set,
// never a blanket flush.
func QuotePatternForHotel(hotelID string) string {
	return "price-calc:" + hotelID + ":*"
}

func QuotePatternForRoomType(hotelID, roomType string) string {
	return "price-calc:" + hotelID + ":" + roomType + ":*"
}

func AvailabilityPatternForHotel(hotelID string) string {
	return "avail:" + hotelID + ":*"
}

func RuleSummaryPattern(hotelID, roomType string) string {
	return "rules:" + hotelID + ":" + roomType + ":*"
}

func HotelDetailPattern(hotelID string) string {
	return "hotels:" + hotelID + ":*"
}

func SearchPattern() string {
	return "search:hotels:*"
}

// MatchKey reports whether a key matches a glob pattern. '*' crosses the
// colon separators, mirroring how the Redis backend matches KEYS patterns.
func MatchKey(pattern, key string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return pattern == key
	}
	matched, err := path.Match(pattern, key)
	if err != nil {
		return false
	}
	return matched
}

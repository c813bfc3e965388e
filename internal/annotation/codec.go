package annotation

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/marginalia/internal/engine/buffer"
)

// emptyState is the persisted form of an empty set.
const emptyState = `{"count":0,"annotations":{}}`

// record is the persisted form of one annotation.
type record struct {
	Range   [2]int64 `json:"range"`
	Hash    string   `json:"hash"`
	Comment string   `json:"comment"`
}

// recordKey returns the persisted key for an annotation id.
func recordKey(prefix string, id int) string {
	return prefix + strconv.Itoa(id)
}

// decodeSet converts a persisted value into a Set. A missing value is the
// empty set. Records with ids at or above count are ignored.
func decodeSet(v gjson.Result, prefix string) (*Set, error) {
	set := NewSet()
	if !v.Exists() || v.Type == gjson.Null {
		return set, nil
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrCorruptState, v.Type)
	}

	countValue := v.Get("count")
	count := 0
	if countValue.Exists() {
		if countValue.Type != gjson.Number || countValue.Int() < 0 {
			return nil, fmt.Errorf("%w: bad count %s", ErrCorruptState, countValue.Raw)
		}
		count = int(countValue.Int())
	}

	records := v.Get("annotations")
	if records.Exists() && !records.IsObject() {
		return nil, fmt.Errorf("%w: annotations is %s", ErrCorruptState, records.Type)
	}

	set.annotations = make([]Annotation, 0, count)
	for id := 0; id < count; id++ {
		key := recordKey(prefix, id)
		rec := records.Get(gjson.Escape(key))
		if !rec.Exists() {
			return nil, fmt.Errorf("%w: %s (count %d)", ErrMissingAnnotation, key, count)
		}
		a, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		a.ID = id
		set.annotations = append(set.annotations, a)
	}
	return set, nil
}

func decodeRecord(rec gjson.Result) (Annotation, error) {
	if !rec.IsObject() {
		return Annotation{}, fmt.Errorf("%w: record is %s", ErrCorruptState, rec.Type)
	}

	bounds := rec.Get("range")
	if !bounds.Exists() {
		// Older documents stored the range under "region".
		bounds = rec.Get("region")
	}
	points := bounds.Array()
	if !bounds.IsArray() || len(points) != 2 ||
		points[0].Type != gjson.Number || points[1].Type != gjson.Number {
		return Annotation{}, fmt.Errorf("%w: bad range %s", ErrCorruptState, bounds.Raw)
	}

	return Annotation{
		Range:   buffer.NewRange(points[0].Int(), points[1].Int()),
		Hash:    rec.Get("hash").String(),
		Comment: rec.Get("comment").String(),
	}, nil
}

// encodeSet converts a Set into its persisted JSON form.
func encodeSet(set *Set, prefix string) (string, error) {
	out, err := sjson.Set(emptyState, "count", set.Count())
	if err != nil {
		return "", err
	}
	for _, a := range set.annotations {
		path := "annotations." + gjson.Escape(recordKey(prefix, a.ID))
		out, err = sjson.Set(out, path, record{
			Range:   [2]int64{a.Range.Start, a.Range.End},
			Hash:    a.Hash,
			Comment: a.Comment,
		})
		if err != nil {
			return "", fmt.Errorf("encode annotation %d: %w", a.ID, err)
		}
	}
	return out, nil
}

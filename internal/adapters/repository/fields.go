package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/model"
)

// fieldReader reads loosely typed fields of one record, trying each alias
// in order and collecting ingestion issues.
type fieldReader struct {
	collection string
	record     Record
	issues     *[]model.Issue
}

func (r fieldReader) issue(field string, kind model.IssueKind, detail string) {
	*r.issues = append(*r.issues, model.Issue{
		Collection: r.collection,
		RecordID:   r.record.ID,
		Field:      field,
		Kind:       kind,
		Detail:     detail,
	})
}

func (r fieldReader) lookup(keys ...string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := r.record.Fields[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

func (r fieldReader) str(keys ...string) string {
	_, v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case fmt.Stringer:
		return strings.TrimSpace(x.String())
	case float64, int, int64, bool:
		return fmt.Sprint(x)
	}
	return ""
}

func (r fieldReader) boolean(keys ...string) bool {
	_, v, ok := r.lookup(keys...)
	if !ok {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return err == nil && b
	}
	n, ok := toFloat(v)
	return ok && n != 0
}

func (r fieldReader) number(keys ...string) (float64, bool) {
	key, v, ok := r.lookup(keys...)
	if !ok {
		return 0, false
	}
	n, ok := toFloat(v)
	if !ok {
		r.issue(key, model.IssueUnknownValue, fmt.Sprintf("not a number: %v", v))
	}
	return n, ok
}

// timestamp reads a timestamp. Unparsable values are reported and treated as
// absent, never defaulted to the current time.
func (r fieldReader) timestamp(keys ...string) *time.Time {
	key, v, ok := r.lookup(keys...)
	if !ok {
		return nil
	}
	t, err := parseTime(v)
	if err != nil {
		r.issue(key, model.IssueMalformedTimestamp, err.Error())
		return nil
	}
	return t
}

func (r fieldReader) object(keys ...string) map[string]any {
	_, v, ok := r.lookup(keys...)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

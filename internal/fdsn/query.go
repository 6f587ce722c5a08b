package fdsn

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Query is a service base URL plus typed parameters.
type Query struct {
	base string
	args map[string]Arg
}

// NewQuery creates a query against base. A trailing "?" on base is ignored.
func NewQuery(base string) *Query {
	return &Query{
		base: strings.TrimRight(base, "?"),
		args: make(map[string]Arg),
	}
}

// Base returns the service URL without parameters.
func (q *Query) Base() string { return q.base }

// Set stores a parameter, replacing any previous value.
func (q *Query) Set(key string, a Arg) *Query {
	if key != "" && a != nil {
		q.args[key] = a
	}
	return q
}

// Get returns a parameter and whether it is set.
func (q *Query) Get(key string) (Arg, bool) {
	a, ok := q.args[key]
	return a, ok
}

// Del removes a parameter and reports whether it was set.
func (q *Query) Del(key string) bool {
	_, ok := q.args[key]
	delete(q.args, key)
	return ok
}

// URL renders the query with parameters in sorted key order.
func (q *Query) URL() string {
	if len(q.args) == 0 {
		return q.base
	}
	v := make(url.Values, len(q.args))
	for k, a := range q.args {
		v.Set(k, a.String())
	}
	return q.base + "?" + v.Encode()
}

// TimeRange sets the start and end parameters.
func (q *Query) TimeRange(start, end time.Time) *Query {
	return q.Set("start", Time(start)).Set("end", Time(end))
}

// UseDuration replaces the end time with start + d.
func (q *Query) UseDuration(d time.Duration) error {
	a, ok := q.Get("start")
	if !ok {
		return fmt.Errorf("duration needs a start time")
	}
	start, ok := a.(Time)
	if !ok {
		return fmt.Errorf("start is not a time: %s", a)
	}
	q.Set("end", Time(time.Time(start).Add(d)))
	return nil
}

// Missing returns the required parameters that are not set: channel, start
// and end, plus network and station when needNetSta is true.
func (q *Query) Missing(needNetSta bool) []string {
	required := []string{"cha", "start", "end"}
	if needNetSta {
		required = append(required, "net", "sta")
	}
	var missing []string
	for _, k := range required {
		if _, ok := q.args[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// IsComplete reports whether every required parameter is set.
func (q *Query) IsComplete(needNetSta bool) bool {
	return len(q.Missing(needNetSta)) == 0
}

package fdsn

import (
	"strconv"
	"time"
)

// QueryTimeLayout is the time format used in query parameters.
const QueryTimeLayout = "2006-01-02T15:04:05"

// Arg is a typed query parameter value.
type Arg interface {
	// String formats the value for a query string.
	String() string
	isArg()
}

// Int is an integer parameter.
type Int int

// Float is a floating point parameter, formatted with six decimals.
type Float float64

// String is a text parameter.
type String string

// Time is a time parameter, formatted in UTC without a zone suffix.
type Time time.Time

func (i Int) String() string    { return strconv.Itoa(int(i)) }
func (f Float) String() string  { return strconv.FormatFloat(float64(f), 'f', 6, 64) }
func (s String) String() string { return string(s) }
func (t Time) String() string   { return time.Time(t).UTC().Format(QueryTimeLayout) }

func (Int) isArg()    {}
func (Float) isArg()  {}
func (String) isArg() {}
func (Time) isArg()   {}
